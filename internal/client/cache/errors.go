package cache

import "errors"

// ErrExpired reports a stored collection outside the validity window.
var ErrExpired = errors.New("cache expired")
