package cache

import "time"

// DefaultMaxAgeDays is how many calendar days a cached collection stays valid.
const DefaultMaxAgeDays = 7

// Policy decides whether a collection fetched at a given instant may still be
// served.
type Policy struct {
	MaxAgeDays int
}

// DefaultPolicy returns the seven day policy.
func DefaultPolicy() Policy {
	return Policy{MaxAgeDays: DefaultMaxAgeDays}
}

// Expiry is timestamp plus MaxAgeDays calendar days, computed in timestamp's
// location.
func (p Policy) Expiry(timestamp time.Time) time.Time {
	return timestamp.AddDate(0, 0, p.MaxAgeDays)
}

// Validate reports whether a collection stamped timestamp is valid at now.
// Timestamps in the future are invalid, as is everything at or past expiry.
func (p Policy) Validate(timestamp, now time.Time) bool {
	if now.Before(timestamp) {
		return false
	}
	return now.Before(p.Expiry(timestamp))
}
