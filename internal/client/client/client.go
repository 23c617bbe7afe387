package client

import "context"

// Client is the remote source of GitHub users.
type Client interface {
	// FetchUsersPage returns up to perPage users whose numeric id is greater
	// than since, in ascending id order.
	FetchUsersPage(ctx context.Context, since, perPage int) ([]UserDTO, error)
	// FetchUserDetail returns the public profile of username.
	FetchUserDetail(ctx context.Context, username string) (*UserDetailDTO, error)
}
