// Package models defines the client-side data models of ghbrowse: domain
// users, their cached representation and the view-level items built from them.
package models

// User is a GitHub user as listed by the /users endpoint.
type User struct {
	// Login is the unique, stable GitHub handle.
	Login     string
	AvatarURL string
	HTMLURL   string
}

// UserDetail is the extended profile of a single user.
type UserDetail struct {
	Login     string
	AvatarURL string
	HTMLURL   string

	// Location is nil when the user did not set one.
	Location *string

	Followers int
	Following int
}
