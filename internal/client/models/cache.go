package models

import "time"

// LocalUser is the storage-side representation of a User.
type LocalUser struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// CachedUsers is the single cached collection: the users of the last
// successful first-page fetch and the instant that fetch completed.
type CachedUsers struct {
	Users     []LocalUser
	Timestamp time.Time
}

// ToLocal maps domain users to their storage form.
func ToLocal(users []User) []LocalUser {
	out := make([]LocalUser, len(users))
	for i, u := range users {
		out[i] = LocalUser{Login: u.Login, AvatarURL: u.AvatarURL, HTMLURL: u.HTMLURL}
	}
	return out
}

// ToModels maps stored users back to domain users.
func ToModels(local []LocalUser) []User {
	out := make([]User, len(local))
	for i, u := range local {
		out[i] = User{Login: u.Login, AvatarURL: u.AvatarURL, HTMLURL: u.HTMLURL}
	}
	return out
}
