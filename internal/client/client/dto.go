package client

// UserDTO is an element of GET /users.
type UserDTO struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// UserDetailDTO is the body of GET /users/{username}.
type UserDetailDTO struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	AvatarURL string  `json:"avatar_url"`
	HTMLURL   string  `json:"html_url"`
	Location  *string `json:"location"`
	Followers int     `json:"followers"`
	Following int     `json:"following"`
}
