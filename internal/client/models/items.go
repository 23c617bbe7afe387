package models

import "slices"

// UserListItem is one row of the users list. ID is the login, so the same user
// keeps its identity across reloads and a consumer can diff two states.
type UserListItem struct {
	ID        string
	Login     string
	AvatarURL string
	HTMLURL   string
}

func NewUserListItem(u User) UserListItem {
	return UserListItem{ID: u.Login, Login: u.Login, AvatarURL: u.AvatarURL, HTMLURL: u.HTMLURL}
}

func NewUserListItems(users []User) []UserListItem {
	out := make([]UserListItem, len(users))
	for i, u := range users {
		out[i] = NewUserListItem(u)
	}
	return out
}

// ViewState is what the users list renders.
type ViewState struct {
	Items     []UserListItem
	IsLoading bool
}

func (s ViewState) Equal(o ViewState) bool {
	return s.IsLoading == o.IsLoading && slices.Equal(s.Items, o.Items)
}

// Clone returns a copy whose Items slice does not alias s.
func (s ViewState) Clone() ViewState {
	return ViewState{Items: slices.Clone(s.Items), IsLoading: s.IsLoading}
}

// DetailItemKind names a section of the user detail page.
type DetailItemKind string

const (
	DetailItemHeader DetailItemKind = "header"
	DetailItemStats  DetailItemKind = "stats"
	DetailItemBlog   DetailItemKind = "blog"
)

// UserDetailItem is one section of the user detail page. Only the fields of
// its Kind are set.
type UserDetailItem struct {
	Kind DetailItemKind

	// header
	AvatarURL string
	Login     string
	Location  string

	// stats
	Followers int
	Following int

	// blog
	URL string
}

// NewUserDetailItems lays out d as header, stats and blog sections.
func NewUserDetailItems(d UserDetail) []UserDetailItem {
	header := UserDetailItem{Kind: DetailItemHeader, AvatarURL: d.AvatarURL, Login: d.Login}
	if d.Location != nil {
		header.Location = *d.Location
	}
	return []UserDetailItem{
		header,
		{Kind: DetailItemStats, Followers: d.Followers, Following: d.Following},
		{Kind: DetailItemBlog, URL: d.HTMLURL},
	}
}

// DetailState is what the user detail page renders.
type DetailState struct {
	User      *UserDetail
	Items     []UserDetailItem
	IsLoading bool
}
