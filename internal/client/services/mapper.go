package services

import (
	"github.com/dmitrijs2005/ghbrowse/internal/client/client"
	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
)

// MapUsers converts the /users response into domain users, keeping order.
func MapUsers(dtos []client.UserDTO) []models.User {
	out := make([]models.User, len(dtos))
	for i, d := range dtos {
		out[i] = models.User{Login: d.Login, AvatarURL: d.AvatarURL, HTMLURL: d.HTMLURL}
	}
	return out
}

// MapUserDetail converts the /users/{username} response.
func MapUserDetail(d *client.UserDetailDTO) *models.UserDetail {
	if d == nil {
		return nil
	}
	out := &models.UserDetail{
		Login:     d.Login,
		AvatarURL: d.AvatarURL,
		HTMLURL:   d.HTMLURL,
		Followers: d.Followers,
		Following: d.Following,
	}
	if d.Location != nil {
		loc := *d.Location
		out.Location = &loc
	}
	return out
}
