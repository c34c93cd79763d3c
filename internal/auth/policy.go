package auth

import "github.com/amolv/contesthub/internal/models"

// CanManage reports whether user may mutate a resource owned by ownerID.
// It is pure policy: the resource's owner id is handed in by the caller,
// never looked up here.
func CanManage(user *models.User, ownerID string) bool {
	if user == nil {
		return false
	}
	return user.ID == ownerID || user.IsAdmin()
}
