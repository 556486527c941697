package services

import "github.com/lzytourist/digital-classroom/internal/models"

// Access policy predicates. These are pure functions over the actor's role
// and, for object-level checks, the resource's owning identity; every
// mutating operation consults them before touching a store.

func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

func IsAdminOrTeacher(u *models.User) bool {
	return u != nil && (u.Role == models.RoleAdmin || u.Role == models.RoleTeacher)
}

// CanManageOwned is the object-level admin-or-teacher check: admins always
// pass, teachers pass only when they are the resource's owning identity.
func CanManageOwned(actor *models.User, ownerID *uint) bool {
	if IsAdmin(actor) {
		return true
	}
	if actor == nil || actor.Role != models.RoleTeacher || ownerID == nil {
		return false
	}
	return actor.ID == *ownerID
}
