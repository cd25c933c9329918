package router

import "price-relay/src/models"

// Role is the classification of a login username.
type Role int

const (
	RoleUnrecognized Role = iota
	RoleWorker
	RoleDashboard
)

func (r Role) String() string {
	switch r {
	case RoleWorker:
		return "worker"
	case RoleDashboard:
		return "dashboard"
	default:
		return "unrecognized"
	}
}

// ResolveRole is the only place usernames are compared.
func ResolveRole(username string) Role {
	switch username {
	case models.UsernameWorker:
		return RoleWorker
	case models.UsernameDashboard:
		return RoleDashboard
	default:
		return RoleUnrecognized
	}
}
