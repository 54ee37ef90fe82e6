// Package permission maps roles to task capabilities.
// The gate is pure and is consulted on every mutation path, client and server.
package permission

import "github.com/taskdeck/taskdeck/internal/domain"

// Capability is a single task operation a role may perform.
type Capability string

const (
	Create Capability = "create"
	Update Capability = "update"
	Delete Capability = "delete"
)

// CanCreate is true for ADMIN and SUPERVISOR.
func CanCreate(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleSupervisor
}

// CanDelete is true for ADMIN only.
func CanDelete(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanUpdate is true for every role except VIEWER.
func CanUpdate(role domain.Role) bool {
	return role != domain.RoleViewer
}

// Allows reports whether role holds capability c.
func Allows(role domain.Role, c Capability) bool {
	switch c {
	case Create:
		return CanCreate(role)
	case Update:
		return CanUpdate(role)
	case Delete:
		return CanDelete(role)
	}
	return false
}

// Capabilities returns the capability set for role in a stable order.
func Capabilities(role domain.Role) []Capability {
	var caps []Capability
	for _, c := range []Capability{Create, Update, Delete} {
		if Allows(role, c) {
			caps = append(caps, c)
		}
	}
	return caps
}
