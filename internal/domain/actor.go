package domain

import "fmt"

// Role is the role of an authenticated user
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a raw role name
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleClient, RoleEmployee, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Actor is the authenticated user performing an operation.
// Employees are stylists, so an employee's ID is their stylist ID.
type Actor struct {
	ID   int64
	Role Role
}

// IsClient returns true if the actor may book appointments
func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}

// IsAdmin returns true for administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManageCalendar returns true if the actor may edit the stylist's calendar
func (a Actor) CanManageCalendar(stylistID int64) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleEmployee:
		return a.ID == stylistID
	default:
		return false
	}
}

// CanCancel returns true if the actor may cancel an appointment of the slot
func (a Actor) CanCancel(slot *Slot) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleEmployee:
		return slot.StylistID == a.ID
	case RoleClient:
		return slot.IsBookedBy(a.ID)
	default:
		return false
	}
}

// CanViewClient returns true if the actor may see the client's appointments
func (a Actor) CanViewClient(clientID int64) bool {
	return a.IsAdmin() || (a.IsClient() && a.ID == clientID)
}
