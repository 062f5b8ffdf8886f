package constants

// Role is a user role. The set is fixed at build time.
type Role string

const (
	Admin    Role = "admin"
	Editor   Role = "editor"
	Customer Role = "customer"
	Viewer   Role = "viewer"
)

// ValidRoles lists every known role, highest privilege first.
var ValidRoles = []Role{Admin, Editor, Customer, Viewer}

// IsValidRole returns true if role is one of the known roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}
