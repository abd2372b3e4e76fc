package entity

// Role is the authorization role carried by a user.
type Role string

const (
	RoleUser   Role = "User"
	RoleEditor Role = "Editor"
	RoleAdmin  Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}
