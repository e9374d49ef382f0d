package domain

// Role names are fixed; scopes are derived rather than stored per user.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Scopes returns the access-token scopes granted to the role.
func (r Role) Scopes() []string {
	base := []string{"attendance:write", "attendance:read", "profile:read", "profile:write", "role:request"}
	if r == RoleAdmin {
		return append(base, "admin:read", "admin:write", "roles:assign")
	}
	return base
}
