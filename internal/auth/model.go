package auth

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Known reports whether r is one of the defined roles.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleUser
}
