package models

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Member is an account member. Role is RoleAdmin for organization owners.
type Member struct {
	Login string `json:"login" yaml:"login"`
	Role  string `json:"role,omitempty" yaml:"role,omitempty"`
}

func (m Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}
