package constants

// Role is the role claim carried by admin tokens.
type Role string

const (
	RoleAdmin Role = "admin"
)

func (r Role) String() string { return string(r) }
