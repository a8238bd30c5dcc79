package auth

// UserClaims is what the status server knows about an authenticated caller.
type UserClaims interface {
	UserID() string
	Role() string
	Source() string
	TokenID() string
}

// AdminClaims are carried by tokens minted with admin_token_gen.
type AdminClaims struct {
	Subject   string
	RoleValue string
	JTI       string
}

func (c *AdminClaims) UserID() string  { return c.Subject }
func (c *AdminClaims) Role() string    { return c.RoleValue }
func (c *AdminClaims) Source() string  { return "JWT" }
func (c *AdminClaims) TokenID() string { return c.JTI }
