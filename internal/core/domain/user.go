package domain

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleFarmer Role = "farmer"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleFarmer, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	UserID string
	Role   Role
}
