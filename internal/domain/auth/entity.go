package auth

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can read company-wide reports
	RoleEmployee Role = "employee" // Regular employee
)

// IsManager reports whether the role may read other employees' attendance.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}

// Identity is the subject of an access token.
type Identity struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       Role
}
