package models

// Role values the admin API assigns to operators.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
	RoleTelecaller = "telecaller"
)

// Profile identifies the logged-in operator.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	AdminID  string `json:"adminId"`
}

// IsSuperAdmin reports whether the operator may reassign leads.
func (p Profile) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// Credentials is the opt-in remembered login used to prefill the prompt.
type Credentials struct {
	UserID   string
	Password string
}

// StatesAndCities maps each state to its cities.
type StatesAndCities map[string][]string
