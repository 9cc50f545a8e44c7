package auth

// Role is the access level attached to an authenticated session.
type Role string

const (
	// RoleCashier may add items and sell.
	RoleCashier Role = "cashier"
	// RoleManager has the full menu: stock updates, deletes, inventory
	// views and reports on top of the cashier operations.
	RoleManager Role = "manager"
)

// Valid reports whether the role is one of the known access levels.
func (r Role) Valid() bool {
	return r == RoleCashier || r == RoleManager
}

// Privileged reports whether the role unlocks the manager-only operations.
func (r Role) Privileged() bool {
	return r == RoleManager
}

// Session is the request-scoped identity constructed once per
// authenticated interaction and passed along with each operation. It is
// never shared process-wide.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// User is one credentials entry in the users file.
type User struct {
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
}
