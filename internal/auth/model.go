package auth

// User is a staff account. Role gates what the POS lets them do.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}

// Staff roles.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
	RoleWaiter  = "WAITER"
	RoleKitchen = "KITCHEN"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleCashier, RoleWaiter, RoleKitchen:
		return true
	}
	return false
}
