package app

import "bookstack/pkg/domain"

// Capability names one privileged operation. All role checks go through
// Allowed so the authorization matrix lives in exactly one place.
type Capability string

const (
	CapManageInventory Capability = "inventory.manage"
	CapManageUsers     Capability = "users.manage"
	CapBorrow          Capability = "loans.borrow"
	CapReturn          Capability = "loans.return"
	CapListAllLoans    Capability = "loans.list_all"
	CapListOwnLoans    Capability = "loans.list_own"
)

// Allowed reports whether the user holds the capability. Admins manage
// inventory and accounts but never borrow or return; members do the
// opposite.
func Allowed(u domain.User, c Capability) bool {
	if u.IsAdmin {
		switch c {
		case CapManageInventory, CapManageUsers, CapListAllLoans:
			return true
		}
		return false
	}
	switch c {
	case CapBorrow, CapReturn, CapListOwnLoans:
		return true
	}
	return false
}

func (a *App) require(u domain.User, c Capability) error {
	if !Allowed(u, c) {
		return ErrForbidden
	}
	return nil
}
