package order

import (
	"github.com/orderdesk/api/internal/domain/actor"
)

// CanAccess reports whether the actor may view or mutate the order:
// admins always, everyone else only their own orders.
func CanAccess(a actor.Actor, o *Order) bool {
	return a.IsAdmin() || a.ID == o.OwnerID
}

// MustAccess is CanAccess as a guard. It runs before the terminal-status
// check on every operation, so an outsider probing a finished order sees
// ErrAccessDenied, never ErrStatusConflict.
func MustAccess(a actor.Actor, o *Order) error {
	if !CanAccess(a, o) {
		return ErrAccessDenied
	}
	return nil
}

// ScopeFilter narrows a list filter to the actor's own orders unless the
// actor is an admin. Narrowing never fails; a plain user asking for
// someone else's orders simply gets their own.
func ScopeFilter(a actor.Actor, f Filter) Filter {
	if !a.IsAdmin() {
		f.OwnerID = a.ID
	}
	return f
}
