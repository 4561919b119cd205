package order

import (
	"github.com/shoemarket/backend/internal/domain/identity"
)

// Policy consolidates the authorization rules for order operations. Every
// rule takes (actor, order) so ownership checks live in one place instead of
// being scattered across handlers and services.
type Policy struct{}

// CanView grants order detail access to the buyer, an admin, or a seller
// with at least one item in the order. Role alone is never sufficient.
func (Policy) CanView(actor identity.Actor, o *Order) bool {
	if !actor.IsAuthenticated() {
		return false
	}
	if actor.IsAdmin() || actor.Is(o.UserID) {
		return true
	}
	return actor.IsSeller() && o.HasSeller(actor.UserID)
}

// CanAdvance grants forward status transitions to admins and to sellers who
// own at least one item in the order. The return/refund path is admin only.
func (Policy) CanAdvance(actor identity.Actor, o *Order, target Status) bool {
	if !actor.IsAuthenticated() {
		return false
	}
	if target == StatusReturned || target == StatusRefunded {
		return actor.IsAdmin()
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.IsSeller() && o.HasSeller(actor.UserID)
}

// CanCancel grants cancellation to the buyer who placed the order or an
// admin. Ownership, not role, gates this: a seller with items in the order
// cannot cancel it. The shipped-blocks-cancellation rule is enforced by the
// state machine, not here.
func (Policy) CanCancel(actor identity.Actor, o *Order) bool {
	if !actor.IsAuthenticated() {
		return false
	}
	return actor.IsAdmin() || actor.Is(o.UserID)
}
