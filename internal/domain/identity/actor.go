package identity

import "github.com/google/uuid"

// Actor identifies the authenticated principal performing an operation.
// Authorization decisions take an Actor and the target resource; services
// never consult the HTTP layer for identity.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// Anonymous is the actor used for unauthenticated requests
var Anonymous = Actor{}

// IsAuthenticated returns true if the actor carries a user identity
func (a Actor) IsAuthenticated() bool {
	return a.UserID != uuid.Nil
}

// IsAdmin returns true for admin actors
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsSeller returns true for seller actors
func (a Actor) IsSeller() bool {
	return a.Role == RoleSeller
}

// Is returns true if the actor is the given user
func (a Actor) Is(userID uuid.UUID) bool {
	return a.UserID != uuid.Nil && a.UserID == userID
}
