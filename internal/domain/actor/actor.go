// Package actor defines the calling principal resolved from request
// credentials and the contract for resolving it.
package actor

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrAuthenticationRequired is returned when a request carries no usable
// credential or the credential does not resolve to a known user.
var ErrAuthenticationRequired = errors.New("authentication required")

// Role enumerates the recognized principal roles.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Actor is the resolved calling principal. It is threaded explicitly through
// every service call; there is no ambient "current user" state.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Resolver turns an opaque credential (an Authorization header value) into
// an Actor. Implementations fail with ErrAuthenticationRequired when the
// credential is missing, malformed, or does not match a known user.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (Actor, error)
}
