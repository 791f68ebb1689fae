// Package identity carries the acting user and the anonymous browsing session
// through a request. Both are resolved once at the HTTP boundary and passed
// explicitly into the domain services.
package identity

import (
	"context"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns nil for anonymous requests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
