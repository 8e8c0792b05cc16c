package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
)

// UserContext is the authenticated caller, decoded from the JWT and
// carried on the request context for handlers and services.
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Role        domain.UserRole
}

type contextKey struct{}

// WithUserContext attaches the caller to ctx.
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// FromContext returns the caller, if the request was authenticated.
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(contextKey{}).(*UserContext)
	return user, ok
}

// HasAnyRole reports whether the caller holds one of the given roles.
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// CanApprove reports whether the caller may approve or decline
// financial requests. Approval is an admin-only action.
func (u *UserContext) CanApprove() bool {
	return u.Role == domain.RoleAdmin
}

// CanProcessFunds reports whether the caller may process, refund, or
// release financial instruments.
func (u *UserContext) CanProcessFunds() bool {
	return u.HasAnyRole(domain.RoleAdmin, domain.RoleFinance)
}
