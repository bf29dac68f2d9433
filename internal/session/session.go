// Package session defines the explicit session object threaded through every
// tenant-scoped call site. There is no ambient "current tenant" state; a
// caller without a Session carrying a tenant id cannot touch tenant data.
package session

import (
	"context"
	"errors"
)

// ErrNoTenant is returned by any tenant-scoped operation attempted without
// an active tenant. It must never be silently swallowed into a no-op.
var ErrNoTenant = errors.New("no active tenant")

// Session identifies the caller and the tenant (company) namespace all of
// their reads and writes are scoped to.
type Session struct {
	UserID      string
	Email       string
	TenantID    string
	CompanyName string
}

// RequireTenant returns ErrNoTenant when the session is nil or carries no
// tenant id. Stores call this before touching any tenant-scoped document.
func (s *Session) RequireTenant() error {
	if s == nil || s.TenantID == "" {
		return ErrNoTenant
	}
	return nil
}

type contextKey struct{}

// NewContext stores the session in the context for the HTTP layer.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session placed by the auth middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
