package permissions

import (
	"context"
	"log/slog"

	"github.com/equiptrack/inventory-management/internal/auth"
)

// Checker is the narrow authorization interface handed to transport
// middleware and page handlers.
type Checker interface {
	HasPermission(ctx context.Context, ident *auth.Identity, name string) bool
	HasAny(ctx context.Context, ident *auth.Identity, names ...string) bool
	HasAll(ctx context.Context, ident *auth.Identity, names ...string) bool
}

// Service answers permission questions for authenticated identities. Every
// ambiguous input — missing identity, unknown name, unreadable store —
// resolves to "deny"; an authorization check never surfaces an error to the
// request path.
type Service struct {
	cache  *Cache
	logger *slog.Logger
}

func NewService(cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cache: cache, logger: logger}
}

// HasPermission reports whether the identity holds the named permission.
func (s *Service) HasPermission(ctx context.Context, ident *auth.Identity, name string) bool {
	if !ident.Resolved() {
		return false
	}

	perm, ok := Parse(name)
	if !ok {
		s.logger.Warn("permission check against unregistered name", "permission", name)
		return false
	}

	set, err := s.cache.Get(ctx, ident.UserID)
	if err != nil {
		// Refresh failures deny rather than propagate; an authorization
		// check must not be mistakable for "allow" by an error mishandler.
		s.logger.Error("permission refresh failed, denying",
			"user_id", ident.UserID,
			"permission", name,
			"error", err)
		return false
	}

	return set.Has(perm)
}

// HasAny is true when at least one name evaluates true. An empty list is
// false: asking for nothing grants nothing.
func (s *Service) HasAny(ctx context.Context, ident *auth.Identity, names ...string) bool {
	for _, name := range names {
		if s.HasPermission(ctx, ident, name) {
			return true
		}
	}
	return false
}

// HasAll is true when every name evaluates true. An empty list is
// vacuously true.
func (s *Service) HasAll(ctx context.Context, ident *auth.Identity, names ...string) bool {
	for _, name := range names {
		if !s.HasPermission(ctx, ident, name) {
			return false
		}
	}
	return true
}

// Invalidate evicts the user's cached permission set. Call after every
// permission-assignment write so the next check sees the new row.
func (s *Service) Invalidate(userID int64) {
	s.cache.Invalidate(userID)
}
