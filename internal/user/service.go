package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/equiptrack/inventory-management/internal/auth"
	"github.com/equiptrack/inventory-management/internal/permissions"
)

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	SetActive(ctx context.Context, userID int64, active bool) error
}

// PermissionStore reads and writes the per-user flags row.
type PermissionStore interface {
	GetPermissionSet(ctx context.Context, userID int64) (permissions.Set, bool, error)
	SavePermissionSet(ctx context.Context, userID int64, set permissions.Set) error
}

// CacheInvalidator evicts a user's cached permission decision after an
// assignment write.
type CacheInvalidator interface {
	Invalidate(userID int64)
}

type Service struct {
	repo      Repository
	permStore PermissionStore
	permCache CacheInvalidator
	hasher    *auth.PasswordHasher
	logger    *slog.Logger
}

func NewService(repo Repository, permStore PermissionStore, permCache CacheInvalidator, hasher *auth.PasswordHasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		permStore: permStore,
		permCache: permCache,
		hasher:    hasher,
		logger:    logger,
	}
}

// Create inserts the account and seeds its permission row from the role.
// The role-to-permission mapping runs only here; later role edits do not
// re-derive.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(ctx, dto.Email); err == nil && existing != nil {
		return nil, ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		Role:         dto.Role,
		Department:   dto.Department,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	seeded := permissions.DeriveForRole(dto.Role)
	if err := s.permStore.SavePermissionSet(ctx, u.ID, seeded); err != nil {
		return nil, fmt.Errorf("seed permissions: %w", err)
	}
	s.permCache.Invalidate(u.ID)

	u.Permissions = seeded.Names()
	return u, nil
}

// GetByID loads the user with the permission names that currently
// evaluate true for them.
func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	set, _, err := s.permStore.GetPermissionSet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	u.Permissions = set.Names()
	return u, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

// UpdatePermissions replaces the user's flag row and evicts the cached
// decision so the next check reads the new row.
func (s *Service) UpdatePermissions(ctx context.Context, userID int64, dto UpdatePermissionsDTO) (permissions.Set, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return permissions.Set{}, err
	}

	set := dto.Permissions.Normalized()
	if err := s.permStore.SavePermissionSet(ctx, userID, set); err != nil {
		return permissions.Set{}, fmt.Errorf("save permissions: %w", err)
	}
	s.permCache.Invalidate(userID)

	return set, nil
}

// SetActive flips the account's active flag and drops the cached
// permissions; a deactivated user should fail the next check quickly.
func (s *Service) SetActive(ctx context.Context, userID int64, active bool) error {
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		return err
	}
	s.permCache.Invalidate(userID)
	return nil
}
