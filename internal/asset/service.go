package asset

import (
	"context"
	"log/slog"
	"time"
)

// Repository defines the data access methods for assets
type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id int64) (*Asset, error)
	GetByTag(ctx context.Context, tag string) (*Asset, error)
	List(ctx context.Context, filter ListFilter) ([]*Asset, int64, error)
	Update(ctx context.Context, a *Asset) error
}

// ListFilter narrows a listing; zero values mean "no filter".
type ListFilter struct {
	Status       string
	AssignedTo   int64
	DepartmentID int64
	Offset       int
	Limit        int
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service handles asset business logic
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Create registers a new asset in stock. Tags are unique across the fleet.
func (s *Service) Create(ctx context.Context, dto CreateAssetDTO) (*Asset, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("asset validation failed", "error", err, "tag", dto.Tag)
		return nil, err
	}

	if existing, err := s.repo.GetByTag(ctx, dto.Tag); err == nil && existing != nil {
		return nil, ErrTagAlreadyExists
	}

	now := time.Now()
	a := &Asset{
		Tag:          dto.Tag,
		Name:         dto.Name,
		SerialNumber: dto.SerialNumber,
		ProfileID:    dto.ProfileID,
		DepartmentID: dto.DepartmentID,
		Status:       StatusInStock,
		PurchasedAt:  dto.PurchasedAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create asset", "error", err, "tag", dto.Tag)
		return nil, err
	}

	s.logger.Info("asset registered", "asset_id", a.ID, "tag", a.Tag)
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Asset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Asset, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// Update changes the descriptive fields of an asset.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateAssetDTO) (*Asset, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		a.Name = *dto.Name
	}
	if dto.SerialNumber != nil {
		a.SerialNumber = *dto.SerialNumber
	}
	if dto.ProfileID != nil {
		a.ProfileID = dto.ProfileID
	}
	if dto.DepartmentID != nil {
		a.DepartmentID = dto.DepartmentID
	}
	a.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("failed to update asset", "error", err, "asset_id", id)
		return nil, err
	}
	return a, nil
}

// Assign hands the asset to a user. Only in-stock assets can be assigned.
func (s *Service) Assign(ctx context.Context, id, userID int64) (*Asset, error) {
	return s.transition(ctx, id, func(a *Asset) error { return a.Assign(userID) })
}

// Return puts an assigned asset back in stock.
func (s *Service) Return(ctx context.Context, id int64) (*Asset, error) {
	return s.transition(ctx, id, (*Asset).Return)
}

// SendToMaintenance moves an in-stock asset into maintenance.
func (s *Service) SendToMaintenance(ctx context.Context, id int64) (*Asset, error) {
	return s.transition(ctx, id, (*Asset).SendToMaintenance)
}

// CompleteMaintenance returns an asset from maintenance to stock.
func (s *Service) CompleteMaintenance(ctx context.Context, id int64) (*Asset, error) {
	return s.transition(ctx, id, (*Asset).CompleteMaintenance)
}

// Retire removes the asset from circulation permanently.
func (s *Service) Retire(ctx context.Context, id int64) (*Asset, error) {
	return s.transition(ctx, id, (*Asset).Retire)
}

func (s *Service) transition(ctx context.Context, id int64, apply func(*Asset) error) (*Asset, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := a.Status
	if err := apply(a); err != nil {
		s.logger.Warn("asset transition rejected",
			"asset_id", id,
			"status", before,
			"error", err)
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("failed to persist asset transition", "error", err, "asset_id", id)
		return nil, err
	}

	s.logger.Info("asset status changed",
		"asset_id", id,
		"from", before,
		"to", a.Status)
	return a, nil
}
