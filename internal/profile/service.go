package profile

import (
	"context"
	"log/slog"

	profileDatamodel "github.com/equiptrack/inventory-management/internal/core/datamodel/profile"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*profileDatamodel.EquipmentProfile, error)
	GetByID(ctx context.Context, id int64) (*profileDatamodel.EquipmentProfile, error)
	GetByName(ctx context.Context, name string) (*profileDatamodel.EquipmentProfile, error)
	Create(ctx context.Context, row *profileDatamodel.EquipmentProfile) error
	Deactivate(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// GetActiveProfiles lists profiles still offered for new assets.
// Deactivated profiles stay in storage for the assets that reference them.
func (s *Service) GetActiveProfiles(ctx context.Context) ([]ProfileResponse, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to load equipment profiles", "error", err)
		return nil, err
	}

	var responses []ProfileResponse
	for _, row := range rows {
		p := FromDataModel(row)
		if !p.IsActive {
			continue
		}
		responses = append(responses, ProfileResponse{
			ID:           p.ID,
			Name:         p.Name,
			Manufacturer: p.Manufacturer,
			Category:     p.Category,
		})
	}

	return responses, nil
}

func (s *Service) Create(ctx context.Context, dto CreateProfileDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByName(ctx, dto.Name); err == nil && existing != nil {
		return nil, ErrAlreadyExists
	}

	p := NewProfile(dto.Name, dto.Manufacturer, dto.Category)
	row := ToDataModel(p)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create equipment profile", "name", dto.Name, "error", err)
		return nil, err
	}
	p.ID = row.ID
	return p, nil
}

// Deactivate retires a profile from the catalog without touching assets
// that already reference it.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrNotFound
	}
	return s.repo.Deactivate(ctx, id)
}
