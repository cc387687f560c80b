package profile

import (
	"errors"
	"time"

	profileDatamodel "github.com/equiptrack/inventory-management/internal/core/datamodel/profile"
)

// Profile is one equipment profile: the model-level description shared by
// every asset of that hardware type.
type Profile struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Manufacturer string    `json:"manufacturer"`
	Category     string    `json:"category"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrNotFound      = errors.New("equipment profile not found")
	ErrAlreadyExists = errors.New("equipment profile already exists")
)

func (p *Profile) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

func NewProfile(name, manufacturer, category string) *Profile {
	now := time.Now()
	return &Profile{
		Name:         name,
		Manufacturer: manufacturer,
		Category:     category,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func ToDataModel(p *Profile) *profileDatamodel.EquipmentProfile {
	return &profileDatamodel.EquipmentProfile{
		ID:           p.ID,
		Name:         p.Name,
		Manufacturer: p.Manufacturer,
		Category:     p.Category,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func FromDataModel(row *profileDatamodel.EquipmentProfile) *Profile {
	return &Profile{
		ID:           row.ID,
		Name:         row.Name,
		Manufacturer: row.Manufacturer,
		Category:     row.Category,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
