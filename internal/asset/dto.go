package asset

import (
	"errors"
	"time"
)

// CreateAssetDTO represents the request payload for registering an asset
type CreateAssetDTO struct {
	Tag          string     `json:"tag" validate:"required"`
	Name         string     `json:"name" validate:"required,min=1,max=200"`
	SerialNumber string     `json:"serial_number,omitempty"`
	ProfileID    *int64     `json:"profile_id,omitempty"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	PurchasedAt  *time.Time `json:"purchased_at,omitempty"`
}

func (dto CreateAssetDTO) Validate() error {
	if dto.Tag == "" {
		return errors.New("tag is required")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if len(dto.Name) > 200 {
		return errors.New("name must be less than 200 characters")
	}
	if dto.PurchasedAt != nil && dto.PurchasedAt.After(time.Now()) {
		return errors.New("purchase date cannot be in the future")
	}
	return nil
}

// UpdateAssetDTO carries the mutable descriptive fields; status changes go
// through the dedicated transition endpoints.
type UpdateAssetDTO struct {
	Name         *string `json:"name,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
	ProfileID    *int64  `json:"profile_id,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`
}

func (dto UpdateAssetDTO) Validate() error {
	if dto.Name != nil {
		if *dto.Name == "" {
			return errors.New("name cannot be empty")
		}
		if len(*dto.Name) > 200 {
			return errors.New("name must be less than 200 characters")
		}
	}
	return nil
}

// AssignAssetDTO names the user receiving the asset
type AssignAssetDTO struct {
	UserID int64 `json:"user_id" validate:"required"`
}

func (dto AssignAssetDTO) Validate() error {
	if dto.UserID <= 0 {
		return errors.New("user_id is required")
	}
	return nil
}
