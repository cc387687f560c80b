package asset

import (
	"errors"
	"time"

	assetDatamodel "github.com/equiptrack/inventory-management/internal/core/datamodel/asset"
)

// Asset is one tracked piece of equipment. Status moves between in_stock,
// assigned, maintenance and retired; the transition helpers below are the
// only paths between them.
type Asset struct {
	ID           int64      `json:"id"`
	Tag          string     `json:"tag"`
	Name         string     `json:"name"`
	SerialNumber string     `json:"serial_number,omitempty"`
	ProfileID    *int64     `json:"profile_id,omitempty"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	Status       string     `json:"status"`
	AssignedTo   *int64     `json:"assigned_to,omitempty"`
	PurchasedAt  *time.Time `json:"purchased_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

const (
	StatusInStock     = "in_stock"
	StatusAssigned    = "assigned"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

var (
	ErrNotFound          = errors.New("asset not found")
	ErrTagAlreadyExists  = errors.New("asset tag already exists")
	ErrInvalidTransition = errors.New("invalid asset status transition")
)

func (a *Asset) CanBeAssigned() bool {
	return a.Status == StatusInStock
}

func (a *Asset) CanBeReturned() bool {
	return a.Status == StatusAssigned
}

func (a *Asset) Assign(userID int64) error {
	if !a.CanBeAssigned() {
		return ErrInvalidTransition
	}
	a.Status = StatusAssigned
	a.AssignedTo = &userID
	a.UpdatedAt = time.Now()
	return nil
}

func (a *Asset) Return() error {
	if !a.CanBeReturned() {
		return ErrInvalidTransition
	}
	a.Status = StatusInStock
	a.AssignedTo = nil
	a.UpdatedAt = time.Now()
	return nil
}

// SendToMaintenance pulls the asset out of circulation. Assigned assets
// must be returned first.
func (a *Asset) SendToMaintenance() error {
	if a.Status != StatusInStock {
		return ErrInvalidTransition
	}
	a.Status = StatusMaintenance
	a.UpdatedAt = time.Now()
	return nil
}

func (a *Asset) CompleteMaintenance() error {
	if a.Status != StatusMaintenance {
		return ErrInvalidTransition
	}
	a.Status = StatusInStock
	a.UpdatedAt = time.Now()
	return nil
}

// Retire is terminal; a retired asset never re-enters stock.
func (a *Asset) Retire() error {
	if a.Status == StatusAssigned {
		return ErrInvalidTransition
	}
	a.Status = StatusRetired
	a.AssignedTo = nil
	a.UpdatedAt = time.Now()
	return nil
}

func ToDataModel(a *Asset) *assetDatamodel.Asset {
	return &assetDatamodel.Asset{
		ID:           a.ID,
		Tag:          a.Tag,
		Name:         a.Name,
		SerialNumber: a.SerialNumber,
		ProfileID:    a.ProfileID,
		DepartmentID: a.DepartmentID,
		Status:       a.Status,
		AssignedTo:   a.AssignedTo,
		PurchasedAt:  a.PurchasedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func FromDataModel(a *assetDatamodel.Asset) *Asset {
	return &Asset{
		ID:           a.ID,
		Tag:          a.Tag,
		Name:         a.Name,
		SerialNumber: a.SerialNumber,
		ProfileID:    a.ProfileID,
		DepartmentID: a.DepartmentID,
		Status:       a.Status,
		AssignedTo:   a.AssignedTo,
		PurchasedAt:  a.PurchasedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
