package user

import "github.com/equiptrack/inventory-management/internal/permissions"

// CreateUserDTO is the transport shape for account creation. Role decides
// the initial permission set.
type CreateUserDTO struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Password   string `json:"password"`
}

// UpdatePermissionsDTO carries a full replacement flag set for one user.
type UpdatePermissionsDTO struct {
	Permissions permissions.Set `json:"permissions"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateUserDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	if len(d.Password) < 8 {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	return nil
}
