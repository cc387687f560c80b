package profile

import "errors"

// CreateProfileDTO is the request payload for registering a profile
type CreateProfileDTO struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Category     string `json:"category"`
}

func (dto CreateProfileDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type ProfileResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Category     string `json:"category"`
}

type ProfilesResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}
