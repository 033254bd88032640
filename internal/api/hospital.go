package api

import (
	"time"

	"hospitofind/internal/model"
)

// Address is the nested address shape used by hospital payloads.
type Address struct {
	Street string `json:"street" example:"1 Broad Street"`
	City   string `json:"city" validate:"required" example:"Lagos"`
	State  string `json:"state" validate:"required" example:"Nigeria"`
}

// HospitalRequest is the create/update payload. Unknown fields are
// rejected by the binder; city and state are mandatory.
// swagger:model api.HospitalRequest
type HospitalRequest struct {
	Name        string             `json:"name" validate:"required" example:"General Hospital Lagos"`
	Address     Address            `json:"address" validate:"required"`
	PhoneNumber string             `json:"phone_number" example:"+234 700 000 0000"`
	Website     string             `json:"website" example:"https://example.org"`
	Email       string             `json:"email" validate:"omitempty,email" example:"info@example.org"`
	PhotoURL    string             `json:"photo_url"`
	Type        string             `json:"type" example:"General"`
	Services    []string           `json:"services"`
	Comments    []string           `json:"comments"`
	Hours       []model.HoursEntry `json:"hours"`
}

// swagger:model api.HospitalResponse
type HospitalResponse struct {
	ID          int                `json:"id" example:"1"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Address     Address            `json:"address"`
	PhoneNumber string             `json:"phone_number"`
	Website     string             `json:"website"`
	Email       string             `json:"email"`
	PhotoURL    string             `json:"photo_url"`
	Type        string             `json:"type"`
	Services    []string           `json:"services"`
	Comments    []string           `json:"comments"`
	Hours       []model.HoursEntry `json:"hours"`
	Verified    bool               `json:"verified"`
	IsFeatured  bool               `json:"is_featured"`
	Longitude   *float64           `json:"longitude,omitempty"`
	Latitude    *float64           `json:"latitude,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func NewHospitalResponse(h model.Hospital) HospitalResponse {
	return HospitalResponse{
		ID:   h.ID,
		Name: h.Name,
		Slug: h.Slug,
		Address: Address{
			Street: h.Street,
			City:   h.City,
			State:  h.State,
		},
		PhoneNumber: h.PhoneNumber,
		Website:     h.Website,
		Email:       h.Email,
		PhotoURL:    h.PhotoURL,
		Type:        h.Type,
		Services:    h.Services,
		Comments:    h.Comments,
		Hours:       h.Hours,
		Verified:    h.Verified,
		IsFeatured:  h.IsFeatured,
		Longitude:   h.Longitude,
		Latitude:    h.Latitude,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func NewHospitalResponses(hs []model.Hospital) []HospitalResponse {
	out := make([]HospitalResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, NewHospitalResponse(h))
	}
	return out
}
