package model

import "time"

// HoursEntry is a single opening-hours line, e.g. {"Monday", "8am - 6pm"}.
type HoursEntry struct {
	Day  string `json:"day"`
	Open string `json:"open"`
}

// Hospital is a directory record. It is publicly listed only once
// Verified is true; Longitude/Latitude stay nil until geocoding succeeds.
type Hospital struct {
	ID          int          `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Slug        string       `db:"slug" json:"slug"`
	Street      string       `db:"street" json:"street"`
	City        string       `db:"city" json:"city"`
	State       string       `db:"state" json:"state"`
	PhoneNumber string       `db:"phone_number" json:"phone_number"`
	Website     string       `db:"website" json:"website"`
	Email       string       `db:"email" json:"email"`
	PhotoURL    string       `db:"photo_url" json:"photo_url"`
	Type        string       `db:"type" json:"type"`
	Services    []string     `db:"services" json:"services"`
	Comments    []string     `db:"comments" json:"comments"`
	Hours       []HoursEntry `db:"hours" json:"hours"`
	Verified    bool         `db:"verified" json:"verified"`
	IsFeatured  bool         `db:"is_featured" json:"is_featured"`
	CreatedBy   *int         `db:"created_by" json:"created_by,omitempty"`
	Longitude   *float64     `db:"longitude" json:"longitude,omitempty"`
	Latitude    *float64     `db:"latitude" json:"latitude,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// HasCoordinates reports whether the record has been geocoded.
func (h *Hospital) HasCoordinates() bool {
	return h.Longitude != nil && h.Latitude != nil
}
