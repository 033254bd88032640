package model

import "time"

// ShareTTL is how long a shareable link stays retrievable.
const ShareTTL = 30 * 24 * time.Hour

// SharedHospital is an immutable snapshot of a hospital at share time.
// The snapshot survives later edits or deletion of the source record.
type SharedHospital struct {
	HospitalID int      `json:"hospital_id"`
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Phone      string   `json:"phone"`
	Website    string   `json:"website"`
	Email      string   `json:"email"`
	PhotoURL   string   `json:"photo_url"`
	Type       string   `json:"type"`
	Services   []string `json:"services"`
}

// ShareableLink is a time-limited snapshot of a search result set,
// retrievable by its random LinkID for ShareTTL after creation.
type ShareableLink struct {
	ID        int              `db:"id" json:"-"`
	LinkID    string           `db:"link_id" json:"link_id"`
	Hospitals []SharedHospital `db:"hospitals" json:"hospitals"`
	CreatedBy *int             `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
