package models

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a course owned by a partner. A course may exist in
// both a published and a draft row; the (partner, key, draft),
// (partner, url_slug, draft) and (partner, uuid, draft) pairs are unique.
type Course struct {
	ID               int64     `json:"id" db:"id"`
	UUID             uuid.UUID `json:"uuid" db:"uuid"`
	PartnerID        int64     `json:"partnerId" db:"partner_id"`
	Key              string    `json:"key" db:"key"`
	Title            string    `json:"title" db:"title"`
	URLSlug          string    `json:"urlSlug" db:"url_slug"`
	ShortDescription *string   `json:"shortDescription,omitempty" db:"short_description"`
	Draft            bool      `json:"draft" db:"draft"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Partner *Partner `json:"partner,omitempty"`
}
