package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgramType categorizes programs (masters, micromasters, ...). The
// masters side effects key on the slug, not the display name.
type ProgramType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Program is a partner-owned collection of courses leading to a credential.
type Program struct {
	ID            int64         `json:"id" db:"id"`
	UUID          uuid.UUID     `json:"uuid" db:"uuid"`
	Title         string        `json:"title" db:"title"`
	ProgramTypeID int64         `json:"programTypeId" db:"program_type_id"`
	PartnerID     int64         `json:"partnerId" db:"partner_id"`
	Status        ProgramStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Type    *ProgramType `json:"type,omitempty"`
	Partner *Partner     `json:"partner,omitempty"`
}
