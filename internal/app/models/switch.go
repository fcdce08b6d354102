package models

import "time"

// Switch is a named on/off feature toggle stored in the database.
type Switch struct {
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	Note      string    `json:"note" db:"note"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SwitchMastersCourseMode gates the masters seat side effects: seat
// creation on curriculum membership and the commerce course-mode push.
const SwitchMastersCourseMode = "masters_course_mode_enabled"
