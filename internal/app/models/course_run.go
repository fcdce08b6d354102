package models

import (
	"time"

	"github.com/google/uuid"
)

// CourseRun represents a scheduled run of a course, e.g.
// course-v1:MITx+6.002x+2T2025.
type CourseRun struct {
	ID        int64           `json:"id" db:"id"`
	CourseID  int64           `json:"courseId" db:"course_id"`
	UUID      uuid.UUID       `json:"uuid" db:"uuid"`
	Key       string          `json:"key" db:"key"`
	Status    CourseRunStatus `json:"status" db:"status"`
	Start     *time.Time      `json:"start,omitempty" db:"start_at"`
	End       *time.Time      `json:"end,omitempty" db:"end_at"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
	Seats  []*Seat `json:"seats,omitempty"`
}

// CommerceContext carries everything the commerce course-mode push needs
// to know about a course run in a single read.
type CommerceContext struct {
	CourseRunKey      string
	CourseID          int64
	LMSCommerceAPIURL string
	InMastersProgram  bool
}
