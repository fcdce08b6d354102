package models

import (
	"time"

	"github.com/google/uuid"
)

// Curriculum groups the courses that make up one version of a program.
type Curriculum struct {
	ID        int64     `json:"id" db:"id"`
	UUID      uuid.UUID `json:"uuid" db:"uuid"`
	ProgramID int64     `json:"programId" db:"program_id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Program *Program `json:"program,omitempty"`
}

// CurriculumCourseMembership ties a course into a curriculum. Creating one
// is the mutation that triggers the masters seat side effect.
type CurriculumCourseMembership struct {
	ID           int64     `json:"id" db:"id"`
	CurriculumID int64     `json:"curriculumId" db:"curriculum_id"`
	CourseID     int64     `json:"courseId" db:"course_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Curriculum *Curriculum `json:"curriculum,omitempty"`
	Course     *Course     `json:"course,omitempty"`
}
