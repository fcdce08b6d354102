package models

// SeatType identifies the enrollment track a seat sells.
type SeatType string

const (
	SeatTypeAudit        SeatType = "audit"
	SeatTypeHonor        SeatType = "honor"
	SeatTypeVerified     SeatType = "verified"
	SeatTypeProfessional SeatType = "professional"
	SeatTypeCredit       SeatType = "credit"
	SeatTypeMasters      SeatType = "masters"
)

// ValidSeatTypes lists every accepted seat type.
var ValidSeatTypes = []SeatType{
	SeatTypeAudit,
	SeatTypeHonor,
	SeatTypeVerified,
	SeatTypeProfessional,
	SeatTypeCredit,
	SeatTypeMasters,
}

// CourseRunStatus is the publication state of a course run.
type CourseRunStatus string

const (
	CourseRunStatusPublished   CourseRunStatus = "published"
	CourseRunStatusUnpublished CourseRunStatus = "unpublished"
)

// ProgramStatus is the lifecycle state of a program.
type ProgramStatus string

const (
	ProgramStatusActive  ProgramStatus = "active"
	ProgramStatusRetired ProgramStatus = "retired"
)

// ProgramTypeMasters is the program type slug that drives the masters
// seat side effects.
const ProgramTypeMasters = "masters"
