package dto

import "time"

// CreatePartnerRequest is the payload for registering a partner.
type CreatePartnerRequest struct {
	Name              string `json:"name" binding:"required" example:"edX"`
	ShortCode         string `json:"shortCode" binding:"required" example:"edx"`
	LMSURL            string `json:"lmsUrl" binding:"omitempty,url" example:"https://lms.example.com/"`
	LMSCommerceAPIURL string `json:"lmsCommerceApiUrl" binding:"omitempty,url" example:"https://lms.example.com/api/commerce/v1/"`
}

// UpdatePartnerRequest updates mutable partner fields.
type UpdatePartnerRequest struct {
	Name              string `json:"name" binding:"required"`
	LMSURL            string `json:"lmsUrl" binding:"omitempty,url"`
	LMSCommerceAPIURL string `json:"lmsCommerceApiUrl" binding:"omitempty,url"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	PartnerID        int64   `json:"partnerId" binding:"required,min=1" example:"1"`
	Key              string  `json:"key" binding:"required" example:"MITx+6.002x"`
	Title            string  `json:"title" binding:"required" example:"Circuits and Electronics"`
	URLSlug          string  `json:"urlSlug" binding:"omitempty" example:"circuits-and-electronics"`
	ShortDescription *string `json:"shortDescription,omitempty"`
	Draft            bool    `json:"draft"`
}

// UpdateCourseRequest updates mutable course fields.
type UpdateCourseRequest struct {
	Title            string  `json:"title" binding:"required"`
	URLSlug          string  `json:"urlSlug" binding:"omitempty"`
	ShortDescription *string `json:"shortDescription,omitempty"`
	Draft            bool    `json:"draft"`
}

// CreateCourseRunRequest is the payload for scheduling a course run.
type CreateCourseRunRequest struct {
	CourseID int64      `json:"courseId" binding:"required,min=1" example:"1"`
	Key      string     `json:"key" binding:"required" example:"course-v1:MITx+6.002x+2T2025"`
	Status   string     `json:"status" binding:"omitempty,oneof=published unpublished" example:"published"`
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
}

// UpdateCourseRunRequest updates mutable course run fields.
type UpdateCourseRunRequest struct {
	Status string     `json:"status" binding:"required,oneof=published unpublished"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
}

// CreateSeatRequest adds a seat to a course run.
type CreateSeatRequest struct {
	Type            string     `json:"type" binding:"required,oneof=audit honor verified professional credit masters" example:"verified"`
	Price           float64    `json:"price" binding:"min=0" example:"49.00"`
	Currency        string     `json:"currency" binding:"required,len=3" example:"USD"`
	SKU             *string    `json:"sku,omitempty"`
	UpgradeDeadline *time.Time `json:"upgradeDeadline,omitempty"`
}

// CreateProgramTypeRequest registers a new program type.
type CreateProgramTypeRequest struct {
	Name string `json:"name" binding:"required" example:"Masters"`
	Slug string `json:"slug" binding:"required" example:"masters"`
}

// CreateProgramRequest is the payload for creating a program.
type CreateProgramRequest struct {
	Title         string `json:"title" binding:"required" example:"Online Master of Science"`
	ProgramTypeID int64  `json:"programTypeId" binding:"required,min=1"`
	PartnerID     int64  `json:"partnerId" binding:"required,min=1"`
	Status        string `json:"status" binding:"omitempty,oneof=active retired"`
}

// UpdateProgramRequest updates mutable program fields.
type UpdateProgramRequest struct {
	Title  string `json:"title" binding:"required"`
	Status string `json:"status" binding:"required,oneof=active retired"`
}

// CreateCurriculumRequest is the payload for creating a curriculum.
type CreateCurriculumRequest struct {
	ProgramID int64  `json:"programId" binding:"required,min=1"`
	Name      string `json:"name" binding:"omitempty"`
	IsActive  bool   `json:"isActive"`
}

// UpdateCurriculumRequest updates mutable curriculum fields.
type UpdateCurriculumRequest struct {
	Name     string `json:"name" binding:"omitempty"`
	IsActive bool   `json:"isActive"`
}

// AddCurriculumCourseRequest ties a course into a curriculum.
type AddCurriculumCourseRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// UpdateSwitchRequest toggles a feature switch.
type UpdateSwitchRequest struct {
	Active bool   `json:"active"`
	Note   string `json:"note" binding:"omitempty"`
}
