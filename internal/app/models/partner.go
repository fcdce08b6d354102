package models

import "time"

// Partner represents an LMS installation whose catalog this service indexes.
type Partner struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	ShortCode         string    `json:"shortCode" db:"short_code"`
	LMSURL            string    `json:"lmsUrl" db:"lms_url"`
	LMSCommerceAPIURL string    `json:"lmsCommerceApiUrl" db:"lms_commerce_api_url"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}
