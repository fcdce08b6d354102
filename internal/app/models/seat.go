package models

import "time"

// Seat is a purchasable enrollment mode on a course run. A run carries at
// most one seat per type.
type Seat struct {
	ID              int64      `json:"id" db:"id"`
	CourseRunID     int64      `json:"courseRunId" db:"course_run_id"`
	Type            SeatType   `json:"type" db:"type"`
	Price           float64    `json:"price" db:"price"`
	CurrencyCode    string     `json:"currency" db:"currency_code"`
	SKU             *string    `json:"sku,omitempty" db:"sku"`
	UpgradeDeadline *time.Time `json:"upgradeDeadline,omitempty" db:"upgrade_deadline"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// Currency is an ISO 4217 currency seats may be priced in.
type Currency struct {
	Code   string `json:"code" db:"code"`
	Name   string `json:"name" db:"name"`
	Symbol string `json:"symbol" db:"symbol"`
}
