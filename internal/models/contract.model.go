package models

import "time"

const (
	ReminderStatusPending       = "pending"
	ReminderStatusSent          = "sent"
	ReminderStatusFailed        = "failed"
	ReminderStatusNotApplicable = "not_applicable"
)

type Contract struct {
	BaseUUIDModel
	CustomerName   string     `gorm:"type:varchar(255);not null" json:"customerName"`
	Email          string     `gorm:"type:varchar(255);not null" json:"email"`
	Phone          *string    `gorm:"type:varchar(32)"           json:"phone,omitempty"`
	PostalCode     string     `gorm:"type:varchar(5)"            json:"postalCode,omitempty"`
	PriceZone      string     `gorm:"type:varchar(3)"            json:"priceZone,omitempty"`
	Supplier       string     `gorm:"type:varchar(255);not null" json:"supplier"`
	StartDate      Date       `gorm:"type:date;not null"         json:"startDate"`
	Duration       string     `gorm:"type:varchar(16);not null"  json:"duration"`
	ExpiryDate     *Date      `gorm:"type:date"                  json:"expiryDate,omitempty"`
	ReminderDate   *Date      `gorm:"type:date;index"            json:"reminderDate,omitempty"`
	ReminderStatus string     `gorm:"type:varchar(20);not null"  json:"reminderStatus"` // pending, sent, failed, not_applicable
	ReminderSentAt *time.Time `gorm:"type:timestamp"             json:"reminderSentAt,omitempty"`
	ReminderError  *string    `gorm:"type:text"                  json:"reminderError,omitempty"`
}

type RegisterContractRequest struct {
	CustomerName string  `json:"customerName"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	PostalCode   string  `json:"postalCode"`
	Supplier     string  `json:"supplier"`
	StartDate    string  `json:"startDate"`
	Duration     string  `json:"duration"`
}

type ReminderPreviewRequest struct {
	StartDate string `json:"startDate"`
	Duration  string `json:"duration"`
}

type DurationCount struct {
	Duration string `json:"duration"`
	Count    int64  `json:"count"`
}
