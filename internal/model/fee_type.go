package model

import (
	"time"

	"github.com/google/uuid"
)

// FeeType is a billable category a payment is recorded against
// (tuition, enrollment, canteen, transport…).
type FeeType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Code        string    `gorm:"type:varchar(30);not null;index"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
