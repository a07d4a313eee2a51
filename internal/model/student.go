package model

import (
	"time"

	"github.com/google/uuid"
)

// Student is the person payments are recorded against.
type Student struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"not null"`
	// Matricule is the school-assigned enrollment number.
	Matricule string `gorm:"type:varchar(30);not null;index"`
	// GuardianEmail, when present, receives payment receipts.
	GuardianEmail *string
	Active        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
