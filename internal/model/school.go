package model

import (
	"time"

	"github.com/google/uuid"
)

// School is the tenant boundary: users, students, fee types, sessions and
// payments all carry a SchoolID and are never visible across schools.
type School struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Code      string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
