package models

import (
	"time"

	"gorm.io/gorm"
)

// SectorCheckin records which campus sector a user is currently in.
// A user has at most one active check-in; a new one replaces the old.
type SectorCheckin struct {
	gorm.Model  `json:"-"`
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex"` // Mongo user id hex
	Username    string    `json:"username"`
	Sector      string    `json:"sector" gorm:"index"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

type CheckinRequest struct {
	Sector string `json:"sector" validate:"required,min=1,max=60"`
}
