package models

import "time"

// MemberTier is a loyalty tier code that price records may target.
type MemberTier struct {
	Code      string    `gorm:"column:code;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
