package model

import "time"

// MemberBadge records that a member currently holds a badge. Dynamic
// badges are swapped wholesale on each recompute; permanent badges are
// only ever inserted.
type MemberBadge struct {
	MemberID  int64     `gorm:"primaryKey" json:"member_id"`
	Code      string    `gorm:"primaryKey;size:64" json:"code"`
	EarnedAt  time.Time `gorm:"not null" json:"earned_at"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Member Member `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
