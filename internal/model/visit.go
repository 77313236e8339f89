package model

import "time"

// Visit is one recorded entry to the sauna, written by the access-control
// systems.
type Visit struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID  int64     `gorm:"index;not null" json:"member_id"`
	VisitedAt time.Time `gorm:"not null;index" json:"visited_at"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Member Member `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
