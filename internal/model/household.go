package model

import "time"

// HouseholdRelation links a dependent member (a co-bather) to the primary
// member whose household they belong to.
type HouseholdRelation struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PrimaryMemberID   int64     `gorm:"index;not null" json:"primary_member_id"`
	DependentMemberID int64     `gorm:"uniqueIndex;not null" json:"dependent_member_id"`
	CreatedAt         time.Time `json:"created_at"`

	// Associations
	PrimaryMember   Member `gorm:"foreignKey:PrimaryMemberID;constraint:OnDelete:CASCADE" json:"-"`
	DependentMember Member `gorm:"foreignKey:DependentMemberID;constraint:OnDelete:CASCADE" json:"-"`
}
