package model

import "time"

// Access credential kinds. The association runs two independent
// access-control systems: physical RFID fobs and a mobile app.
const (
	CredentialKindRFID   = "rfid"
	CredentialKindMobile = "mobile"
)

// AccessCredential links a member to a door credential in one of the
// access-control systems.
type AccessCredential struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID   int64     `gorm:"index;not null" json:"member_id"`
	Kind       string    `gorm:"size:16;not null" json:"kind"`
	Identifier string    `gorm:"size:128;not null;uniqueIndex" json:"identifier"`
	CreatedAt  time.Time `json:"created_at"`

	// Associations
	Member Member `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
