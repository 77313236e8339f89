package model

import "time"

// Payment kinds as recorded by the accounting system.
const (
	PaymentKindAnnual   = "annual"
	PaymentKindEntrance = "entrance"
	PaymentKindQueue    = "queue"
)

// Payment is one fee payment mirrored from the accounting ledger.
type Payment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID    int64     `gorm:"index;not null" json:"member_id"`
	Kind        string    `gorm:"size:32;not null;index" json:"kind"`
	PaidAt      time.Time `gorm:"not null;index" json:"paid_at"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`

	// Associations
	Member Member `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
