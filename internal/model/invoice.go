package model

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses as mirrored from the accounting system.
const (
	InvoiceStatusOpen    = "open"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// Invoice is one fee invoice issued to a member.
type Invoice struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID    int64      `gorm:"index;not null" json:"member_id"`
	Reference   uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	Kind        string     `gorm:"size:32;not null" json:"kind"`
	AmountCents int64      `gorm:"not null" json:"amount_cents"`
	DueAt       time.Time  `gorm:"not null;index" json:"due_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	Status      string     `gorm:"size:16;not null" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Member Member `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
