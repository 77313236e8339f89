package model

import "time"

// Member represents one person known to the association. The row itself
// carries only identity facts; the membership category is derived on read
// from payments, visits, credentials and household relations.
type Member struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	FirstName        string    `gorm:"size:128;not null" json:"first_name"`
	LastName         string    `gorm:"size:128;not null" json:"last_name"`
	Email            string    `gorm:"size:256;index" json:"email"`
	Phone            string    `gorm:"size:32" json:"phone"`
	AccountingStatus string    `gorm:"size:32" json:"accounting_status"` // mirrored from the accounting system
	JoinedAt         time.Time `gorm:"not null" json:"joined_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Associations
	Payments    []Payment          `gorm:"foreignKey:MemberID" json:"-"`
	Visits      []Visit            `gorm:"foreignKey:MemberID" json:"-"`
	Credentials []AccessCredential `gorm:"foreignKey:MemberID" json:"-"`
	Invoices    []Invoice          `gorm:"foreignKey:MemberID" json:"-"`
}
