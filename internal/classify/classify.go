package classify

import "time"

// Category is the membership category derived from a member's fact snapshot.
type Category string

const (
	CategoryMember   Category = "member"
	CategorySponsor  Category = "sponsor"
	CategoryQueued   Category = "queued"
	CategoryCoBather Category = "co_bather"
	CategoryInactive Category = "inactive"
)

// AccountingStatus is the authoritative status flag sourced from the
// external accounting system. Empty means the accounting system has no
// opinion about the member.
type AccountingStatus string

const (
	AccountingStatusNone   AccountingStatus = ""
	AccountingStatusQueued AccountingStatus = "queued"
)

// MemberFacts is a read-only snapshot of everything the classifier needs
// about one member. It is assembled fresh per evaluation by the store;
// nil pointers mean "never happened".
type MemberFacts struct {
	MemberID            int64            `json:"member_id"`
	AccountingStatus    AccountingStatus `json:"accounting_status,omitempty"`
	LastAnnualFeeAt     *time.Time       `json:"last_annual_fee_at,omitempty"`
	LastEntranceFeeAt   *time.Time       `json:"last_entrance_fee_at,omitempty"`
	LastQueueFeeAt      *time.Time       `json:"last_queue_fee_at,omitempty"`
	LastVisitAt         *time.Time       `json:"last_visit_at,omitempty"`
	HasAccessCredential bool             `json:"has_access_credential"`
	HouseholdDependent  bool             `json:"household_dependent"`
}

const (
	// DefaultFeeWindowMonths is the trailing window within which a
	// membership or queue fee still counts as current. The association
	// invoices annually, so a paid-up member is at most 12 months plus
	// one month of grace behind.
	DefaultFeeWindowMonths = 13

	// DefaultActiveWindowMonths is the trailing window within which a
	// visit counts as recent activity.
	DefaultActiveWindowMonths = 3
)

// Classifier derives membership categories from fact snapshots. The zero
// value is not usable; construct one with New.
type Classifier struct {
	FeeWindowMonths    int
	ActiveWindowMonths int
}

// New returns a Classifier with the default windows.
func New() Classifier {
	return Classifier{
		FeeWindowMonths:    DefaultFeeWindowMonths,
		ActiveWindowMonths: DefaultActiveWindowMonths,
	}
}

// Classify maps a fact snapshot to exactly one category, evaluated as of
// the given instant. It is total: every snapshot yields a category and no
// combination of missing fields errors.
//
// The accounting system's queued flag is checked before any payment
// recency, so a queued member with stale payment history is still queued.
func (c Classifier) Classify(facts MemberFacts, asOf time.Time) Category {
	if facts.AccountingStatus == AccountingStatusQueued {
		return CategoryQueued
	}

	paidMembership := c.withinFeeWindow(facts.LastAnnualFeeAt, asOf) ||
		c.withinFeeWindow(facts.LastEntranceFeeAt, asOf)
	if paidMembership {
		if c.IsActive(facts, asOf) {
			return CategoryMember
		}
		return CategorySponsor
	}

	if c.withinFeeWindow(facts.LastQueueFeeAt, asOf) {
		return CategoryQueued
	}

	neverPaid := facts.LastAnnualFeeAt == nil && facts.LastEntranceFeeAt == nil
	if facts.HouseholdDependent || (facts.HasAccessCredential && neverPaid) {
		return CategoryCoBather
	}

	return CategoryInactive
}

// IsActive reports whether the member has visited within the active
// window as of the given instant.
func (c Classifier) IsActive(facts MemberFacts, asOf time.Time) bool {
	return withinWindow(facts.LastVisitAt, asOf, c.ActiveWindowMonths)
}

func (c Classifier) withinFeeWindow(paidAt *time.Time, asOf time.Time) bool {
	return withinWindow(paidAt, asOf, c.FeeWindowMonths)
}

// withinWindow reports whether ts falls inside the trailing window of the
// given number of months ending at asOf. The lower boundary is inclusive:
// a timestamp exactly `months` months before asOf is inside the window.
// Timestamps after asOf count as inside as well; the snapshot is trusted.
func withinWindow(ts *time.Time, asOf time.Time, months int) bool {
	if ts == nil {
		return false
	}
	windowStart := asOf.AddDate(0, -months, 0)
	return !ts.Before(windowStart)
}
