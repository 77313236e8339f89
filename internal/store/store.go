package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sauna-admin-backend/internal/classify"
	"sauna-admin-backend/internal/model"
)

// ErrMemberNotFound is returned when a member ID resolves to no row.
var ErrMemberNotFound = errors.New("member not found")

// MemberSnapshot pairs a member row with its classification facts.
type MemberSnapshot struct {
	Member model.Member
	Facts  classify.MemberFacts
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	Member(ctx context.Context, memberID int64) (model.Member, error)
	MemberIDs(ctx context.Context) ([]int64, error)
	MemberFacts(ctx context.Context, memberID int64) (classify.MemberFacts, error)
	Roster(ctx context.Context) ([]MemberSnapshot, error)
	VisitsSince(ctx context.Context, memberID int64, since time.Time) ([]time.Time, error)
	VisitCounts(ctx context.Context, since time.Time) (map[int64]int64, error)
	MemberBadges(ctx context.Context, memberID int64) ([]model.MemberBadge, error)
	UpdateMemberBadges(ctx context.Context, memberID int64, now time.Time, earned []string, isDynamic func(string) bool) error
	InvoicesForMember(ctx context.Context, memberID int64) ([]model.Invoice, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for handler-level reads.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Member retrieves a single member row.
func (s *gormStore) Member(ctx context.Context, memberID int64) (model.Member, error) {
	var member model.Member
	err := s.db.WithContext(ctx).First(&member, memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Member{}, ErrMemberNotFound
	}
	if err != nil {
		return model.Member{}, fmt.Errorf("failed to fetch member %d: %w", memberID, err)
	}
	return member, nil
}

// MemberIDs returns the IDs of every member.
func (s *gormStore) MemberIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&model.Member{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list member ids: %w", err)
	}
	return ids, nil
}

// Aggregate expression columns bypass GORM's schema-based time
// conversion, so MAX(...) values arrive as whatever the driver hands
// back: time.Time under postgres, text under sqlite. The rows scan the
// column as a string and parse it afterwards.
type lastPaymentRow struct {
	MemberID   int64
	Kind       string
	LastPaidAt sql.NullString
}

// lastVisitRow carries the newest visit per member.
type lastVisitRow struct {
	MemberID    int64
	LastVisitAt sql.NullString
}

// columnTimeLayouts lists the textual timestamp forms the drivers
// produce: RFC 3339 from database/sql's time formatting, the SQLite
// storage layouts otherwise.
var columnTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseColumnTime converts a raw aggregate column into a timestamp.
// Returns ok=false for NULL.
func parseColumnTime(v sql.NullString) (time.Time, bool, error) {
	if !v.Valid || v.String == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range columnTimeLayouts {
		if t, err := time.Parse(layout, v.String); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unparseable timestamp %q", v.String)
}

// MemberFacts assembles the classification snapshot for one member.
func (s *gormStore) MemberFacts(ctx context.Context, memberID int64) (classify.MemberFacts, error) {
	member, err := s.Member(ctx, memberID)
	if err != nil {
		return classify.MemberFacts{}, err
	}

	facts := classify.MemberFacts{
		MemberID:         member.ID,
		AccountingStatus: classify.AccountingStatus(member.AccountingStatus),
	}

	var payments []lastPaymentRow
	if err := s.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("member_id, kind, MAX(paid_at) as last_paid_at").
		Where("member_id = ?", memberID).
		Group("member_id, kind").
		Scan(&payments).Error; err != nil {
		return classify.MemberFacts{}, fmt.Errorf("failed to aggregate payments for member %d: %w", memberID, err)
	}
	for _, p := range payments {
		if err := applyPayment(&facts, p); err != nil {
			return classify.MemberFacts{}, err
		}
	}

	var visits []lastVisitRow
	if err := s.db.WithContext(ctx).
		Model(&model.Visit{}).
		Select("member_id, MAX(visited_at) as last_visit_at").
		Where("member_id = ?", memberID).
		Group("member_id").
		Scan(&visits).Error; err != nil {
		return classify.MemberFacts{}, fmt.Errorf("failed to aggregate visits for member %d: %w", memberID, err)
	}
	if len(visits) > 0 {
		if err := applyVisit(&facts, visits[0]); err != nil {
			return classify.MemberFacts{}, err
		}
	}

	var credentialCount int64
	if err := s.db.WithContext(ctx).
		Model(&model.AccessCredential{}).
		Where("member_id = ?", memberID).
		Count(&credentialCount).Error; err != nil {
		return classify.MemberFacts{}, fmt.Errorf("failed to count credentials for member %d: %w", memberID, err)
	}
	facts.HasAccessCredential = credentialCount > 0

	var relationCount int64
	if err := s.db.WithContext(ctx).
		Model(&model.HouseholdRelation{}).
		Where("dependent_member_id = ?", memberID).
		Count(&relationCount).Error; err != nil {
		return classify.MemberFacts{}, fmt.Errorf("failed to count household relations for member %d: %w", memberID, err)
	}
	facts.HouseholdDependent = relationCount > 0

	return facts, nil
}

// Roster returns every member together with their classification facts,
// assembled with a handful of grouped queries instead of one round trip
// per member.
func (s *gormStore) Roster(ctx context.Context) ([]MemberSnapshot, error) {
	var members []model.Member
	if err := s.db.WithContext(ctx).Order("id").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	var payments []lastPaymentRow
	if err := s.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("member_id, kind, MAX(paid_at) as last_paid_at").
		Group("member_id, kind").
		Scan(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}

	var visits []lastVisitRow
	if err := s.db.WithContext(ctx).
		Model(&model.Visit{}).
		Select("member_id, MAX(visited_at) as last_visit_at").
		Group("member_id").
		Scan(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate visits: %w", err)
	}

	var credentialHolders []int64
	if err := s.db.WithContext(ctx).
		Model(&model.AccessCredential{}).
		Distinct("member_id").
		Pluck("member_id", &credentialHolders).Error; err != nil {
		return nil, fmt.Errorf("failed to list credential holders: %w", err)
	}

	var dependents []int64
	if err := s.db.WithContext(ctx).
		Model(&model.HouseholdRelation{}).
		Distinct("dependent_member_id").
		Pluck("dependent_member_id", &dependents).Error; err != nil {
		return nil, fmt.Errorf("failed to list household dependents: %w", err)
	}

	factsByID := make(map[int64]*classify.MemberFacts, len(members))
	out := make([]MemberSnapshot, len(members))
	for i, m := range members {
		out[i] = MemberSnapshot{
			Member: m,
			Facts: classify.MemberFacts{
				MemberID:         m.ID,
				AccountingStatus: classify.AccountingStatus(m.AccountingStatus),
			},
		}
		factsByID[m.ID] = &out[i].Facts
	}

	for _, p := range payments {
		if facts, ok := factsByID[p.MemberID]; ok {
			if err := applyPayment(facts, p); err != nil {
				return nil, err
			}
		}
	}
	for _, v := range visits {
		if facts, ok := factsByID[v.MemberID]; ok {
			if err := applyVisit(facts, v); err != nil {
				return nil, err
			}
		}
	}
	for _, id := range credentialHolders {
		if facts, ok := factsByID[id]; ok {
			facts.HasAccessCredential = true
		}
	}
	for _, id := range dependents {
		if facts, ok := factsByID[id]; ok {
			facts.HouseholdDependent = true
		}
	}

	return out, nil
}

func applyPayment(facts *classify.MemberFacts, p lastPaymentRow) error {
	t, ok, err := parseColumnTime(p.LastPaidAt)
	if err != nil {
		return fmt.Errorf("payment aggregate for member %d: %w", p.MemberID, err)
	}
	if !ok {
		return nil
	}
	switch p.Kind {
	case model.PaymentKindAnnual:
		facts.LastAnnualFeeAt = &t
	case model.PaymentKindEntrance:
		facts.LastEntranceFeeAt = &t
	case model.PaymentKindQueue:
		facts.LastQueueFeeAt = &t
	}
	return nil
}

func applyVisit(facts *classify.MemberFacts, v lastVisitRow) error {
	t, ok, err := parseColumnTime(v.LastVisitAt)
	if err != nil {
		return fmt.Errorf("visit aggregate for member %d: %w", v.MemberID, err)
	}
	if ok {
		facts.LastVisitAt = &t
	}
	return nil
}

// VisitsSince returns the member's visit timestamps since the given
// instant, oldest first.
func (s *gormStore) VisitsSince(ctx context.Context, memberID int64, since time.Time) ([]time.Time, error) {
	var timestamps []time.Time
	if err := s.db.WithContext(ctx).
		Model(&model.Visit{}).
		Where("member_id = ? AND visited_at >= ?", memberID, since).
		Order("visited_at").
		Pluck("visited_at", &timestamps).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch visits for member %d: %w", memberID, err)
	}
	return timestamps, nil
}

// VisitCounts returns per-member visit counts since the given instant.
func (s *gormStore) VisitCounts(ctx context.Context, since time.Time) (map[int64]int64, error) {
	type countRow struct {
		MemberID int64
		Total    int64
	}
	var rows []countRow
	if err := s.db.WithContext(ctx).
		Model(&model.Visit{}).
		Select("member_id, COUNT(*) as total").
		Where("visited_at >= ?", since).
		Group("member_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	counts := make(map[int64]int64, len(rows))
	for _, r := range rows {
		counts[r.MemberID] = r.Total
	}
	return counts, nil
}

// MemberBadges returns the badges a member currently holds.
func (s *gormStore) MemberBadges(ctx context.Context, memberID int64) ([]model.MemberBadge, error) {
	var badges []model.MemberBadge
	if err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("code").
		Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch badges for member %d: %w", memberID, err)
	}
	return badges, nil
}

// UpdateMemberBadges reconciles a member's stored badges against a freshly
// computed earned set. Dynamic badges missing from the set are revoked;
// permanent badges are never removed once present. New codes are inserted
// with the given earn time.
func (s *gormStore) UpdateMemberBadges(ctx context.Context, memberID int64, now time.Time, earned []string, isDynamic func(string) bool) error {
	earnedSet := make(map[string]bool, len(earned))
	for _, code := range earned {
		earnedSet[code] = true
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []model.MemberBadge
		if err := tx.Where("member_id = ?", memberID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to fetch existing badges for member %d: %w", memberID, err)
		}

		existingSet := make(map[string]bool, len(existing))
		var revoked []string
		for _, b := range existing {
			existingSet[b.Code] = true
			if isDynamic(b.Code) && !earnedSet[b.Code] {
				revoked = append(revoked, b.Code)
			}
		}

		if len(revoked) > 0 {
			if err := tx.Where("member_id = ? AND code IN ?", memberID, revoked).
				Delete(&model.MemberBadge{}).Error; err != nil {
				return fmt.Errorf("failed to revoke badges for member %d: %w", memberID, err)
			}
		}

		var inserts []model.MemberBadge
		for _, code := range earned {
			if !existingSet[code] {
				inserts = append(inserts, model.MemberBadge{
					MemberID: memberID,
					Code:     code,
					EarnedAt: now,
				})
			}
		}
		if len(inserts) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&inserts).Error; err != nil {
				return fmt.Errorf("failed to award badges for member %d: %w", memberID, err)
			}
		}
		return nil
	})
}

// InvoicesForMember returns a member's invoices, newest due date first.
func (s *gormStore) InvoicesForMember(ctx context.Context, memberID int64) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("due_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch invoices for member %d: %w", memberID, err)
	}
	return invoices, nil
}
