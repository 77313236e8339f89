package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func ts(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New()

	testCases := []struct {
		name     string
		facts    MemberFacts
		expected Category
	}{
		{
			name:     "No facts at all is inactive",
			facts:    MemberFacts{MemberID: 1},
			expected: CategoryInactive,
		},
		{
			name: "Queued accounting status beats a fresh membership payment",
			facts: MemberFacts{
				MemberID:         2,
				AccountingStatus: AccountingStatusQueued,
				LastAnnualFeeAt:  ts(2024, 5, 31),
				LastVisitAt:      ts(2024, 5, 31),
			},
			expected: CategoryQueued,
		},
		{
			name: "Paid within window and visited recently is member",
			facts: MemberFacts{
				MemberID:            3,
				LastAnnualFeeAt:     ts(2024, 1, 1),
				LastVisitAt:         ts(2024, 5, 20),
				HasAccessCredential: true,
			},
			expected: CategoryMember,
		},
		{
			name: "Paid within window without recent visits is sponsor",
			facts: MemberFacts{
				MemberID:        4,
				LastAnnualFeeAt: ts(2024, 1, 1),
			},
			expected: CategorySponsor,
		},
		{
			name: "Entrance fee alone keeps membership current",
			facts: MemberFacts{
				MemberID:          5,
				LastEntranceFeeAt: ts(2024, 2, 1),
				LastVisitAt:       ts(2024, 5, 1),
			},
			expected: CategoryMember,
		},
		{
			name: "Recent queue fee without membership payments is queued",
			facts: MemberFacts{
				MemberID:       6,
				LastQueueFeeAt: ts(2024, 5, 1),
			},
			expected: CategoryQueued,
		},
		{
			name: "Household dependent without any payments is co-bather",
			facts: MemberFacts{
				MemberID:            7,
				HouseholdDependent:  true,
				HasAccessCredential: true,
			},
			expected: CategoryCoBather,
		},
		{
			name: "Credential holder who never paid is co-bather",
			facts: MemberFacts{
				MemberID:            8,
				HasAccessCredential: true,
			},
			expected: CategoryCoBather,
		},
		{
			name: "Credential holder with a lapsed membership is inactive, not co-bather",
			facts: MemberFacts{
				MemberID:            9,
				LastAnnualFeeAt:     ts(2020, 1, 1),
				HasAccessCredential: true,
			},
			expected: CategoryInactive,
		},
		{
			name: "Household dependent with a lapsed membership is still co-bather",
			facts: MemberFacts{
				MemberID:           10,
				LastAnnualFeeAt:    ts(2020, 1, 1),
				HouseholdDependent: true,
			},
			expected: CategoryCoBather,
		},
		{
			name: "Stale queue fee does not keep a member queued",
			facts: MemberFacts{
				MemberID:       11,
				LastQueueFeeAt: ts(2021, 1, 1),
			},
			expected: CategoryInactive,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Classify(tc.facts, asOf))
		})
	}
}

// TestClassifyFeeWindowBoundary pins the inclusive lower boundary of the
// fee window: exactly 13 months before asOf is inside, one day earlier is
// outside.
func TestClassifyFeeWindowBoundary(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c := New()

	exactlyAtBoundary := asOf.AddDate(0, -DefaultFeeWindowMonths, 0)
	oneDayInside := exactlyAtBoundary.AddDate(0, 0, 1)
	oneDayOutside := exactlyAtBoundary.AddDate(0, 0, -1)

	assert.Equal(t, CategorySponsor, c.Classify(MemberFacts{LastAnnualFeeAt: &exactlyAtBoundary}, asOf),
		"a fee exactly at the window boundary still counts")
	assert.Equal(t, CategorySponsor, c.Classify(MemberFacts{LastAnnualFeeAt: &oneDayInside}, asOf))
	assert.Equal(t, CategoryInactive, c.Classify(MemberFacts{LastAnnualFeeAt: &oneDayOutside}, asOf))
}

func TestIsActive(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c := New()

	boundary := asOf.AddDate(0, -DefaultActiveWindowMonths, 0)
	recent := asOf.AddDate(0, 0, -7)
	stale := boundary.AddDate(0, 0, -1)

	assert.False(t, c.IsActive(MemberFacts{}, asOf), "no visits means not active")
	assert.True(t, c.IsActive(MemberFacts{LastVisitAt: &recent}, asOf))
	assert.True(t, c.IsActive(MemberFacts{LastVisitAt: &boundary}, asOf),
		"a visit exactly at the window boundary still counts")
	assert.False(t, c.IsActive(MemberFacts{LastVisitAt: &stale}, asOf))
}

// TestClassifyTotal checks that every snapshot maps to exactly one of the
// five categories, whatever combination of fields is present.
func TestClassifyTotal(t *testing.T) {
	c := New()
	valid := map[Category]bool{
		CategoryMember:   true,
		CategorySponsor:  true,
		CategoryQueued:   true,
		CategoryCoBather: true,
		CategoryInactive: true,
	}

	genTime := func(t *rapid.T, label string) *time.Time {
		if !rapid.Bool().Draw(t, label+"_present") {
			return nil
		}
		secs := rapid.Int64Range(0, 4102444800).Draw(t, label) // 1970..2100
		ts := time.Unix(secs, 0).UTC()
		return &ts
	}

	rapid.Check(t, func(t *rapid.T) {
		status := AccountingStatusNone
		if rapid.Bool().Draw(t, "queued") {
			status = AccountingStatusQueued
		}
		facts := MemberFacts{
			MemberID:            rapid.Int64().Draw(t, "member_id"),
			AccountingStatus:    status,
			LastAnnualFeeAt:     genTime(t, "annual"),
			LastEntranceFeeAt:   genTime(t, "entrance"),
			LastQueueFeeAt:      genTime(t, "queue"),
			LastVisitAt:         genTime(t, "visit"),
			HasAccessCredential: rapid.Bool().Draw(t, "credential"),
			HouseholdDependent:  rapid.Bool().Draw(t, "household"),
		}
		asOfSecs := rapid.Int64Range(0, 4102444800).Draw(t, "as_of")
		asOf := time.Unix(asOfSecs, 0).UTC()

		got := c.Classify(facts, asOf)
		if !valid[got] {
			t.Fatalf("Classify returned unknown category %q", got)
		}
	})
}
