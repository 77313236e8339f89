package badge

import (
	"sort"
	"strings"
)

// Category groups badges for display purposes.
type Category string

const (
	CategoryStreak      Category = "streak"
	CategoryFrequency   Category = "frequency"
	CategoryTimeOfDay   Category = "time-of-day"
	CategoryMilestone   Category = "milestone"
	CategoryAnniversary Category = "anniversary"
	CategoryChallenge   Category = "challenge"
)

// Badge is the static definition of one achievement. Dynamic badges are
// recomputed periodically from visit history and can be revoked; the rest
// are permanent once earned. PeriodDays is the evaluation window for
// dynamic badges; Rank/MaxRank mark "single top performer" and "top-N"
// badges within that window. SortWeight orders badges within a category
// for display (higher first) and has no bearing on earning.
type Badge struct {
	Code        string   `json:"code"`
	Emoji       string   `json:"emoji"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Dynamic     bool     `json:"dynamic"`
	PeriodDays  int      `json:"period_days,omitempty"`
	Rank        int      `json:"rank,omitempty"`
	MaxRank     int      `json:"max_rank,omitempty"`
	SortWeight  int      `json:"sort_weight"`
}

// FallbackEmoji decorates badge codes the table does not know about.
const FallbackEmoji = "🏅"

var table = []Badge{
	// Streaks.
	{Code: "streak_3_days", Emoji: "🔥", DisplayName: "On a Roll", Description: "Visited the sauna three days in a row.", Category: CategoryStreak, Dynamic: true, PeriodDays: 3, SortWeight: 10},
	{Code: "streak_7_days", Emoji: "⚡", DisplayName: "Week of Steam", Description: "Visited the sauna seven days in a row.", Category: CategoryStreak, Dynamic: true, PeriodDays: 7, SortWeight: 20},
	{Code: "streak_14_days", Emoji: "🌋", DisplayName: "Two-Week Blaze", Description: "Visited the sauna fourteen days in a row.", Category: CategoryStreak, Dynamic: true, PeriodDays: 14, SortWeight: 30},

	// Frequency.
	{Code: "weekly_regular", Emoji: "📅", DisplayName: "Weekly Regular", Description: "Three or more visits within a week.", Category: CategoryFrequency, Dynamic: true, PeriodDays: 7, SortWeight: 10},
	{Code: "monthly_devotee", Emoji: "🧖", DisplayName: "Monthly Devotee", Description: "Twelve or more visits within a month.", Category: CategoryFrequency, Dynamic: true, PeriodDays: 30, SortWeight: 20},
	{Code: "weekend_warrior", Emoji: "🛡️", DisplayName: "Weekend Warrior", Description: "Four weekend visits within a month.", Category: CategoryFrequency, Dynamic: true, PeriodDays: 30, SortWeight: 15},
	{Code: "most_visits_week", Emoji: "👑", DisplayName: "Bather of the Week", Description: "Most visits of all members this week.", Category: CategoryFrequency, Dynamic: true, PeriodDays: 7, Rank: 1, SortWeight: 40},
	{Code: "most_visits_month", Emoji: "🏆", DisplayName: "Bather of the Month", Description: "Most visits of all members this month.", Category: CategoryFrequency, Dynamic: true, PeriodDays: 30, Rank: 1, SortWeight: 50},
	{Code: "top_five_month", Emoji: "🎖️", DisplayName: "Top Five", Description: "Among the five most frequent bathers this month.", Category: CategoryFrequency, Dynamic: true, PeriodDays: 30, MaxRank: 5, SortWeight: 35},
	{Code: "top_ten_quarter", Emoji: "🔟", DisplayName: "Top Ten of the Quarter", Description: "Among the ten most frequent bathers this quarter.", Category: CategoryFrequency, Dynamic: true, PeriodDays: 90, MaxRank: 10, SortWeight: 30},

	// Time of day.
	{Code: "early_bird", Emoji: "🌅", DisplayName: "Early Bird", Description: "Five morning visits (before 08:00) within a month.", Category: CategoryTimeOfDay, Dynamic: true, PeriodDays: 30, SortWeight: 30},
	{Code: "night_owl", Emoji: "🦉", DisplayName: "Night Owl", Description: "Five late visits (after 21:00) within a month.", Category: CategoryTimeOfDay, Dynamic: true, PeriodDays: 30, SortWeight: 20},
	{Code: "lunch_dipper", Emoji: "🥪", DisplayName: "Lunch Dipper", Description: "Three midday visits within two weeks.", Category: CategoryTimeOfDay, Dynamic: true, PeriodDays: 14, SortWeight: 10},

	// Milestones (permanent).
	{Code: "visits_10", Emoji: "🎈", DisplayName: "First Ten", Description: "Ten sauna visits in total.", Category: CategoryMilestone, SortWeight: 10},
	{Code: "visits_50", Emoji: "⭐", DisplayName: "Fifty Up", Description: "Fifty sauna visits in total.", Category: CategoryMilestone, SortWeight: 20},
	{Code: "visits_100", Emoji: "💯", DisplayName: "Centurion", Description: "One hundred sauna visits in total.", Category: CategoryMilestone, SortWeight: 30},
	{Code: "visits_500", Emoji: "🚀", DisplayName: "Five Hundred Club", Description: "Five hundred sauna visits in total.", Category: CategoryMilestone, SortWeight: 40},
	{Code: "visits_1000", Emoji: "🌟", DisplayName: "Thousand Steams", Description: "One thousand sauna visits in total.", Category: CategoryMilestone, SortWeight: 50},

	// Anniversaries (permanent).
	{Code: "member_1_year", Emoji: "🎂", DisplayName: "One Year In", Description: "A full year of membership.", Category: CategoryAnniversary, SortWeight: 10},
	{Code: "member_5_years", Emoji: "🎉", DisplayName: "Five-Year Veteran", Description: "Five years of membership.", Category: CategoryAnniversary, SortWeight: 20},
	{Code: "member_10_years", Emoji: "💎", DisplayName: "Decade of Löyly", Description: "Ten years of membership.", Category: CategoryAnniversary, SortWeight: 30},

	// Challenges (permanent once completed).
	{Code: "polar_plunge", Emoji: "🧊", DisplayName: "Polar Plunge", Description: "Visited on ten days during the winter months.", Category: CategoryChallenge, SortWeight: 30},
	{Code: "midsummer_marathon", Emoji: "☀️", DisplayName: "Midsummer Marathon", Description: "Visited during the midsummer week.", Category: CategoryChallenge, SortWeight: 20},
	{Code: "dark_season_dozen", Emoji: "🕯️", DisplayName: "Dark Season Dozen", Description: "Twelve visits between November and January.", Category: CategoryChallenge, SortWeight: 10},
}

var byCode = func() map[string]Badge {
	m := make(map[string]Badge, len(table))
	for _, b := range table {
		m[b.Code] = b
	}
	return m
}()

// Lookup returns the badge definition for a code. Unknown codes never
// fail: badge codes can show up in the database before this table learns
// about them, so they resolve to a generic fallback record instead.
func Lookup(code string) Badge {
	if b, ok := byCode[code]; ok {
		return b
	}
	return Badge{
		Code:        code,
		Emoji:       FallbackEmoji,
		DisplayName: Humanize(code),
		Description: "Achievement earned in the sauna.",
	}
}

// Known reports whether the code resolves to a real table entry.
func Known(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Humanize turns a badge code into a readable label.
func Humanize(code string) string {
	return strings.ReplaceAll(code, "_", " ")
}

// SortWeight returns the display weight for a code, 0 for unknown codes.
func SortWeight(code string) int {
	return byCode[code].SortWeight
}

// IsDynamic reports whether the badge is recomputed periodically and can
// be revoked. Unknown codes are treated as permanent.
func IsDynamic(code string) bool {
	return byCode[code].Dynamic
}

// IsChampion reports whether the badge marks the single top performer of
// its period.
func IsChampion(code string) bool {
	return byCode[code].Rank == 1
}

// IsRanking reports whether earning the badge depends on the member's
// position relative to other members.
func IsRanking(code string) bool {
	b := byCode[code]
	return b.Rank > 0 || b.MaxRank > 0
}

// ByCategory returns all badges of one category, heaviest sort weight
// first.
func ByCategory(cat Category) []Badge {
	var out []Badge
	for _, b := range table {
		if b.Category == cat {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortWeight > out[j].SortWeight })
	return out
}

// All returns every badge definition, optionally only the dynamic ones.
// The result is ordered by category, then by descending sort weight.
func All(dynamicOnly bool) []Badge {
	out := make([]Badge, 0, len(table))
	for _, b := range table {
		if dynamicOnly && !b.Dynamic {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].SortWeight > out[j].SortWeight
	})
	return out
}
