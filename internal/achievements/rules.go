package achievements

import (
	"time"
)

// MemberHistory is the per-member input to the badge evaluators: the join
// date, the visit timestamps of the trailing year (ascending) and the
// lifetime visit total.
type MemberHistory struct {
	MemberID    int64
	JoinedAt    time.Time
	Visits      []time.Time
	TotalVisits int64
}

const dayFormat = "2006-01-02"

// Evaluate returns the badge codes a member has earned from their own
// history, excluding ranking badges, which need cross-member visit counts
// and are assigned by the service. Pure; safe to call concurrently.
func Evaluate(h MemberHistory, asOf time.Time) []string {
	var earned []string

	streak := currentStreakDays(h.Visits, asOf)
	if streak >= 3 {
		earned = append(earned, "streak_3_days")
	}
	if streak >= 7 {
		earned = append(earned, "streak_7_days")
	}
	if streak >= 14 {
		earned = append(earned, "streak_14_days")
	}

	if countSince(h.Visits, asOf, 7, nil) >= 3 {
		earned = append(earned, "weekly_regular")
	}
	if countSince(h.Visits, asOf, 30, nil) >= 12 {
		earned = append(earned, "monthly_devotee")
	}
	if countSince(h.Visits, asOf, 30, isWeekend) >= 4 {
		earned = append(earned, "weekend_warrior")
	}

	if countSince(h.Visits, asOf, 30, beforeHour(8)) >= 5 {
		earned = append(earned, "early_bird")
	}
	if countSince(h.Visits, asOf, 30, fromHour(21)) >= 5 {
		earned = append(earned, "night_owl")
	}
	if countSince(h.Visits, asOf, 14, betweenHours(11, 14)) >= 3 {
		earned = append(earned, "lunch_dipper")
	}

	for _, m := range []struct {
		code  string
		total int64
	}{
		{"visits_10", 10},
		{"visits_50", 50},
		{"visits_100", 100},
		{"visits_500", 500},
		{"visits_1000", 1000},
	} {
		if h.TotalVisits >= m.total {
			earned = append(earned, m.code)
		}
	}

	years := yearsSince(h.JoinedAt, asOf)
	if years >= 1 {
		earned = append(earned, "member_1_year")
	}
	if years >= 5 {
		earned = append(earned, "member_5_years")
	}
	if years >= 10 {
		earned = append(earned, "member_10_years")
	}

	if distinctDays(h.Visits, inMonths(time.December, time.January, time.February)) >= 10 {
		earned = append(earned, "polar_plunge")
	}
	if countAll(h.Visits, isMidsummerWeek) >= 1 {
		earned = append(earned, "midsummer_marathon")
	}
	if countAll(h.Visits, inMonths(time.November, time.December, time.January)) >= 12 {
		earned = append(earned, "dark_season_dozen")
	}

	return earned
}

// currentStreakDays counts consecutive calendar days with at least one
// visit, ending on asOf's day or the day before. A member evaluated in the
// morning has not lost yesterday's streak yet.
func currentStreakDays(visits []time.Time, asOf time.Time) int {
	days := make(map[string]bool, len(visits))
	for _, v := range visits {
		days[v.Format(dayFormat)] = true
	}

	day := asOf
	if !days[day.Format(dayFormat)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format(dayFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// countSince counts visits within the trailing number of days, optionally
// filtered. The lower boundary is inclusive.
func countSince(visits []time.Time, asOf time.Time, days int, match func(time.Time) bool) int {
	since := asOf.AddDate(0, 0, -days)
	n := 0
	for _, v := range visits {
		if v.Before(since) || v.After(asOf) {
			continue
		}
		if match == nil || match(v) {
			n++
		}
	}
	return n
}

func countAll(visits []time.Time, match func(time.Time) bool) int {
	n := 0
	for _, v := range visits {
		if match(v) {
			n++
		}
	}
	return n
}

func distinctDays(visits []time.Time, match func(time.Time) bool) int {
	days := make(map[string]bool)
	for _, v := range visits {
		if match(v) {
			days[v.Format(dayFormat)] = true
		}
	}
	return len(days)
}

func yearsSince(from, asOf time.Time) int {
	years := 0
	for !from.AddDate(years+1, 0, 0).After(asOf) {
		years++
	}
	return years
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func beforeHour(h int) func(time.Time) bool {
	return func(t time.Time) bool { return t.Hour() < h }
}

func fromHour(h int) func(time.Time) bool {
	return func(t time.Time) bool { return t.Hour() >= h }
}

func betweenHours(from, until int) func(time.Time) bool {
	return func(t time.Time) bool { return t.Hour() >= from && t.Hour() < until }
}

func inMonths(months ...time.Month) func(time.Time) bool {
	return func(t time.Time) bool {
		for _, m := range months {
			if t.Month() == m {
				return true
			}
		}
		return false
	}
}

// isMidsummerWeek matches the traditional midsummer week, June 19–26.
func isMidsummerWeek(t time.Time) bool {
	return t.Month() == time.June && t.Day() >= 19 && t.Day() <= 26
}
