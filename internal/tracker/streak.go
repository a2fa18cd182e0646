package tracker

import (
	"sort"
	"time"
)

// CurrentStreak counts consecutive logged days ending at the most recent logged day.
//
// Rule: the walk starts at the latest date on or before today. If that date is today
// or yesterday the streak is the length of the unbroken run ending there, otherwise
// the streak has lapsed and is 0. A missing entry for today therefore does not break
// a streak until the day is over. Dates after today and unparsable dates are ignored.
func CurrentStreak(dates []string, today time.Time) int {
	today = civilDay(today)

	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		d, err := ParseDate(s)
		if err != nil || d.After(today) {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	if today.Sub(days[0]) > 24*time.Hour {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			streak++
			continue
		}
		break
	}
	return streak
}
