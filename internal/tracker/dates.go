package tracker

import "time"

// DateLayout is the zero-padded calendar date format used for every date key.
const DateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// civilDay truncates t to midnight UTC of its own calendar date so day arithmetic
// is unaffected by the caller's location or DST.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
