package report

import "time"

// DateClass positions a timestamp relative to a week window.
type DateClass int

// Classification outcomes. ClassUnknown is returned for missing timestamps
// and is never coerced to ClassInWeek.
const (
	ClassUnknown DateClass = iota
	ClassBeforeWeek
	ClassInWeek
	ClassAfterWeek
)

// String implements fmt.Stringer for diagnostics.
func (c DateClass) String() string {
	switch c {
	case ClassBeforeWeek:
		return "before_week"
	case ClassInWeek:
		return "in_week"
	case ClassAfterWeek:
		return "after_week"
	default:
		return "unknown"
	}
}

// Classify places a timestamp inside, before, or after the window.
// Comparison happens at day granularity in UTC: the instant is truncated to
// its calendar date before range testing.
func Classify(t *time.Time, w WeekWindow) DateClass {
	if t == nil {
		return ClassUnknown
	}
	day := truncateDay(*t)
	switch {
	case day.Before(w.Start):
		return ClassBeforeWeek
	case day.After(w.End):
		return ClassAfterWeek
	default:
		return ClassInWeek
	}
}

// IsRollover reports whether a timestamp evidences work dated before the
// window. A missing timestamp is never rollover.
func IsRollover(t *time.Time, w WeekWindow) bool {
	return Classify(t, w) == ClassBeforeWeek
}
