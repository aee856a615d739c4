package schedule

import "fmt"

// Frequency is the stored recurrence value of a chore. 0 is daily and
// 1 through 6 mean that many times per week, so 1 is weekly.
type Frequency int

const (
	FrequencyDaily  Frequency = 0
	FrequencyWeekly Frequency = 1

	maxPerWeek = 6
	daysInWeek = 7
)

// Valid reports whether f maps to an explicit occurrence count.
func (f Frequency) Valid() bool {
	return f >= FrequencyDaily && f <= maxPerWeek
}

// Count returns the number of occurrences per week, or 0 for an invalid value.
func (f Frequency) Count() int {
	switch {
	case f == FrequencyDaily:
		return daysInWeek
	case f.Valid():
		return int(f)
	default:
		return 0
	}
}

// Days returns the week-relative day indexes f is placed on. N occurrences
// land on floor(i*7/N) so they spread evenly starting from day 0.
func (f Frequency) Days() []int {
	n := f.Count()
	days := make([]int, n)
	for i := range n {
		days[i] = i * daysInWeek / n
	}
	return days
}

func (f Frequency) String() string {
	switch {
	case f == FrequencyDaily:
		return "daily"
	case f == FrequencyWeekly:
		return "weekly"
	case f.Valid():
		return fmt.Sprintf("%d times weekly", int(f))
	default:
		return fmt.Sprintf("frequency(%d)", int(f))
	}
}
