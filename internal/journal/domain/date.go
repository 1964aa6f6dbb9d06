package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey is a local calendar day formatted as YYYY-MM-DD
type DateKey string

// ParseDateKey validates s and returns it as a DateKey
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateKey(t.Format(dateLayout)), nil
}

// DateKeyOf returns the calendar day of t in loc
func DateKeyOf(t time.Time, loc *time.Location) DateKey {
	return DateKey(t.In(loc).Format(dateLayout))
}

// Time returns local midnight of the day in loc
func (d DateKey) Time(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsFuture reports whether d is after the calendar day of now in loc.
func (d DateKey) IsFuture(now time.Time, loc *time.Location) bool {
	// YYYY-MM-DD orders lexicographically
	return string(d) > string(DateKeyOf(now, loc))
}

// Title renders "5월 1일".
func (d DateKey) Title() string {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return string(d)
	}
	return fmt.Sprintf("%d월 %d일", int(t.Month()), t.Day())
}

var koreanWeekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// Display renders "2025년 5월 1일 (목)".
func (d DateKey) Display() string {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return string(d)
	}
	return fmt.Sprintf("%d년 %d월 %d일 (%s)", t.Year(), int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()])
}

func (d DateKey) String() string { return string(d) }

const monthLayout = "2006-01"

// MonthKey is a calendar month formatted as YYYY-MM
type MonthKey string

func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return MonthKey(t.Format(monthLayout)), nil
}

// MonthOf returns the month containing d
func MonthOf(d DateKey) MonthKey {
	if len(d) < len(monthLayout) {
		return ""
	}
	return MonthKey(d[:len(monthLayout)])
}

// First returns the first day of the month
func (m MonthKey) First() time.Time {
	t, _ := time.Parse(monthLayout, string(m))
	return t
}

func (m MonthKey) Prev() MonthKey { return MonthKey(m.First().AddDate(0, -1, 0).Format(monthLayout)) }
func (m MonthKey) Next() MonthKey { return MonthKey(m.First().AddDate(0, 1, 0).Format(monthLayout)) }

// Title renders "2025년 5월".
func (m MonthKey) Title() string {
	t := m.First()
	return fmt.Sprintf("%d년 %d월", t.Year(), int(t.Month()))
}
