package month

import (
	"errors"
	"fmt"
	"time"
)

const layout = "2006-01"

var ErrInvalidKey = errors.New("invalid month key: expected YYYY-MM")

// Key identifies a calendar month in the canonical zero-padded YYYY-MM form.
// It is both the month selector and the primary key of a goal.
type Key string

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Parse validates s and returns it as a Key.
func Parse(s string) (Key, error) {
	t, err := time.Parse(layout, s)
	if err != nil || t.Format(layout) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	return Key(s), nil
}

// Of projects t onto the calendar of loc.
func Of(t time.Time, loc *time.Location) Key {
	return Key(t.In(loc).Format(layout))
}

func (k Key) String() string {
	return string(k)
}

func (k Key) yearMonth() (int, time.Month) {
	t, err := time.Parse(layout, string(k))
	if err != nil {
		return 0, 0
	}

	return t.Year(), t.Month()
}

// Start returns midnight of the first day of the month in loc.
func (k Key) Start(loc *time.Location) time.Time {
	y, m := k.yearMonth()
	return time.Date(y, m, 1, 0, 0, 0, 0, loc)
}

// End returns the last instant (23:59:59.999) of the last day of the month in loc.
// Day 0 of the next month normalises to the last day of this one.
func (k Key) End(loc *time.Location) time.Time {
	y, m := k.yearMonth()
	return time.Date(y, m+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)
}

// Add moves the key by n months.
func (k Key) Add(n int) Key {
	y, m := k.yearMonth()
	return Key(time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC).Format(layout))
}

// Label renders the month the way the dashboard header shows it, e.g. "março de 2025".
func (k Key) Label() string {
	y, m := k.yearMonth()
	if m < time.January || m > time.December {
		return string(k)
	}

	return fmt.Sprintf("%s de %d", monthNames[m-1], y)
}
