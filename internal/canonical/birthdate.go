package canonical

import (
	"strconv"
	"strings"
	"time"
)

// Birthdate is a calendar date with no time-of-day or zone component.
type Birthdate struct {
	Year  int
	Month time.Month
	Day   int
}

func (b Birthdate) Time() time.Time {
	return time.Date(b.Year, b.Month, b.Day, 0, 0, 0, 0, time.UTC)
}

func (b Birthdate) Equal(other Birthdate) bool {
	return b.Year == other.Year && b.Month == other.Month && b.Day == other.Day
}

func (b Birthdate) String() string {
	return b.Time().Format("2006-01-02")
}

var longDateLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
}

// ParseBirthdate tries, in order: strict ISO (2006-01-02), slash/dash
// numeric dates, then long-form textual dates. Numeric dates are read
// day-first: the providers feeding this system are European and
// Middle-Eastern, so "03/05/1998" means 3 May. A first component above 12
// forces day-first anyway; a second component above 12 forces month-first.
func ParseBirthdate(raw string) (Birthdate, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Birthdate{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return fromTime(t)
	}

	if b, ok := parseNumericDate(s); ok {
		return b, true
	}

	for _, layout := range longDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fromTime(t)
		}
	}

	return Birthdate{}, false
}

func parseNumericDate(s string) (Birthdate, bool) {
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return Birthdate{}, false
	}

	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errA != nil || errB != nil || errY != nil {
		return Birthdate{}, false
	}
	if year < 1000 || year > 9999 {
		return Birthdate{}, false
	}

	day, month := a, b
	if a <= 12 && b > 12 {
		// Second component cannot be a month, so this is month-first.
		day, month = b, a
	}
	return makeDate(year, month, day)
}

func makeDate(year, month, day int) (Birthdate, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Birthdate{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31 Feb); reject anything that moved.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return Birthdate{}, false
	}
	return fromTime(t)
}

func fromTime(t time.Time) (Birthdate, bool) {
	return Birthdate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
}
