package workday

import (
	"strconv"
	"strings"
	"time"
)

const (
	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

// NormalizeDate accepts "DD/MM/YYYY" or "YYYY-MM-DD" (zero padding optional)
// and returns the canonical ISO form. Anything else is rejected.
func NormalizeDate(raw string) (string, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return "", err
	}

	return t.Format(isoLayout), nil
}

// ParseDate parses the accepted input forms into a UTC midnight time.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	var day, month, year string

	switch {
	case strings.Count(s, "/") == 2:
		parts := strings.Split(s, "/")
		day, month, year = parts[0], parts[1], parts[2]
	case strings.Count(s, "-") == 2:
		parts := strings.Split(s, "-")
		year, month, day = parts[0], parts[1], parts[2]
	default:
		return time.Time{}, &InvalidDateError{Raw: raw}
	}

	if len(year) != 4 || len(month) > 2 || len(day) > 2 ||
		!digits(year) || !digits(month) || !digits(day) {
		return time.Time{}, &InvalidDateError{Raw: raw}
	}

	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, &InvalidDateError{Raw: raw}
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31/02 into March, reject that
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, &InvalidDateError{Raw: raw}
	}

	return t, nil
}

// MonthYear returns the numeric month and year of a stored date.
func MonthYear(date string) (int, int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, 0, err
	}

	return int(t.Month()), t.Year(), nil
}

// DisplayDate renders a stored date as "DD/MM/YYYY".
func DisplayDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}

	return t.Format(displayLayout)
}

func digits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
