package workday

import (
	"fmt"
	"strings"
	"time"
)

const (
	minutesPerDay      = 24 * 60
	defaultArrivalTime = "10:00"
)

// ParseClock converts a wall-clock "HH:MM" (or "H:MM") into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes after midnight as "HH:MM".
// The value must lie within a single day.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsClock reports whether s is a valid "HH:MM" time of day.
func IsClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}
