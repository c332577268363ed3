package workday

import (
	"errors"
	"fmt"
)

var (
	ErrCityNotFound              = errors.New("city not found")
	ErrInvalidDate               = errors.New("invalid date")
	ErrInvalidTime               = errors.New("invalid time of day")
	ErrConflictingClassification = errors.New("exactly one of city and status must be set")
	ErrDuplicateWorkday          = errors.New("workday already exists")
	ErrScheduleOverflow          = errors.New("schedule does not fit in a single day")
	ErrInvalidSettings           = errors.New("invalid settings")
	ErrInvalidCity               = errors.New("invalid city")
)

// CityNotFoundError names the city missing from the directory.
type CityNotFoundError struct {
	Name string
}

func (e *CityNotFoundError) Error() string {
	return fmt.Sprintf("city %s not found", e.Name)
}

func (e *CityNotFoundError) Is(target error) bool {
	return target == ErrCityNotFound
}

// InvalidDateError keeps the raw token that failed normalization.
type InvalidDateError struct {
	Raw string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q", e.Raw)
}

func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// DuplicateWorkdayError is returned by create when (user, date) is taken.
type DuplicateWorkdayError struct {
	UserID string
	Date   string
}

func (e *DuplicateWorkdayError) Error() string {
	return fmt.Sprintf("workday for user %s on %s already exists", e.UserID, e.Date)
}

func (e *DuplicateWorkdayError) Is(target error) bool {
	return target == ErrDuplicateWorkday
}
