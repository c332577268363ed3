package workday

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wurt83ow/worktravel/internal/models"
)

const (
	standardDayMinutes  = 540 // 8h work + 1h break
	unpaidBreakMinutes  = 60
	unpaidCommuteMinute = 30 // per leg
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// RestDay builds a non-work day tagged with status. It needs neither the
// city directory nor the settings.
func RestDay(date, status string) (models.Workday, error) {
	iso, err := NormalizeDate(date)
	if err != nil {
		return models.Workday{}, err
	}

	status = strings.TrimSpace(status)
	if status == "" {
		return models.Workday{}, ErrConflictingClassification
	}

	return models.Workday{
		Date:   iso,
		Status: &status,
	}, nil
}

// Derive computes a work day spent in the named city.
func Derive(date, cityName string, dir Directory, settings models.Settings) (models.Workday, error) {
	city, ok := dir.LookupCity(cityName)
	if !ok {
		return models.Workday{}, &CityNotFoundError{Name: cityName}
	}

	return DeriveCity(date, city, settings)
}

// DeriveCity computes every derived time, distance and cost field of a work day.
//
// The first 30 minutes of each leg are an ordinary commute and are not paid;
// the rest of the travel time is subtracted from the standard 9h presence,
// to which the tolerance from settings is added back.
func DeriveCity(date string, city models.City, settings models.Settings) (models.Workday, error) {
	iso, err := NormalizeDate(date)
	if err != nil {
		return models.Workday{}, err
	}

	arrivalClock := city.DefaultArrivalTime
	if strings.TrimSpace(arrivalClock) == "" {
		arrivalClock = defaultArrivalTime
	}

	arrival, err := ParseClock(arrivalClock)
	if err != nil {
		return models.Workday{}, fmt.Errorf("city %s: %w", city.Name, err)
	}

	travel := city.TravelTimeMinutes
	outboundPaid := max(0, travel-unpaidCommuteMinute)
	returnPaid := max(0, travel-unpaidCommuteMinute)
	paidTravel := outboundPaid + returnPaid

	presence := (standardDayMinutes - paidTravel) + settings.ExtraToleranceMinutes
	work := presence - unpaidBreakMinutes

	departure := arrival - travel
	exit := arrival + presence
	back := exit + travel

	if departure < 0 || presence < unpaidBreakMinutes || back >= minutesPerDay {
		return models.Workday{}, fmt.Errorf("%w: city %s, departure %d min, return %d min",
			ErrScheduleOverflow, city.Name, departure, back)
	}

	totalKm := decimal.NewFromFloat(city.DistanceKm).Mul(two)
	liters := totalKm.Div(hundred).Mul(decimal.NewFromFloat(settings.CarConsumptionPer100Km))
	cost := liters.Mul(decimal.NewFromFloat(settings.FuelPricePerLiter))

	name := city.Name

	return models.Workday{
		Date:                     iso,
		City:                     &name,
		TravelMinutesOutbound:    travel,
		TravelMinutesReturn:      travel,
		PaidTravelMinutes:        paidTravel,
		WorkMinutesAtStore:       work,
		PresenceMinutesWithBreak: presence,
		DepartureFromHome:        FormatClock(departure),
		ArrivalAtStore:           FormatClock(arrival),
		ExitFromStore:            FormatClock(exit),
		ReturnHome:               FormatClock(back),
		TotalKm:                  totalKm.Round(1).InexactFloat64(),
		FuelLiters:               liters.Round(2).InexactFloat64(),
		FuelCost:                 cost.Round(2).InexactFloat64(),
	}, nil
}

// FromPayload classifies a client payload and derives the matching day.
// Actual punches in the payload are overlaid on the result.
func FromPayload(p models.WorkdayPayload, dir Directory, settings models.Settings) (models.Workday, error) {
	var (
		wd  models.Workday
		err error
	)

	switch kind, cls := Classify(p); kind {
	case KindRest:
		wd, err = RestDay(p.Date, cls)
	case KindCustom:
		wd, err = DeriveCity(p.Date, CustomCity(p), settings)
		if err == nil {
			wd.IsCustomCity = true
			wd.CustomCityName = cls
			wd.CustomDistanceKm = deref(p.CustomDistanceKm)
			wd.CustomTravelMinutes = deref(p.CustomTravelMinutes)
		}
	case KindWork:
		wd, err = Derive(p.Date, cls, dir, settings)
	default:
		err = ErrConflictingClassification
	}

	if err != nil {
		return models.Workday{}, err
	}

	if err := ApplyActuals(&wd, p); err != nil {
		return models.Workday{}, err
	}

	return wd, nil
}

// Kind of day a payload describes.
type Kind int

const (
	KindInvalid Kind = iota
	KindRest
	KindWork
	KindCustom
)

// Classify returns the kind of day and its classifying label: the status,
// the directory city name or the custom city name.
func Classify(p models.WorkdayPayload) (Kind, string) {
	city := strings.TrimSpace(deref(p.City))
	status := strings.TrimSpace(deref(p.Status))

	if p.IsCustomCity {
		city = strings.TrimSpace(p.CustomCityName)
		if city == "" {
			city = strings.TrimSpace(deref(p.City))
		}
	}

	switch {
	case city != "" && status != "":
		return KindInvalid, ""
	case status != "":
		return KindRest, status
	case city != "" && p.IsCustomCity:
		return KindCustom, city
	case city != "":
		return KindWork, city
	}

	return KindInvalid, ""
}

// CustomCity builds the ad-hoc directory entry of a custom-city payload.
func CustomCity(p models.WorkdayPayload) models.City {
	name := strings.TrimSpace(p.CustomCityName)
	if name == "" {
		name = strings.TrimSpace(deref(p.City))
	}

	return models.City{
		Name:               name,
		DistanceKm:         deref(p.CustomDistanceKm),
		TravelTimeMinutes:  deref(p.CustomTravelMinutes),
		DefaultArrivalTime: defaultArrivalTime,
	}
}

// ApplyActuals copies the observed punches of p onto wd verbatim.
// A nil field keeps the current value, an empty one clears it.
func ApplyActuals(wd *models.Workday, p models.WorkdayPayload) error {
	patch, err := ActualsPatch(p)
	if err != nil {
		return err
	}

	patch.Apply(wd)

	return nil
}

// ActualsPatch validates the actual punches of p. Nil fields stay nil.
func ActualsPatch(p models.WorkdayPayload) (models.WorkdayPatch, error) {
	var patch models.WorkdayPatch

	fields := []struct {
		src *string
		dst **string
	}{
		{p.ActualArrivalAtStore, &patch.ActualArrivalAtStore},
		{p.ActualExitFromStore, &patch.ActualExitFromStore},
		{p.ActualReturnHome, &patch.ActualReturnHome},
	}

	for _, f := range fields {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v != "" && !IsClock(v) {
			return models.WorkdayPatch{}, fmt.Errorf("%w: %q", ErrInvalidTime, v)
		}
		*f.dst = &v
	}

	return patch, nil
}

// SameClassification reports whether an existing record already matches
// what the payload asks for, in which case no re-derivation is needed.
func SameClassification(wd models.Workday, p models.WorkdayPayload) bool {
	kind, label := Classify(p)

	switch kind {
	case KindRest:
		return wd.IsRestDay() && *wd.Status == label
	case KindWork:
		return wd.IsWorkDay() && !wd.IsCustomCity && strings.EqualFold(*wd.City, label)
	case KindCustom:
		return wd.IsWorkDay() && wd.IsCustomCity && wd.CustomCityName == label &&
			wd.CustomDistanceKm == deref(p.CustomDistanceKm) &&
			wd.CustomTravelMinutes == deref(p.CustomTravelMinutes)
	}

	return false
}

// ValidateSettings checks the ranges accepted for the organization settings.
func ValidateSettings(s models.Settings) error {
	switch {
	case s.FuelPricePerLiter <= 0:
		return fmt.Errorf("%w: fuel_price_per_liter must be positive", ErrInvalidSettings)
	case s.CarConsumptionPer100Km <= 0:
		return fmt.Errorf("%w: car_consumption_per_100km must be positive", ErrInvalidSettings)
	case s.MonthlyAllowance < 0:
		return fmt.Errorf("%w: monthly_allowance must not be negative", ErrInvalidSettings)
	case s.ExtraToleranceMinutes < 0:
		return fmt.Errorf("%w: extra_tolerance_minutes must not be negative", ErrInvalidSettings)
	}

	return nil
}

// ValidateCity checks a directory entry before it is stored.
func ValidateCity(c models.City) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidCity)
	case c.DistanceKm < 0:
		return fmt.Errorf("%w: distance_km must not be negative", ErrInvalidCity)
	case c.TravelTimeMinutes < 0:
		return fmt.Errorf("%w: travel_time_minutes must not be negative", ErrInvalidCity)
	}

	if c.DefaultArrivalTime != "" && !IsClock(c.DefaultArrivalTime) {
		return fmt.Errorf("%w: default_arrival_time %q", ErrInvalidCity, c.DefaultArrivalTime)
	}

	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
