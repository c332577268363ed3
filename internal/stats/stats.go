// Package stats reduces stored workdays into monthly aggregates.
package stats

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/workday"
)

// InMonth reports whether the workday date falls in month/year. Month and
// year are compared numerically, so stored "07" matches a requested 7.
func InMonth(wd models.Workday, month, year int) bool {
	m, y, err := workday.MonthYear(wd.Date)
	if err != nil {
		return false
	}

	return m == month && y == year
}

// Aggregate computes the statistics of month/year over workdays. A non-empty
// userID restricts the partition to that owner. The allowance is a flat monthly
// amount taken from settings, it does not depend on the days worked.
func Aggregate(workdays []models.Workday, month, year int, userID string, settings models.Settings) models.MonthlyStats {
	var (
		km     = decimal.Zero
		liters = decimal.Zero
		cost   = decimal.Zero
	)

	st := models.MonthlyStats{
		Month:       fmt.Sprintf("%02d/%d", month, year),
		KmAllowance: settings.MonthlyAllowance,
	}

	for _, wd := range workdays {
		if userID != "" && wd.UserID != userID {
			continue
		}
		if !InMonth(wd, month, year) {
			continue
		}

		km = km.Add(decimal.NewFromFloat(wd.TotalKm))
		liters = liters.Add(decimal.NewFromFloat(wd.FuelLiters))
		cost = cost.Add(decimal.NewFromFloat(wd.FuelCost))

		if wd.IsWorkDay() {
			st.WorkDays++
			st.TotalTimeAtStoreMinutes += wd.PresenceMinutesWithBreak
			st.TotalTravelTimeMinutes += wd.TravelMinutesOutbound + wd.TravelMinutesReturn
		}
		if wd.IsRestDay() {
			st.RestDays++
		}
	}

	st.TotalKm = km.Round(1).InexactFloat64()
	st.TotalFuelLiters = liters.Round(2).InexactFloat64()
	st.TotalFuelCost = cost.Round(2).InexactFloat64()

	return st
}

// HoursMinutes splits a minute count for display.
func HoursMinutes(minutes int) (int, int) {
	return minutes / 60, minutes % 60
}

// FormatDuration renders minutes the way monthly reports show them, e.g. "63h 20min".
func FormatDuration(minutes int) string {
	h, m := HoursMinutes(minutes)
	return fmt.Sprintf("%dh %dmin", h, m)
}
