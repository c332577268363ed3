package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/wurt83ow/worktravel/internal/importer"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/workday"
)

// WriteCSV writes workdays in the spreadsheet layout the importer reads:
// ';' separated, dates as DD/MM/YYYY, preceded by a UTF-8 byte-order mark.
func WriteCSV(w io.Writer, wds []models.Workday) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(importer.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	sorted := append([]models.Workday(nil), wds...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	for _, wd := range sorted {
		if err := cw.Write(csvRecord(wd)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func csvRecord(wd models.Workday) []string {
	date := workday.DisplayDate(wd.Date)

	if wd.IsRestDay() {
		return []string{date, "", *wd.Status, "", "", "", "", "", "", ""}
	}

	city := ""
	if wd.City != nil {
		city = *wd.City
	}

	return []string{
		date,
		city,
		"",
		strconv.Itoa(wd.TravelMinutesOutbound),
		strconv.Itoa(wd.TravelMinutesReturn),
		strconv.Itoa(wd.WorkMinutesAtStore),
		orActual(wd.ArrivalAtStore, wd.ActualArrivalAtStore),
		wd.DepartureFromHome,
		orActual(wd.ExitFromStore, wd.ActualExitFromStore),
		orActual(wd.ReturnHome, wd.ActualReturnHome),
	}
}
