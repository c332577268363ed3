// Package report renders monthly workday reports as PDF and CSV.
package report

import (
	"fmt"
	"sort"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/stats"
	"github.com/wurt83ow/worktravel/internal/workday"
)

// AllUsers is the employee label of a report covering everyone.
const AllUsers = "Tutti gli utenti"

var (
	headerBlue = color.Color{Red: 30, Green: 64, Blue: 175}
	lightGrey  = color.Color{Red: 240, Green: 240, Blue: 240}
)

// Monthly is the content of a monthly report.
type Monthly struct {
	Employee string
	Stats    models.MonthlyStats
	Workdays []models.Workday
}

// MonthlyPDF renders the summary table and the daily detail of a month.
func MonthlyPDF(r Monthly) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	employee := r.Employee
	if employee == "" {
		employee = AllUsers
	}

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text("Report Mensile - "+r.Stats.Month, props.Text{
				Top:   3,
				Style: consts.Bold,
				Align: consts.Center,
				Size:  18,
				Color: headerBlue,
			})
		})
	})
	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("Dipendente: "+employee, props.Text{
				Top:   2,
				Align: consts.Center,
				Size:  12,
			})
		})
	})

	m.Row(8, func() {})

	m.TableList([]string{"Statistiche Mensili", ""}, summaryRows(r.Stats), props.TableList{
		HeaderProp: props.TableListContent{
			Size:      12,
			GridSizes: []uint{7, 5},
			Style:     consts.Bold,
		},
		HeaderContentSpace: 1,
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{7, 5},
		},
		Align:                consts.Left,
		AlternatedBackground: &lightGrey,
		Line:                 true,
	})

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text("Dettaglio Giornaliero", props.Text{
				Top:   6,
				Style: consts.Bold,
				Size:  14,
			})
		})
	})

	m.TableList(
		[]string{"Data", "Città", "Partenza", "Arrivo", "Uscita", "Rientro", "KM"},
		detailRows(r.Workdays),
		props.TableList{
			HeaderProp: props.TableListContent{
				Size:      10,
				GridSizes: []uint{2, 3, 1, 2, 1, 2, 1},
				Style:     consts.Bold,
			},
			HeaderContentSpace: 1,
			ContentProp: props.TableListContent{
				Size:      9,
				GridSizes: []uint{2, 3, 1, 2, 1, 2, 1},
			},
			Align:                consts.Center,
			AlternatedBackground: &lightGrey,
			Line:                 false,
		})

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func summaryRows(s models.MonthlyStats) [][]string {
	return [][]string{
		{"Giorni lavorativi", fmt.Sprintf("%d", s.WorkDays)},
		{"Giorni riposo", fmt.Sprintf("%d", s.RestDays)},
		{"KM totali", fmt.Sprintf("%.1f km", s.TotalKm)},
		{"Tempo in negozio VIS", stats.FormatDuration(s.TotalTimeAtStoreMinutes)},
		{"Tempo in auto (senza traffico)", stats.FormatDuration(s.TotalTravelTimeMinutes)},
		{"Rimborso usura KM", fmt.Sprintf("€ %.2f", s.KmAllowance)},
		{"Benzina consumata", fmt.Sprintf("%.2f L (coperta da azienda)", s.TotalFuelLiters)},
		{"Costo carburante", fmt.Sprintf("€ %.2f", s.TotalFuelCost)},
		{"Pedaggio", "Coperto da Telepass aziendale"},
	}
}

// detailRows lists the days in date order; rest days show their status.
func detailRows(wds []models.Workday) [][]string {
	sorted := append([]models.Workday(nil), wds...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	rows := make([][]string, 0, len(sorted))
	for _, wd := range sorted {
		date := workday.DisplayDate(wd.Date)

		if wd.IsRestDay() {
			rows = append(rows, []string{date, *wd.Status, "-", "-", "-", "-", "-"})
			continue
		}

		city := ""
		if wd.City != nil {
			city = *wd.City
		}

		rows = append(rows, []string{
			date,
			city,
			wd.DepartureFromHome,
			orActual(wd.ArrivalAtStore, wd.ActualArrivalAtStore),
			orActual(wd.ExitFromStore, wd.ActualExitFromStore),
			orActual(wd.ReturnHome, wd.ActualReturnHome),
			fmt.Sprintf("%.1f", wd.TotalKm),
		})
	}

	return rows
}

// actual punches win over the derived schedule when present
func orActual(derived, actual string) string {
	if actual != "" {
		return actual
	}

	return derived
}
