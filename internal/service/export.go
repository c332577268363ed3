package service

import (
	"io"

	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/report"
	"github.com/wurt83ow/worktravel/internal/stats"
)

// ExportPDF renders the monthly report visible to actor.
func (s *Service) ExportPDF(actor models.User, month, year int, userID string) ([]byte, error) {
	uid, err := scope(actor, userID)
	if err != nil {
		return nil, err
	}

	wds := s.store.ScanWorkdays(models.WorkdayFilter{UserID: uid, Month: month, Year: year})

	var id, employee string
	if uid != nil {
		id = *uid
		employee = s.displayName(id)
	}

	return report.MonthlyPDF(report.Monthly{
		Employee: employee,
		Stats:    stats.Aggregate(wds, month, year, id, s.store.GetSettings()),
		Workdays: wds,
	})
}

// ExportCSV writes the month in the import layout.
func (s *Service) ExportCSV(w io.Writer, actor models.User, month, year int, userID string) error {
	uid, err := scope(actor, userID)
	if err != nil {
		return err
	}

	return report.WriteCSV(w, s.store.ScanWorkdays(models.WorkdayFilter{UserID: uid, Month: month, Year: year}))
}

func (s *Service) displayName(id string) string {
	u, err := s.store.GetUser(id)
	if err != nil {
		return "Utente"
	}

	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}

	return u.Username
}
