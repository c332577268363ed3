package service

import (
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/stats"
)

// MonthlyStats aggregates the month for userID, or for every user when an
// administrative actor leaves it empty.
func (s *Service) MonthlyStats(actor models.User, month, year int, userID string) (models.MonthlyStats, error) {
	uid, err := scope(actor, userID)
	if err != nil {
		return models.MonthlyStats{}, err
	}

	wds := s.store.ScanWorkdays(models.WorkdayFilter{UserID: uid, Month: month, Year: year})

	var id string
	if uid != nil {
		id = *uid
	}

	return stats.Aggregate(wds, month, year, id, s.store.GetSettings()), nil
}
