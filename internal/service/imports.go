package service

import (
	"context"
	"fmt"
	"io"

	"github.com/wurt83ow/worktravel/internal/importer"
	"github.com/wurt83ow/worktravel/internal/models"
)

// ImportCSV parses a legacy spreadsheet export and imports it for userID.
// Dates the user already has are skipped, never overwritten.
func (s *Service) ImportCSV(ctx context.Context, userID string, r io.Reader) (models.ImportResult, error) {
	rows, err := importer.ParseCSV(r)
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("parse csv: %w", err)
	}

	return s.importer.ImportBatch(ctx, importer.Batch{
		Rows:          rows,
		UserID:        userID,
		ExistingDates: s.store.WorkdayDates(userID),
		Cities:        s.directory(),
		Settings:      s.store.GetSettings(),
	})
}
