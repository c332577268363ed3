package service

import (
	"context"

	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/workday"
	"go.uber.org/zap"
)

func (s *Service) GetSettings() models.Settings {
	return s.store.GetSettings()
}

// ReplaceSettings validates and stores the whole settings record. Stored
// workdays are not re-derived.
func (s *Service) ReplaceSettings(ctx context.Context, v models.Settings) (models.Settings, error) {
	if err := workday.ValidateSettings(v); err != nil {
		return models.Settings{}, err
	}

	if err := s.store.ReplaceSettings(ctx, v); err != nil {
		return models.Settings{}, err
	}

	s.log.Info("settings replaced",
		zap.Float64("fuel_price_per_liter", v.FuelPricePerLiter),
		zap.Float64("car_consumption_per_100km", v.CarConsumptionPer100Km),
		zap.Int("extra_tolerance_minutes", v.ExtraToleranceMinutes))

	return v, nil
}

// SeedSettings stores v only when nothing was stored yet.
func (s *Service) SeedSettings(ctx context.Context, v models.Settings) error {
	if s.store.HasSettings() {
		return nil
	}

	_, err := s.ReplaceSettings(ctx, v)

	return err
}
