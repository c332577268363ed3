package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/workday"
	"go.uber.org/zap"
)

const defaultArrivalTime = "10:00"

func (s *Service) ListCities() []models.City {
	return s.store.ListCities()
}

func (s *Service) CreateCity(ctx context.Context, c models.City) (models.City, error) {
	c = normalizeCity(c)
	if err := workday.ValidateCity(c); err != nil {
		return models.City{}, err
	}

	c.ID = uuid.New().String()
	c.CreatedAt = time.Now()

	c, err := s.store.InsertCity(ctx, c)
	if err != nil {
		return models.City{}, err
	}

	s.log.Info("city created", zap.String("name", c.Name))

	return c, nil
}

// ReplaceCity overwrites the directory entry called name. Stored workdays
// keep the values they were derived with.
func (s *Service) ReplaceCity(ctx context.Context, name string, c models.City) (models.City, error) {
	c = normalizeCity(c)
	if c.Name == "" {
		c.Name = strings.TrimSpace(name)
	}
	if err := workday.ValidateCity(c); err != nil {
		return models.City{}, err
	}

	return s.store.ReplaceCity(ctx, name, c)
}

// DeleteCity refuses to drop a city some workday is classified by.
func (s *Service) DeleteCity(ctx context.Context, name string) error {
	if s.store.CityInUse(name) {
		return ErrCityInUse
	}

	if err := s.store.DeleteCity(ctx, name); err != nil {
		return err
	}

	s.log.Info("city deleted", zap.String("name", name))

	return nil
}

// SeedCities fills an empty directory.
func (s *Service) SeedCities(ctx context.Context, cities []models.City) error {
	if len(s.store.ListCities()) > 0 {
		return nil
	}

	for _, c := range cities {
		if _, err := s.CreateCity(ctx, c); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) directory() workday.Cities {
	return s.store.Directory()
}

func normalizeCity(c models.City) models.City {
	c.Name = strings.TrimSpace(c.Name)
	c.DefaultArrivalTime = strings.TrimSpace(c.DefaultArrivalTime)
	if c.DefaultArrivalTime == "" {
		c.DefaultArrivalTime = defaultArrivalTime
	}

	return c
}
