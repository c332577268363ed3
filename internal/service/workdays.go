package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"github.com/wurt83ow/worktravel/internal/workday"
	"go.uber.org/zap"
)

// UpsertWorkday creates or updates the workday of (userID, payload date).
// A stored day is re-derived only when its classification changes; actual
// punches in the payload are overlaid in both cases.
func (s *Service) UpsertWorkday(ctx context.Context, userID string, p models.WorkdayPayload) (models.Workday, error) {
	date, err := s.checkPayload(&p)
	if err != nil {
		return models.Workday{}, err
	}

	unlock := s.locks.Lock(storage.WorkdayKey(userID, date))
	defer unlock()

	existing, err := s.store.GetWorkday(userID, date)
	switch {
	case err == nil:
		return s.update(ctx, existing, p)
	case errors.Is(err, storage.ErrNotFound):
		return s.insert(ctx, userID, p)
	default:
		return models.Workday{}, err
	}
}

// CreateWorkday fails with workday.ErrDuplicateWorkday when the day exists.
func (s *Service) CreateWorkday(ctx context.Context, userID string, p models.WorkdayPayload) (models.Workday, error) {
	date, err := s.checkPayload(&p)
	if err != nil {
		return models.Workday{}, err
	}

	unlock := s.locks.Lock(storage.WorkdayKey(userID, date))
	defer unlock()

	if _, err := s.store.GetWorkday(userID, date); err == nil {
		return models.Workday{}, &workday.DuplicateWorkdayError{UserID: userID, Date: date}
	}

	return s.insert(ctx, userID, p)
}

// UpdateWorkday fails with storage.ErrNotFound when the day does not exist.
func (s *Service) UpdateWorkday(ctx context.Context, userID, date string, p models.WorkdayPayload) (models.Workday, error) {
	p.Date = date

	iso, err := s.checkPayload(&p)
	if err != nil {
		return models.Workday{}, err
	}

	unlock := s.locks.Lock(storage.WorkdayKey(userID, iso))
	defer unlock()

	existing, err := s.store.GetWorkday(userID, iso)
	if err != nil {
		return models.Workday{}, err
	}

	return s.update(ctx, existing, p)
}

func (s *Service) GetWorkday(userID, date string) (models.Workday, error) {
	iso, err := workday.NormalizeDate(date)
	if err != nil {
		return models.Workday{}, err
	}

	return s.store.GetWorkday(userID, iso)
}

func (s *Service) DeleteWorkday(ctx context.Context, userID, date string) error {
	iso, err := workday.NormalizeDate(date)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(storage.WorkdayKey(userID, iso))
	defer unlock()

	if err := s.store.DeleteWorkday(ctx, userID, iso); err != nil {
		return err
	}

	s.log.Info("workday deleted", zap.String("user_id", userID), zap.String("date", iso))

	return nil
}

// ListWorkdays returns the workdays of a month visible to actor. A zero
// month or year does not filter.
func (s *Service) ListWorkdays(actor models.User, month, year int, userID string) ([]models.Workday, error) {
	uid, err := scope(actor, userID)
	if err != nil {
		return nil, err
	}

	return s.store.ScanWorkdays(models.WorkdayFilter{UserID: uid, Month: month, Year: year}), nil
}

// checkPayload normalizes the payload date in place and rejects ambiguous payloads.
func (s *Service) checkPayload(p *models.WorkdayPayload) (string, error) {
	date, err := workday.NormalizeDate(p.Date)
	if err != nil {
		return "", err
	}
	p.Date = date

	if kind, _ := workday.Classify(*p); kind == workday.KindInvalid {
		return "", workday.ErrConflictingClassification
	}

	return date, nil
}

// must be called with the (user, date) lock held
func (s *Service) insert(ctx context.Context, userID string, p models.WorkdayPayload) (models.Workday, error) {
	wd, err := workday.FromPayload(p, s.store, s.store.GetSettings())
	if err != nil {
		return models.Workday{}, err
	}

	wd.ID = uuid.New().String()
	wd.UserID = userID
	wd.CreatedAt = time.Now()

	if err := s.store.PutWorkday(ctx, wd); err != nil {
		return models.Workday{}, err
	}

	s.log.Info("workday created", zap.String("user_id", userID), zap.String("date", wd.Date))

	return wd, nil
}

// update patches the actual punches in place when the classification is
// unchanged and re-derives the whole record otherwise.
// must be called with the (user, date) lock held
func (s *Service) update(ctx context.Context, existing models.Workday, p models.WorkdayPayload) (models.Workday, error) {
	patch, err := workday.ActualsPatch(p)
	if err != nil {
		return models.Workday{}, err
	}

	if workday.SameClassification(existing, p) {
		next, err := s.store.PatchWorkday(ctx, existing.UserID, existing.Date, patch)
		if err != nil {
			return models.Workday{}, err
		}

		s.log.Info("workday punches updated", zap.String("user_id", next.UserID), zap.String("date", next.Date))

		return next, nil
	}

	bare := p
	bare.ActualArrivalAtStore, bare.ActualExitFromStore, bare.ActualReturnHome = nil, nil, nil

	next, err := workday.FromPayload(bare, s.store, s.store.GetSettings())
	if err != nil {
		return models.Workday{}, err
	}

	next.ID = existing.ID
	next.UserID = existing.UserID
	next.CreatedAt = existing.CreatedAt
	next.ActualArrivalAtStore = existing.ActualArrivalAtStore
	next.ActualExitFromStore = existing.ActualExitFromStore
	next.ActualReturnHome = existing.ActualReturnHome

	patch.Apply(&next)

	if err := s.store.PutWorkday(ctx, next); err != nil {
		return models.Workday{}, err
	}

	s.log.Info("workday updated", zap.String("user_id", next.UserID), zap.String("date", next.Date))

	return next, nil
}
