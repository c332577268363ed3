// Package service orchestrates the derivation engine, the aggregator and the
// importer over the storage. Controllers talk to it only.
package service

import (
	"context"
	"errors"

	"github.com/wurt83ow/worktravel/internal/importer"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/workday"
	"go.uber.org/zap/zapcore"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrCityInUse    = errors.New("city is referenced by workdays")
	ErrInvalidUser  = errors.New("invalid user")
	ErrInvalidRole  = errors.New("invalid role")
)

type Log interface {
	Info(string, ...zapcore.Field)
}

// Store is the storage the service works on, implemented by storage.MemoryStorage.
type Store interface {
	GetUser(string) (models.User, error)
	GetUserByLogin(string) (models.User, error)
	ListUsers() []models.User
	InsertUser(context.Context, models.User) (models.User, error)
	UpdateUser(context.Context, models.User) (models.User, error)
	DeleteUser(context.Context, string) error

	ListCities() []models.City
	LookupCity(string) (models.City, bool)
	Directory() workday.Cities
	InsertCity(context.Context, models.City) (models.City, error)
	ReplaceCity(context.Context, string, models.City) (models.City, error)
	DeleteCity(context.Context, string) error
	CityInUse(string) bool

	ListRoles() []models.Role
	InsertRole(context.Context, models.Role) (models.Role, error)

	GetSettings() models.Settings
	HasSettings() bool
	ReplaceSettings(context.Context, models.Settings) error

	GetWorkday(string, string) (models.Workday, error)
	PutWorkday(context.Context, models.Workday) error
	PutWorkdays(context.Context, []models.Workday) error
	PatchWorkday(context.Context, string, string, models.WorkdayPatch) (models.Workday, error)
	DeleteWorkday(context.Context, string, string) error
	ScanWorkdays(models.WorkdayFilter) []models.Workday
	WorkdayDates(string) map[string]struct{}

	GetBaseConnection() bool
}

type Authz interface {
	GetHash(string) ([]byte, error)
	CheckPassword([]byte, string) error
	CreateJWTTokenForUser(models.User) (string, error)
}

type Service struct {
	store    Store
	authz    Authz
	importer *importer.Reconciler
	locks    *keyedMutex
	log      Log
}

func NewService(store Store, authz Authz, concurrency int, log Log) *Service {
	return &Service{
		store:    store,
		authz:    authz,
		importer: importer.NewReconciler(store, concurrency, log),
		locks:    newKeyedMutex(),
		log:      log,
	}
}

// Ping reports whether the storage backend is reachable.
func (s *Service) Ping() bool {
	return s.store.GetBaseConnection()
}

// scope resolves whose data a request reads. Administrative roles may read
// any user or, with an empty requested id, everyone; others only themselves.
func scope(actor models.User, requested string) (*string, error) {
	if models.IsAdminRole(actor.Role) {
		if requested == "" {
			return nil, nil
		}
		return &requested, nil
	}

	if requested != "" && requested != actor.ID {
		return nil, ErrForbidden
	}

	id := actor.ID

	return &id, nil
}
