package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/workday"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrConflict indicates a data conflict in the store.
var (
	ErrConflict = errors.New("data conflict")
	ErrNotFound = errors.New("not found")
)

// PartialWriteError is returned by a keeper whose batch write failed after
// the first Written entries had already been persisted.
type PartialWriteError struct {
	Written int
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("batch write stopped after %d entries: %v", e.Written, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

type (
	StorageUsers    = map[string]models.User    // by id
	StorageCities   = map[string]models.City    // by name
	StorageRoles    = map[string]models.Role    // by name
	StorageWorkdays = map[string]models.Workday // by WorkdayKey
)

type Log interface {
	Info(string, ...zapcore.Field)
}

type MemoryStorage struct {
	umx      sync.RWMutex
	cmx      sync.RWMutex
	rmx      sync.RWMutex
	smx      sync.RWMutex
	wmx      sync.RWMutex
	users    StorageUsers
	cities   StorageCities
	roles    StorageRoles
	settings *models.Settings
	workdays StorageWorkdays
	keeper   Keeper
	log      Log
}

// Keeper persists what MemoryStorage holds. Every backend converts its own
// representation to and from the models.
type Keeper interface {
	LoadUsers(context.Context) (StorageUsers, error)
	SaveUser(context.Context, models.User) error
	DeleteUser(context.Context, string) error

	LoadCities(context.Context) (StorageCities, error)
	SaveCity(context.Context, models.City) error
	DeleteCity(context.Context, string) error

	LoadRoles(context.Context) (StorageRoles, error)
	SaveRole(context.Context, models.Role) error

	// LoadSettings returns nil when nothing was stored yet.
	LoadSettings(context.Context) (*models.Settings, error)
	SaveSettings(context.Context, models.Settings) error

	LoadWorkdays(context.Context) (StorageWorkdays, error)
	SaveWorkday(context.Context, models.Workday) error
	// SaveWorkdays may return a *PartialWriteError.
	SaveWorkdays(context.Context, []models.Workday) error
	DeleteWorkday(context.Context, string, string) error

	Ping() bool
	Close() bool
}

// WorkdayKey is the unique key of a workday.
func WorkdayKey(userID, date string) string {
	return userID + "|" + date
}

func NewMemoryStorage(ctx context.Context, keeper Keeper, log Log) *MemoryStorage {
	users := make(StorageUsers)
	cities := make(StorageCities)
	roles := make(StorageRoles)
	workdays := make(StorageWorkdays)

	var settings *models.Settings

	if keeper != nil {
		var err error

		if users, err = keeper.LoadUsers(ctx); err != nil {
			log.Info("cannot load user data: ", zap.Error(err))
			users = make(StorageUsers)
		}

		if cities, err = keeper.LoadCities(ctx); err != nil {
			log.Info("cannot load city data: ", zap.Error(err))
			cities = make(StorageCities)
		}

		if roles, err = keeper.LoadRoles(ctx); err != nil {
			log.Info("cannot load role data: ", zap.Error(err))
			roles = make(StorageRoles)
		}

		if settings, err = keeper.LoadSettings(ctx); err != nil {
			log.Info("cannot load settings: ", zap.Error(err))
		}

		if workdays, err = keeper.LoadWorkdays(ctx); err != nil {
			log.Info("cannot load workday data: ", zap.Error(err))
			workdays = make(StorageWorkdays)
		}
	}

	return &MemoryStorage{
		users:    users,
		cities:   cities,
		roles:    roles,
		settings: settings,
		workdays: workdays,
		keeper:   keeper,
		log:      log,
	}
}

// ---- users

func (s *MemoryStorage) GetUser(id string) (models.User, error) {
	s.umx.RLock()
	defer s.umx.RUnlock()

	v, exists := s.users[id]
	if !exists {
		return models.User{}, ErrNotFound
	}

	return v, nil
}

// GetUserByLogin finds a user by username or, ignoring case, by email.
func (s *MemoryStorage) GetUserByLogin(login string) (models.User, error) {
	s.umx.RLock()
	defer s.umx.RUnlock()

	login = strings.TrimSpace(login)
	for _, u := range s.users {
		if u.Username == login || (u.Email != "" && strings.EqualFold(u.Email, login)) {
			return u, nil
		}
	}

	return models.User{}, ErrNotFound
}

func (s *MemoryStorage) ListUsers() []models.User {
	s.umx.RLock()
	defer s.umx.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	return users
}

func (s *MemoryStorage) InsertUser(ctx context.Context, u models.User) (models.User, error) {
	s.umx.Lock()
	defer s.umx.Unlock()

	if _, exists := s.users[u.ID]; exists || s.loginTaken(u) {
		return u, ErrConflict
	}

	if err := s.saveUser(ctx, u); err != nil {
		return u, err
	}

	s.users[u.ID] = u

	return u, nil
}

func (s *MemoryStorage) UpdateUser(ctx context.Context, u models.User) (models.User, error) {
	s.umx.Lock()
	defer s.umx.Unlock()

	if _, exists := s.users[u.ID]; !exists {
		return u, ErrNotFound
	}
	if s.loginTaken(u) {
		return u, ErrConflict
	}

	if err := s.saveUser(ctx, u); err != nil {
		return u, err
	}

	s.users[u.ID] = u

	return u, nil
}

// DeleteUser removes the user together with their workdays.
func (s *MemoryStorage) DeleteUser(ctx context.Context, id string) error {
	s.umx.Lock()
	defer s.umx.Unlock()

	if _, exists := s.users[id]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.DeleteUser(ctx, id); err != nil {
			return err
		}
	}

	delete(s.users, id)

	s.wmx.Lock()
	for k, wd := range s.workdays {
		if wd.UserID == id {
			delete(s.workdays, k)
		}
	}
	s.wmx.Unlock()

	return nil
}

// must be called with umx held
func (s *MemoryStorage) loginTaken(u models.User) bool {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username ||
			(u.Email != "" && strings.EqualFold(other.Email, u.Email)) {
			return true
		}
	}

	return false
}

func (s *MemoryStorage) saveUser(ctx context.Context, u models.User) error {
	if s.keeper == nil {
		return nil
	}

	return s.keeper.SaveUser(ctx, u)
}

// ---- cities

func (s *MemoryStorage) ListCities() []models.City {
	s.cmx.RLock()
	defer s.cmx.RUnlock()

	cities := make([]models.City, 0, len(s.cities))
	for _, c := range s.cities {
		cities = append(cities, c)
	}

	sort.Slice(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })

	return cities
}

// LookupCity satisfies workday.Directory.
func (s *MemoryStorage) LookupCity(name string) (models.City, bool) {
	s.cmx.RLock()
	defer s.cmx.RUnlock()

	return workday.Cities(s.cities).LookupCity(name)
}

// Directory returns a snapshot of the city directory.
func (s *MemoryStorage) Directory() workday.Cities {
	return workday.NewCities(s.ListCities())
}

func (s *MemoryStorage) InsertCity(ctx context.Context, c models.City) (models.City, error) {
	s.cmx.Lock()
	defer s.cmx.Unlock()

	if _, exists := workday.Cities(s.cities).LookupCity(c.Name); exists {
		return c, ErrConflict
	}

	if err := s.saveCity(ctx, c); err != nil {
		return c, err
	}

	s.cities[c.Name] = c

	return c, nil
}

// ReplaceCity overwrites the entry stored under name, which may rename it.
func (s *MemoryStorage) ReplaceCity(ctx context.Context, name string, c models.City) (models.City, error) {
	s.cmx.Lock()
	defer s.cmx.Unlock()

	old, exists := workday.Cities(s.cities).LookupCity(name)
	if !exists {
		return c, ErrNotFound
	}
	if other, taken := workday.Cities(s.cities).LookupCity(c.Name); taken && other.ID != old.ID {
		return c, ErrConflict
	}

	c.ID = old.ID
	c.CreatedAt = old.CreatedAt

	if err := s.saveCity(ctx, c); err != nil {
		return c, err
	}

	delete(s.cities, old.Name)
	s.cities[c.Name] = c

	return c, nil
}

func (s *MemoryStorage) DeleteCity(ctx context.Context, name string) error {
	s.cmx.Lock()
	defer s.cmx.Unlock()

	c, exists := workday.Cities(s.cities).LookupCity(name)
	if !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.DeleteCity(ctx, c.ID); err != nil {
			return err
		}
	}

	delete(s.cities, c.Name)

	return nil
}

func (s *MemoryStorage) saveCity(ctx context.Context, c models.City) error {
	if s.keeper == nil {
		return nil
	}

	return s.keeper.SaveCity(ctx, c)
}

// ---- roles

// ListRoles returns the stored custom roles ordered by name.
func (s *MemoryStorage) ListRoles() []models.Role {
	s.rmx.RLock()
	defer s.rmx.RUnlock()

	roles := make([]models.Role, 0, len(s.roles))
	for _, r := range s.roles {
		roles = append(roles, r)
	}

	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })

	return roles
}

// InsertRole stores a custom role. Names are unique ignoring case.
func (s *MemoryStorage) InsertRole(ctx context.Context, r models.Role) (models.Role, error) {
	s.rmx.Lock()
	defer s.rmx.Unlock()

	for name := range s.roles {
		if strings.EqualFold(name, r.Name) {
			return r, ErrConflict
		}
	}

	if s.keeper != nil {
		if err := s.keeper.SaveRole(ctx, r); err != nil {
			return r, err
		}
	}

	s.roles[r.Name] = r

	return r, nil
}

// ---- settings

// GetSettings returns the stored settings or the defaults.
func (s *MemoryStorage) GetSettings() models.Settings {
	s.smx.RLock()
	defer s.smx.RUnlock()

	if s.settings == nil {
		return models.DefaultSettings()
	}

	return *s.settings
}

func (s *MemoryStorage) HasSettings() bool {
	s.smx.RLock()
	defer s.smx.RUnlock()

	return s.settings != nil
}

func (s *MemoryStorage) ReplaceSettings(ctx context.Context, v models.Settings) error {
	s.smx.Lock()
	defer s.smx.Unlock()

	if s.keeper != nil {
		if err := s.keeper.SaveSettings(ctx, v); err != nil {
			return err
		}
	}

	s.settings = &v

	return nil
}

// ---- workdays

func (s *MemoryStorage) GetWorkday(userID, date string) (models.Workday, error) {
	s.wmx.RLock()
	defer s.wmx.RUnlock()

	wd, exists := s.workdays[WorkdayKey(userID, date)]
	if !exists {
		return models.Workday{}, ErrNotFound
	}

	return wd, nil
}

// PutWorkday inserts or replaces the workday of (UserID, Date).
func (s *MemoryStorage) PutWorkday(ctx context.Context, wd models.Workday) error {
	s.wmx.Lock()
	defer s.wmx.Unlock()

	if s.keeper != nil {
		if err := s.keeper.SaveWorkday(ctx, wd); err != nil {
			return err
		}
	}

	s.workdays[WorkdayKey(wd.UserID, wd.Date)] = wd

	return nil
}

// PutWorkdays stores a batch in a single keeper call. When the keeper
// persisted only a prefix of the batch, that prefix is kept in memory too.
func (s *MemoryStorage) PutWorkdays(ctx context.Context, wds []models.Workday) error {
	s.wmx.Lock()
	defer s.wmx.Unlock()

	if s.keeper != nil {
		if err := s.keeper.SaveWorkdays(ctx, wds); err != nil {
			var pe *PartialWriteError
			if errors.As(err, &pe) && pe.Written > 0 && pe.Written <= len(wds) {
				for _, wd := range wds[:pe.Written] {
					s.workdays[WorkdayKey(wd.UserID, wd.Date)] = wd
				}
			}

			return err
		}
	}

	for _, wd := range wds {
		s.workdays[WorkdayKey(wd.UserID, wd.Date)] = wd
	}

	return nil
}

// PatchWorkday applies the non-nil actual punches of p.
func (s *MemoryStorage) PatchWorkday(ctx context.Context, userID, date string, p models.WorkdayPatch) (models.Workday, error) {
	s.wmx.Lock()
	defer s.wmx.Unlock()

	key := WorkdayKey(userID, date)

	wd, exists := s.workdays[key]
	if !exists {
		return wd, ErrNotFound
	}

	p.Apply(&wd)

	if s.keeper != nil {
		if err := s.keeper.SaveWorkday(ctx, wd); err != nil {
			return wd, err
		}
	}

	s.workdays[key] = wd

	return wd, nil
}

func (s *MemoryStorage) DeleteWorkday(ctx context.Context, userID, date string) error {
	s.wmx.Lock()
	defer s.wmx.Unlock()

	key := WorkdayKey(userID, date)
	if _, exists := s.workdays[key]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.DeleteWorkday(ctx, userID, date); err != nil {
			return err
		}
	}

	delete(s.workdays, key)

	return nil
}

// ScanWorkdays returns the workdays matching f ordered by date, then user.
func (s *MemoryStorage) ScanWorkdays(f models.WorkdayFilter) []models.Workday {
	s.wmx.RLock()
	defer s.wmx.RUnlock()

	var res []models.Workday

	for _, wd := range s.workdays {
		if f.UserID != nil && wd.UserID != *f.UserID {
			continue
		}
		if f.Month != 0 || f.Year != 0 {
			m, y, err := workday.MonthYear(wd.Date)
			if err != nil {
				continue
			}
			if (f.Month != 0 && m != f.Month) || (f.Year != 0 && y != f.Year) {
				continue
			}
		}
		res = append(res, wd)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Date != res[j].Date {
			return res[i].Date < res[j].Date
		}
		return res[i].UserID < res[j].UserID
	})

	return res
}

// WorkdayDates returns the set of dates already stored for a user.
func (s *MemoryStorage) WorkdayDates(userID string) map[string]struct{} {
	s.wmx.RLock()
	defer s.wmx.RUnlock()

	dates := make(map[string]struct{})
	for _, wd := range s.workdays {
		if wd.UserID == userID {
			dates[wd.Date] = struct{}{}
		}
	}

	return dates
}

// CityInUse reports whether any workday is classified by the named city.
func (s *MemoryStorage) CityInUse(name string) bool {
	s.wmx.RLock()
	defer s.wmx.RUnlock()

	for _, wd := range s.workdays {
		if wd.City != nil && !wd.IsCustomCity && strings.EqualFold(*wd.City, name) {
			return true
		}
	}

	return false
}

// GetBaseConnection reports whether the backing keeper is reachable.
// A storage without keeper has nothing to reach.
func (s *MemoryStorage) GetBaseConnection() bool {
	if s.keeper == nil {
		return true
	}

	return s.keeper.Ping()
}

func (s *MemoryStorage) Close() {
	if s.keeper != nil {
		s.keeper.Close()
	}
}
