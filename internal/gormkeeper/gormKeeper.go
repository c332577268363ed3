// Package gormkeeper keeps the storage in an embedded SQLite file through gorm.
package gormkeeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type Log interface {
	Info(string, ...zapcore.Field)
}

type userRow struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string
	Name         string
	PasswordHash []byte
	Role         string `gorm:"not null"`
	Blocked      bool
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type cityRow struct {
	ID                 string `gorm:"primaryKey"`
	Name               string `gorm:"uniqueIndex;not null"`
	DistanceKm         float64
	TravelTimeMinutes  int
	DefaultArrivalTime string
	Address            string
	CreatedAt          time.Time
}

func (cityRow) TableName() string { return "cities" }

type roleRow struct {
	ID          string   `gorm:"primaryKey"`
	Name        string   `gorm:"uniqueIndex;not null"`
	Permissions []string `gorm:"serializer:json"`
	Custom      bool
	CreatedAt   time.Time
}

func (roleRow) TableName() string { return "roles" }

type settingsRow struct {
	ID                     int `gorm:"primaryKey"`
	FuelPricePerLiter      float64
	CarConsumptionPer100Km float64 `gorm:"column:car_consumption_per_100km"`
	MonthlyAllowance       float64
	ExtraToleranceMinutes  int
	CarModel               string
}

func (settingsRow) TableName() string { return "settings" }

type workdayRow struct {
	ID     string  `gorm:"primaryKey"`
	UserID string  `gorm:"uniqueIndex:idx_workday_user_date;not null"`
	Date   string  `gorm:"uniqueIndex:idx_workday_user_date;index;not null"`
	City   *string `gorm:"index"`
	Status *string

	IsCustomCity        bool
	CustomCityName      string
	CustomDistanceKm    float64
	CustomTravelMinutes int

	TravelMinutesOutbound    int
	TravelMinutesReturn      int
	PaidTravelMinutes        int
	WorkMinutesAtStore       int
	PresenceMinutesWithBreak int

	DepartureFromHome string
	ArrivalAtStore    string
	ExitFromStore     string
	ReturnHome        string

	ActualArrivalAtStore string
	ActualExitFromStore  string
	ActualReturnHome     string

	TotalKm    float64
	FuelLiters float64
	FuelCost   float64

	CreatedAt time.Time
}

func (workdayRow) TableName() string { return "workdays" }

type GormKeeper struct {
	db  *gorm.DB
	log Log
}

// NewGormKeeper opens (or creates) the SQLite database at path and migrates it.
// ":memory:" gives a throwaway database.
func NewGormKeeper(path func() string, log Log) *GormKeeper {
	p := path()
	if p == "" {
		log.Info("sqlite path is empty")

		return nil
	}

	db, err := gorm.Open(sqlite.Open(p), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Info("unable to open sqlite database: ", zap.Error(err))

		return nil
	}

	if p == ":memory:" {
		// every pooled connection would get its own empty database
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := db.AutoMigrate(&userRow{}, &cityRow{}, &roleRow{}, &settingsRow{}, &workdayRow{}); err != nil {
		log.Info("error while performing migration: ", zap.Error(err))

		return nil
	}

	log.Info("sqlite storage ready", zap.String("path", p))

	return &GormKeeper{db: db, log: log}
}

func (kp *GormKeeper) LoadUsers(ctx context.Context) (storage.StorageUsers, error) {
	var rows []userRow
	if err := kp.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	data := make(storage.StorageUsers, len(rows))
	for _, r := range rows {
		data[r.ID] = models.User{
			ID:           r.ID,
			Username:     r.Username,
			Email:        r.Email,
			Name:         r.Name,
			PasswordHash: r.PasswordHash,
			Role:         r.Role,
			Blocked:      r.Blocked,
			CreatedAt:    r.CreatedAt,
		}
	}

	return data, nil
}

func (kp *GormKeeper) SaveUser(ctx context.Context, u models.User) error {
	row := userRow{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Blocked:      u.Blocked,
		CreatedAt:    u.CreatedAt,
	}

	return kp.wrap("error saving user: ", kp.db.WithContext(ctx).Save(&row).Error)
}

func (kp *GormKeeper) DeleteUser(ctx context.Context, id string) error {
	return kp.wrap("error deleting user: ", kp.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&workdayRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&userRow{}, "id = ?", id).Error
	}))
}

func (kp *GormKeeper) LoadCities(ctx context.Context) (storage.StorageCities, error) {
	var rows []cityRow
	if err := kp.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}

	data := make(storage.StorageCities, len(rows))
	for _, r := range rows {
		data[r.Name] = models.City{
			ID:                 r.ID,
			Name:               r.Name,
			DistanceKm:         r.DistanceKm,
			TravelTimeMinutes:  r.TravelTimeMinutes,
			DefaultArrivalTime: r.DefaultArrivalTime,
			Address:            r.Address,
			CreatedAt:          r.CreatedAt,
		}
	}

	return data, nil
}

func (kp *GormKeeper) SaveCity(ctx context.Context, c models.City) error {
	row := cityRow{
		ID:                 c.ID,
		Name:               c.Name,
		DistanceKm:         c.DistanceKm,
		TravelTimeMinutes:  c.TravelTimeMinutes,
		DefaultArrivalTime: c.DefaultArrivalTime,
		Address:            c.Address,
		CreatedAt:          c.CreatedAt,
	}

	return kp.wrap("error saving city: ", kp.db.WithContext(ctx).Save(&row).Error)
}

func (kp *GormKeeper) DeleteCity(ctx context.Context, id string) error {
	return kp.wrap("error deleting city: ", kp.db.WithContext(ctx).Delete(&cityRow{}, "id = ?", id).Error)
}

func (kp *GormKeeper) LoadRoles(ctx context.Context) (storage.StorageRoles, error) {
	var rows []roleRow
	if err := kp.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	data := make(storage.StorageRoles, len(rows))
	for _, r := range rows {
		data[r.Name] = models.Role{
			ID:          r.ID,
			Name:        r.Name,
			Permissions: r.Permissions,
			Custom:      r.Custom,
			CreatedAt:   r.CreatedAt,
		}
	}

	return data, nil
}

func (kp *GormKeeper) SaveRole(ctx context.Context, r models.Role) error {
	row := roleRow{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: r.Permissions,
		Custom:      r.Custom,
		CreatedAt:   r.CreatedAt,
	}

	return kp.wrap("error saving role: ", kp.db.WithContext(ctx).Save(&row).Error)
}

func (kp *GormKeeper) LoadSettings(ctx context.Context) (*models.Settings, error) {
	var row settingsRow

	err := kp.db.WithContext(ctx).First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &models.Settings{
		FuelPricePerLiter:      row.FuelPricePerLiter,
		CarConsumptionPer100Km: row.CarConsumptionPer100Km,
		MonthlyAllowance:       row.MonthlyAllowance,
		ExtraToleranceMinutes:  row.ExtraToleranceMinutes,
		CarModel:               row.CarModel,
	}, nil
}

func (kp *GormKeeper) SaveSettings(ctx context.Context, s models.Settings) error {
	row := settingsRow{
		ID:                     1,
		FuelPricePerLiter:      s.FuelPricePerLiter,
		CarConsumptionPer100Km: s.CarConsumptionPer100Km,
		MonthlyAllowance:       s.MonthlyAllowance,
		ExtraToleranceMinutes:  s.ExtraToleranceMinutes,
		CarModel:               s.CarModel,
	}

	return kp.wrap("error saving settings: ", kp.db.WithContext(ctx).Save(&row).Error)
}

func (kp *GormKeeper) LoadWorkdays(ctx context.Context) (storage.StorageWorkdays, error) {
	var rows []workdayRow
	if err := kp.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load workdays: %w", err)
	}

	data := make(storage.StorageWorkdays, len(rows))
	for _, r := range rows {
		data[storage.WorkdayKey(r.UserID, r.Date)] = fromRow(r)
	}

	return data, nil
}

// upsertOnUserDate replaces every column but the id of an existing (user_id, date).
var upsertOnUserDate = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"city", "status",
		"is_custom_city", "custom_city_name", "custom_distance_km", "custom_travel_minutes",
		"travel_minutes_outbound", "travel_minutes_return", "paid_travel_minutes",
		"work_minutes_at_store", "presence_minutes_with_break",
		"departure_from_home", "arrival_at_store", "exit_from_store", "return_home",
		"actual_arrival_at_store", "actual_exit_from_store", "actual_return_home",
		"total_km", "fuel_liters", "fuel_cost",
	}),
}

func (kp *GormKeeper) SaveWorkday(ctx context.Context, w models.Workday) error {
	row := toRow(w)

	return kp.wrap("error saving workday: ", kp.db.WithContext(ctx).Clauses(upsertOnUserDate).Create(&row).Error)
}

func (kp *GormKeeper) SaveWorkdays(ctx context.Context, wds []models.Workday) error {
	if len(wds) == 0 {
		return nil
	}

	rows := make([]workdayRow, len(wds))
	for i, w := range wds {
		rows[i] = toRow(w)
	}

	err := kp.db.WithContext(ctx).Clauses(upsertOnUserDate).CreateInBatches(&rows, 100).Error
	if err != nil {
		return kp.wrap("error saving workday batch: ", err)
	}

	kp.log.Info("workday batch saved", zap.Int("rows", len(rows)))

	return nil
}

func (kp *GormKeeper) DeleteWorkday(ctx context.Context, userID, date string) error {
	err := kp.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Delete(&workdayRow{}).Error

	return kp.wrap("error deleting workday: ", err)
}

func (kp *GormKeeper) wrap(msg string, err error) error {
	if err == nil {
		return nil
	}

	kp.log.Info(msg, zap.Error(err))

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	}

	return err
}

func (kp *GormKeeper) Ping() bool {
	sqlDB, err := kp.db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx) == nil
}

func (kp *GormKeeper) Close() bool {
	sqlDB, err := kp.db.DB()
	if err != nil {
		return false
	}

	return sqlDB.Close() == nil
}

func toRow(w models.Workday) workdayRow {
	return workdayRow{
		ID:                       w.ID,
		UserID:                   w.UserID,
		Date:                     w.Date,
		City:                     w.City,
		Status:                   w.Status,
		IsCustomCity:             w.IsCustomCity,
		CustomCityName:           w.CustomCityName,
		CustomDistanceKm:         w.CustomDistanceKm,
		CustomTravelMinutes:      w.CustomTravelMinutes,
		TravelMinutesOutbound:    w.TravelMinutesOutbound,
		TravelMinutesReturn:      w.TravelMinutesReturn,
		PaidTravelMinutes:        w.PaidTravelMinutes,
		WorkMinutesAtStore:       w.WorkMinutesAtStore,
		PresenceMinutesWithBreak: w.PresenceMinutesWithBreak,
		DepartureFromHome:        w.DepartureFromHome,
		ArrivalAtStore:           w.ArrivalAtStore,
		ExitFromStore:            w.ExitFromStore,
		ReturnHome:               w.ReturnHome,
		ActualArrivalAtStore:     w.ActualArrivalAtStore,
		ActualExitFromStore:      w.ActualExitFromStore,
		ActualReturnHome:         w.ActualReturnHome,
		TotalKm:                  w.TotalKm,
		FuelLiters:               w.FuelLiters,
		FuelCost:                 w.FuelCost,
		CreatedAt:                w.CreatedAt,
	}
}

func fromRow(r workdayRow) models.Workday {
	return models.Workday{
		ID:                       r.ID,
		UserID:                   r.UserID,
		Date:                     r.Date,
		City:                     r.City,
		Status:                   r.Status,
		IsCustomCity:             r.IsCustomCity,
		CustomCityName:           r.CustomCityName,
		CustomDistanceKm:         r.CustomDistanceKm,
		CustomTravelMinutes:      r.CustomTravelMinutes,
		TravelMinutesOutbound:    r.TravelMinutesOutbound,
		TravelMinutesReturn:      r.TravelMinutesReturn,
		PaidTravelMinutes:        r.PaidTravelMinutes,
		WorkMinutesAtStore:       r.WorkMinutesAtStore,
		PresenceMinutesWithBreak: r.PresenceMinutesWithBreak,
		DepartureFromHome:        r.DepartureFromHome,
		ArrivalAtStore:           r.ArrivalAtStore,
		ExitFromStore:            r.ExitFromStore,
		ReturnHome:               r.ReturnHome,
		ActualArrivalAtStore:     r.ActualArrivalAtStore,
		ActualExitFromStore:      r.ActualExitFromStore,
		ActualReturnHome:         r.ActualReturnHome,
		TotalKm:                  r.TotalKm,
		FuelLiters:               r.FuelLiters,
		FuelCost:                 r.FuelCost,
		CreatedAt:                r.CreatedAt,
	}
}
