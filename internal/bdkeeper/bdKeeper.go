package bdkeeper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // registers a migrate driver.
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	_ "github.com/jackc/pgx/v5/stdlib" // registers a pgx driver.
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const uniqueViolation = "23505"

type Log interface {
	Info(string, ...zapcore.Field)
}

type BDKeeper struct {
	conn *sql.DB
	log  Log
}

func NewBDKeeper(dsn func() string, log Log) *BDKeeper {
	addr := dsn()
	if addr == "" {
		log.Info("database dsn is empty")

		return nil
	}

	conn, err := sql.Open("pgx", addr)
	if err != nil {
		log.Info("Unable to connection to database: ", zap.Error(err))

		return nil
	}

	driver, err := postgres.WithInstance(conn, new(postgres.Config))
	if err != nil {
		log.Info("error getting driver: ", zap.Error(err))

		return nil
	}

	dir, err := os.Getwd()
	if err != nil {
		log.Info("error getting current directory: ", zap.Error(err))
	}

	// tests run from the package directory
	mp := dir + "/migrations"

	var path string
	if _, err := os.Stat(mp); err != nil {
		path = "../../"
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%smigrations", path),
		"postgres",
		driver)
	if err != nil {
		log.Info("Error creating migration instance: ", zap.Error(err))
		return nil
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Info("Error while performing migration: ", zap.Error(err))
		return nil
	}

	log.Info("Connected!")

	return &BDKeeper{
		conn: conn,
		log:  log,
	}
}

func (kp *BDKeeper) LoadUsers(ctx context.Context) (storage.StorageUsers, error) {
	sql := `
	SELECT
		id,
		username,
		email,
		name,
		password_hash,
		role,
		blocked,
		created_at
	FROM
		users`

	rows, err := kp.conn.QueryContext(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	defer rows.Close()

	data := make(storage.StorageUsers)

	for rows.Next() {
		var m models.User

		err := rows.Scan(&m.ID, &m.Username, &m.Email, &m.Name, &m.PasswordHash,
			&m.Role, &m.Blocked, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to load users: %w", err)
		}

		data[m.ID] = m
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveUser(ctx context.Context, u models.User) error {
	query := `
		INSERT INTO users (id, username, email, name, password_hash, role, blocked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			blocked = EXCLUDED.blocked`

	_, err := kp.conn.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.Name, u.PasswordHash, u.Role, u.Blocked, u.CreatedAt)
	if err != nil {
		return kp.wrap("error saving user to database: ", err)
	}

	return nil
}

// DeleteUser relies on ON DELETE CASCADE for the user's workdays.
func (kp *BDKeeper) DeleteUser(ctx context.Context, id string) error {
	if _, err := kp.conn.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return kp.wrap("error deleting user: ", err)
	}

	return nil
}

func (kp *BDKeeper) LoadCities(ctx context.Context) (storage.StorageCities, error) {
	sql := `
	SELECT
		id,
		name,
		distance_km,
		travel_time_minutes,
		default_arrival_time,
		address,
		created_at
	FROM
		cities`

	rows, err := kp.conn.QueryContext(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}

	defer rows.Close()

	data := make(storage.StorageCities)

	for rows.Next() {
		var c models.City

		err := rows.Scan(&c.ID, &c.Name, &c.DistanceKm, &c.TravelTimeMinutes,
			&c.DefaultArrivalTime, &c.Address, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to load cities: %w", err)
		}

		data[c.Name] = c
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveCity(ctx context.Context, c models.City) error {
	query := `
		INSERT INTO cities (id, name, distance_km, travel_time_minutes, default_arrival_time, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			distance_km = EXCLUDED.distance_km,
			travel_time_minutes = EXCLUDED.travel_time_minutes,
			default_arrival_time = EXCLUDED.default_arrival_time,
			address = EXCLUDED.address`

	_, err := kp.conn.ExecContext(ctx, query,
		c.ID, c.Name, c.DistanceKm, c.TravelTimeMinutes, c.DefaultArrivalTime, c.Address, c.CreatedAt)
	if err != nil {
		return kp.wrap("error saving city to database: ", err)
	}

	return nil
}

func (kp *BDKeeper) DeleteCity(ctx context.Context, id string) error {
	if _, err := kp.conn.ExecContext(ctx, `DELETE FROM cities WHERE id = $1`, id); err != nil {
		return kp.wrap("error deleting city: ", err)
	}

	return nil
}

func (kp *BDKeeper) LoadRoles(ctx context.Context) (storage.StorageRoles, error) {
	rows, err := kp.conn.QueryContext(ctx, `SELECT id, name, permissions, custom, created_at FROM roles`)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	defer rows.Close()

	data := make(storage.StorageRoles)
	types := pgtype.NewMap()

	for rows.Next() {
		var r models.Role

		err := rows.Scan(&r.ID, &r.Name, types.SQLScanner(&r.Permissions), &r.Custom, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to load roles: %w", err)
		}

		data[r.Name] = r
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveRole(ctx context.Context, r models.Role) error {
	query := `
		INSERT INTO roles (id, name, permissions, custom, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			permissions = EXCLUDED.permissions,
			custom = EXCLUDED.custom`

	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}

	if _, err := kp.conn.ExecContext(ctx, query, r.ID, r.Name, perms, r.Custom, r.CreatedAt); err != nil {
		return kp.wrap("error saving role: ", err)
	}

	return nil
}

func (kp *BDKeeper) LoadSettings(ctx context.Context) (*models.Settings, error) {
	row := kp.conn.QueryRowContext(ctx, `
	SELECT
		fuel_price_per_liter,
		car_consumption_per_100km,
		monthly_allowance,
		extra_tolerance_minutes,
		car_model
	FROM
		settings
	WHERE id = 1`)

	var s models.Settings

	err := row.Scan(&s.FuelPricePerLiter, &s.CarConsumptionPer100Km,
		&s.MonthlyAllowance, &s.ExtraToleranceMinutes, &s.CarModel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &s, nil
}

func (kp *BDKeeper) SaveSettings(ctx context.Context, s models.Settings) error {
	query := `
		INSERT INTO settings (id, fuel_price_per_liter, car_consumption_per_100km,
			monthly_allowance, extra_tolerance_minutes, car_model)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			fuel_price_per_liter = EXCLUDED.fuel_price_per_liter,
			car_consumption_per_100km = EXCLUDED.car_consumption_per_100km,
			monthly_allowance = EXCLUDED.monthly_allowance,
			extra_tolerance_minutes = EXCLUDED.extra_tolerance_minutes,
			car_model = EXCLUDED.car_model`

	_, err := kp.conn.ExecContext(ctx, query, s.FuelPricePerLiter, s.CarConsumptionPer100Km,
		s.MonthlyAllowance, s.ExtraToleranceMinutes, s.CarModel)
	if err != nil {
		return kp.wrap("error saving settings: ", err)
	}

	return nil
}

const workdayColumns = `
		id, user_id, date, city, status,
		is_custom_city, custom_city_name, custom_distance_km, custom_travel_minutes,
		travel_minutes_outbound, travel_minutes_return, paid_travel_minutes,
		work_minutes_at_store, presence_minutes_with_break,
		departure_from_home, arrival_at_store, exit_from_store, return_home,
		actual_arrival_at_store, actual_exit_from_store, actual_return_home,
		total_km, fuel_liters, fuel_cost, created_at`

const upsertWorkday = `
		INSERT INTO workdays (` + workdayColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (user_id, date) DO UPDATE SET
			city = EXCLUDED.city,
			status = EXCLUDED.status,
			is_custom_city = EXCLUDED.is_custom_city,
			custom_city_name = EXCLUDED.custom_city_name,
			custom_distance_km = EXCLUDED.custom_distance_km,
			custom_travel_minutes = EXCLUDED.custom_travel_minutes,
			travel_minutes_outbound = EXCLUDED.travel_minutes_outbound,
			travel_minutes_return = EXCLUDED.travel_minutes_return,
			paid_travel_minutes = EXCLUDED.paid_travel_minutes,
			work_minutes_at_store = EXCLUDED.work_minutes_at_store,
			presence_minutes_with_break = EXCLUDED.presence_minutes_with_break,
			departure_from_home = EXCLUDED.departure_from_home,
			arrival_at_store = EXCLUDED.arrival_at_store,
			exit_from_store = EXCLUDED.exit_from_store,
			return_home = EXCLUDED.return_home,
			actual_arrival_at_store = EXCLUDED.actual_arrival_at_store,
			actual_exit_from_store = EXCLUDED.actual_exit_from_store,
			actual_return_home = EXCLUDED.actual_return_home,
			total_km = EXCLUDED.total_km,
			fuel_liters = EXCLUDED.fuel_liters,
			fuel_cost = EXCLUDED.fuel_cost`

func workdayArgs(w models.Workday) []any {
	return []any{
		w.ID, w.UserID, w.Date, w.City, w.Status,
		w.IsCustomCity, w.CustomCityName, w.CustomDistanceKm, w.CustomTravelMinutes,
		w.TravelMinutesOutbound, w.TravelMinutesReturn, w.PaidTravelMinutes,
		w.WorkMinutesAtStore, w.PresenceMinutesWithBreak,
		w.DepartureFromHome, w.ArrivalAtStore, w.ExitFromStore, w.ReturnHome,
		w.ActualArrivalAtStore, w.ActualExitFromStore, w.ActualReturnHome,
		w.TotalKm, w.FuelLiters, w.FuelCost, w.CreatedAt,
	}
}

func (kp *BDKeeper) LoadWorkdays(ctx context.Context) (storage.StorageWorkdays, error) {
	rows, err := kp.conn.QueryContext(ctx, `SELECT `+workdayColumns+` FROM workdays`)
	if err != nil {
		return nil, fmt.Errorf("failed to load workdays: %w", err)
	}

	defer rows.Close()

	data := make(storage.StorageWorkdays)

	for rows.Next() {
		var (
			w            models.Workday
			city, status sql.NullString
		)

		err := rows.Scan(
			&w.ID, &w.UserID, &w.Date, &city, &status,
			&w.IsCustomCity, &w.CustomCityName, &w.CustomDistanceKm, &w.CustomTravelMinutes,
			&w.TravelMinutesOutbound, &w.TravelMinutesReturn, &w.PaidTravelMinutes,
			&w.WorkMinutesAtStore, &w.PresenceMinutesWithBreak,
			&w.DepartureFromHome, &w.ArrivalAtStore, &w.ExitFromStore, &w.ReturnHome,
			&w.ActualArrivalAtStore, &w.ActualExitFromStore, &w.ActualReturnHome,
			&w.TotalKm, &w.FuelLiters, &w.FuelCost, &w.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load workdays: %w", err)
		}

		if city.Valid {
			w.City = &city.String
		}
		if status.Valid {
			w.Status = &status.String
		}

		data[storage.WorkdayKey(w.UserID, w.Date)] = w
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load workdays: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveWorkday(ctx context.Context, w models.Workday) error {
	if _, err := kp.conn.ExecContext(ctx, upsertWorkday, workdayArgs(w)...); err != nil {
		return kp.wrap("error saving workday: ", err)
	}

	return nil
}

// SaveWorkdays writes the whole batch in one transaction.
func (kp *BDKeeper) SaveWorkdays(ctx context.Context, wds []models.Workday) error {
	tx, err := kp.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertWorkday)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	defer stmt.Close()

	for _, w := range wds {
		if _, err := stmt.ExecContext(ctx, workdayArgs(w)...); err != nil {
			return kp.wrap("error saving workday batch: ", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	kp.log.Info("workday batch saved", zap.Int("rows", len(wds)))

	return nil
}

func (kp *BDKeeper) DeleteWorkday(ctx context.Context, userID, date string) error {
	_, err := kp.conn.ExecContext(ctx, `DELETE FROM workdays WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return kp.wrap("error deleting workday: ", err)
	}

	return nil
}

func (kp *BDKeeper) wrap(msg string, err error) error {
	kp.log.Info(msg, zap.Error(err))

	var e *pgconn.PgError
	if errors.As(err, &e) && e.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", storage.ErrConflict, e.ConstraintName)
	}

	return err
}

func (kp *BDKeeper) Ping() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := kp.conn.PingContext(ctx); err != nil {
		return false
	}

	return true
}

func (kp *BDKeeper) Close() bool {
	kp.conn.Close()

	return true
}
