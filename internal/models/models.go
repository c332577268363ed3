package models

import (
	"time"
)

type Key string

// Built-in roles. The first three are administrative.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleHR         = "hr"
	RoleUser       = "user"
)

// IsAdminRole reports whether role may manage other users' data.
func IsAdminRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin || role == RoleHR
}

func IsBuiltinRole(role string) bool {
	return IsAdminRole(role) || role == RoleUser
}

// IsValidRole accepts a built-in role or one of the given custom roles.
func IsValidRole(role string, custom []Role) bool {
	if IsBuiltinRole(role) {
		return true
	}

	for _, r := range custom {
		if r.Name == role {
			return true
		}
	}

	return false
}

// Role is an entry of the role catalogue. Built-in roles are never stored.
type Role struct {
	ID          string    `db:"id" json:"id" bson:"id"`
	Name        string    `db:"name" json:"name" bson:"name"`
	Permissions []string  `db:"permissions" json:"permissions" bson:"permissions"`
	Custom      bool      `db:"custom" json:"custom" bson:"custom"`
	CreatedAt   time.Time `db:"created_at" json:"created_at" bson:"created_at"`
}

// RoleRequest is what a super admin submits to create a custom role.
type RoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// BuiltinRoles returns the built-in roles with their permissions.
func BuiltinRoles() []Role {
	return []Role{
		{ID: "1", Name: RoleSuperAdmin, Permissions: []string{"all"}},
		{ID: "2", Name: RoleAdmin, Permissions: []string{"manage_users", "manage_cities"}},
		{ID: "3", Name: RoleHR, Permissions: []string{"view_users", "manage_cities"}},
		{ID: "4", Name: RoleUser, Permissions: []string{"view_own_data"}},
	}
}

// User represents an employee or an administrator account
type User struct {
	ID           string    `db:"id" json:"id" bson:"id"`
	Username     string    `db:"username" json:"username,omitempty" bson:"username"`
	Email        string    `db:"email" json:"email" bson:"email"`
	Name         string    `db:"name" json:"name" bson:"name"`
	PasswordHash []byte    `db:"password_hash" json:"-" bson:"password_hash"`
	Role         string    `db:"role" json:"role" bson:"role"`
	Blocked      bool      `db:"blocked" json:"blocked" bson:"blocked"`
	CreatedAt    time.Time `db:"created_at" json:"created_at" bson:"created_at"`
}

// UserRequest is what an administrator submits to create a user.
type UserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserPatch carries the fields an administrator may change on a user.
type UserPatch struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	Blocked  *bool   `json:"blocked,omitempty"`
}

// City is an entry of the city directory: travel parameters from home to the store.
type City struct {
	ID                 string    `db:"id" json:"id" bson:"id" mapstructure:"-"`
	Name               string    `db:"name" json:"name" bson:"name" mapstructure:"name"`
	DistanceKm         float64   `db:"distance_km" json:"distance_km" bson:"distance_km" mapstructure:"distance_km"`
	TravelTimeMinutes  int       `db:"travel_time_minutes" json:"travel_time_minutes" bson:"travel_time_minutes" mapstructure:"travel_time_minutes"`
	DefaultArrivalTime string    `db:"default_arrival_time" json:"default_arrival_time,omitempty" bson:"default_arrival_time" mapstructure:"default_arrival_time"`
	Address            string    `db:"address" json:"address,omitempty" bson:"address" mapstructure:"address"`
	CreatedAt          time.Time `db:"created_at" json:"created_at" bson:"created_at" mapstructure:"-"`
}

// Settings is the organization-wide configuration used by derivation and stats.
type Settings struct {
	FuelPricePerLiter      float64 `db:"fuel_price_per_liter" json:"fuel_price_per_liter" bson:"fuel_price_per_liter" mapstructure:"fuel_price_per_liter"`
	CarConsumptionPer100Km float64 `db:"car_consumption_per_100km" json:"car_consumption_per_100km" bson:"car_consumption_per_100km" mapstructure:"car_consumption_per_100km"`
	MonthlyAllowance       float64 `db:"monthly_allowance" json:"monthly_allowance" bson:"monthly_allowance" mapstructure:"monthly_allowance"`
	ExtraToleranceMinutes  int     `db:"extra_tolerance_minutes" json:"extra_tolerance_minutes" bson:"extra_tolerance_minutes" mapstructure:"extra_tolerance_minutes"`
	CarModel               string  `db:"car_model" json:"car_model,omitempty" bson:"car_model" mapstructure:"car_model"`
}

// DefaultSettings returns the settings used until an administrator stores new ones.
func DefaultSettings() Settings {
	return Settings{
		FuelPricePerLiter:      1.75,
		CarConsumptionPer100Km: 4.5,
		MonthlyAllowance:       250,
		ExtraToleranceMinutes:  15,
		CarModel:               "Hyundai IONIQ 1.6 Hybrid 2017",
	}
}

// Workday is the stored, fully derived record of a single calendar day of a user.
// Exactly one of City and Status is set.
type Workday struct {
	ID     string  `json:"id" bson:"id"`
	UserID string  `json:"user_id" bson:"user_id"`
	Date   string  `json:"date" bson:"date"` // YYYY-MM-DD
	City   *string `json:"city" bson:"city"`
	Status *string `json:"status" bson:"status"`

	IsCustomCity        bool    `json:"is_custom_city" bson:"is_custom_city"`
	CustomCityName      string  `json:"custom_city_name,omitempty" bson:"custom_city_name"`
	CustomDistanceKm    float64 `json:"custom_distance_km,omitempty" bson:"custom_distance_km"`
	CustomTravelMinutes int     `json:"custom_travel_minutes,omitempty" bson:"custom_travel_minutes"`

	TravelMinutesOutbound    int `json:"travel_minutes_outbound" bson:"travel_minutes_outbound"`
	TravelMinutesReturn      int `json:"travel_minutes_return" bson:"travel_minutes_return"`
	PaidTravelMinutes        int `json:"paid_travel_minutes" bson:"paid_travel_minutes"`
	WorkMinutesAtStore       int `json:"work_minutes_at_store" bson:"work_minutes_at_store"`
	PresenceMinutesWithBreak int `json:"presence_minutes_with_break" bson:"presence_minutes_with_break"`

	DepartureFromHome string `json:"departure_from_home,omitempty" bson:"departure_from_home"`
	ArrivalAtStore    string `json:"arrival_at_store,omitempty" bson:"arrival_at_store"`
	ExitFromStore     string `json:"exit_from_store,omitempty" bson:"exit_from_store"`
	ReturnHome        string `json:"return_home,omitempty" bson:"return_home"`

	ActualArrivalAtStore string `json:"actual_arrival_at_store,omitempty" bson:"actual_arrival_at_store"`
	ActualExitFromStore  string `json:"actual_exit_from_store,omitempty" bson:"actual_exit_from_store"`
	ActualReturnHome     string `json:"actual_return_home,omitempty" bson:"actual_return_home"`

	TotalKm    float64 `json:"total_km" bson:"total_km"`
	FuelLiters float64 `json:"fuel_liters" bson:"fuel_liters"`
	FuelCost   float64 `json:"fuel_cost" bson:"fuel_cost"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// IsWorkDay reports whether the record is classified by a city.
func (w Workday) IsWorkDay() bool {
	return w.City != nil && *w.City != ""
}

// IsRestDay reports whether the record is classified by a status label.
func (w Workday) IsRestDay() bool {
	return w.Status != nil && *w.Status != ""
}

// WorkdayPayload is what a client submits to create or update a day.
// Nil actual_* fields leave stored punches untouched, empty strings clear them.
type WorkdayPayload struct {
	Date                 string   `json:"date"`
	City                 *string  `json:"city,omitempty"`
	Status               *string  `json:"status,omitempty"`
	IsCustomCity         bool     `json:"is_custom_city,omitempty"`
	CustomCityName       string   `json:"custom_city_name,omitempty"`
	CustomDistanceKm     *float64 `json:"custom_distance_km,omitempty"`
	CustomTravelMinutes  *int     `json:"custom_travel_minutes,omitempty"`
	ActualArrivalAtStore *string  `json:"actual_arrival_at_store,omitempty"`
	ActualExitFromStore  *string  `json:"actual_exit_from_store,omitempty"`
	ActualReturnHome     *string  `json:"actual_return_home,omitempty"`
}

// WorkdayPatch is a partial update applied to a stored workday.
type WorkdayPatch struct {
	ActualArrivalAtStore *string
	ActualExitFromStore  *string
	ActualReturnHome     *string
}

// Apply copies the non-nil punches of p onto w.
func (p WorkdayPatch) Apply(w *Workday) {
	if p.ActualArrivalAtStore != nil {
		w.ActualArrivalAtStore = *p.ActualArrivalAtStore
	}
	if p.ActualExitFromStore != nil {
		w.ActualExitFromStore = *p.ActualExitFromStore
	}
	if p.ActualReturnHome != nil {
		w.ActualReturnHome = *p.ActualReturnHome
	}
}

// WorkdayFilter narrows a workday scan. Zero values match everything.
type WorkdayFilter struct {
	UserID *string
	Month  int
	Year   int
}

// MonthlyStats is the on-demand aggregate of a month of workdays.
type MonthlyStats struct {
	Month                   string  `json:"month"` // MM/YYYY
	TotalKm                 float64 `json:"total_km"`
	TotalFuelLiters         float64 `json:"total_fuel_liters"`
	TotalFuelCost           float64 `json:"total_fuel_cost"`
	KmAllowance             float64 `json:"km_allowance"`
	WorkDays                int     `json:"work_days"`
	RestDays                int     `json:"rest_days"`
	TotalTimeAtStoreMinutes int     `json:"total_time_at_store_minutes"`
	TotalTravelTimeMinutes  int     `json:"total_travel_time_minutes"`
}

// ImportRow is a raw CSV record keyed by the legacy spreadsheet headers.
type ImportRow struct {
	Line              int
	Date              string // Giorno
	City              string // Città
	Status            string // Stato Giornata
	MinutesOutbound   int    // Minuti andata
	MinutesReturn     int    // Minuti ritorno
	WorkMinutes       int    // Minuti lavoro in VIS
	ArrivalAtStore    string // Arrivo VIS
	DepartureFromHome string // Partenza da casa
	ExitFromStore     string // Uscita VIS
	ReturnHome        string // Rientro a casa
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Message  string   `json:"message"`
	RowsRead int      `json:"rows_read"`
	Imported int      `json:"rows_saved"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
	Role  string `json:"role"`
}
