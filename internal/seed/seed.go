// Package seed loads the initial city directory and organization settings.
package seed

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/wurt83ow/worktravel/internal/models"
)

// Data is what a fresh installation starts from.
type Data struct {
	Cities   []models.City   `mapstructure:"cities"`
	Settings models.Settings `mapstructure:"settings"`
}

// Defaults returns the built-in directory and settings.
func Defaults() Data {
	return Data{
		Cities: []models.City{
			{Name: "Verona", DistanceKm: 0, TravelTimeMinutes: 0, DefaultArrivalTime: "10:00"},
			{Name: "Modena", DistanceKm: 103, TravelTimeMinutes: 70, DefaultArrivalTime: "10:00"},
			{Name: "Reggio Emilia", DistanceKm: 95, TravelTimeMinutes: 80, DefaultArrivalTime: "10:00"},
			{Name: "Parma", DistanceKm: 125, TravelTimeMinutes: 90, DefaultArrivalTime: "10:00"},
			{Name: "Mantova", DistanceKm: 55, TravelTimeMinutes: 45, DefaultArrivalTime: "10:00"},
			{Name: "Brescia", DistanceKm: 78, TravelTimeMinutes: 55, DefaultArrivalTime: "10:00"},
		},
		Settings: models.DefaultSettings(),
	}
}

// Load reads a yaml, json or toml seed file. An empty path or a missing
// file yields Defaults; keys absent from the file keep their default value.
func Load(path string) (Data, error) {
	def := Defaults()
	if path == "" {
		return def, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return def, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("settings.fuel_price_per_liter", def.Settings.FuelPricePerLiter)
	v.SetDefault("settings.car_consumption_per_100km", def.Settings.CarConsumptionPer100Km)
	v.SetDefault("settings.monthly_allowance", def.Settings.MonthlyAllowance)
	v.SetDefault("settings.extra_tolerance_minutes", def.Settings.ExtraToleranceMinutes)
	v.SetDefault("settings.car_model", def.Settings.CarModel)

	if err := v.ReadInConfig(); err != nil {
		return Data{}, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var data Data
	if err := v.Unmarshal(&data); err != nil {
		return Data{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	if !v.IsSet("cities") {
		data.Cities = def.Cities
	}

	return data, nil
}
