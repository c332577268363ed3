package workday

import (
	"strings"

	"github.com/wurt83ow/worktravel/internal/models"
)

// Directory resolves a city name into its travel parameters.
type Directory interface {
	LookupCity(name string) (models.City, bool)
}

// Cities is an in-process Directory built from a slice of entries.
type Cities map[string]models.City

func NewCities(entries []models.City) Cities {
	c := make(Cities, len(entries))
	for _, e := range entries {
		c[e.Name] = e
	}

	return c
}

// LookupCity matches the exact name first, then ignores case.
func (c Cities) LookupCity(name string) (models.City, bool) {
	if city, ok := c[name]; ok {
		return city, true
	}

	name = strings.TrimSpace(name)
	for k, city := range c {
		if strings.EqualFold(k, name) {
			return city, true
		}
	}

	return models.City{}, false
}
