package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vakit-app/vakit/internal/model"
)

func (s *pgStore) ListCities() ([]model.City, error) {
	var cities []model.City
	if err := s.db.Select(&cities, `SELECT id, name, lat, lng FROM cities ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

func (s *pgStore) GetCityByName(name string) (*model.City, error) {
	var city model.City
	err := s.db.Get(&city, `SELECT id, name, lat, lng FROM cities WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("city %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}
	return &city, nil
}

// NearestCity picks the catalog city closest to the given coordinates.
// Plain squared-degree distance is good enough at city granularity.
func (s *pgStore) NearestCity(lat, lng float64) (*model.City, error) {
	var city model.City
	err := s.db.Get(&city, `
		SELECT id, name, lat, lng FROM cities
		ORDER BY power(lat - $1, 2) + power(lng - $2, 2)
		LIMIT 1`, lat, lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("city catalog is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("nearest city: %w", err)
	}
	return &city, nil
}
