// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/vakit-app/vakit/internal/model"
)

type Store interface {
	// city catalog
	ListCities() ([]model.City, error)
	GetCityByName(name string) (*model.City, error)
	NearestCity(lat, lng float64) (*model.City, error)

	// device functions
	CreateDevice() (*model.Device, error)
	GetDeviceByID(id int) (*model.Device, error)
	GetDevicePreferences(deviceID int) (*model.Preferences, error)
	UpdateDevicePreferences(deviceID int, prefs model.Preferences) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
