package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Trip struct {
	BaseModel
	Title string
	// City is the first city seen in the itinerary; Cities holds the full
	// derived set. Both are recomputed from stops on save, never edited
	// directly.
	City        string
	Cities      pq.StringArray `gorm:"type:text[]"`
	TotalBudget *float64
	Currency    string
	HotelName   string
	HotelLat    *float64
	HotelLng    *float64
	ShareToken  string `gorm:"uniqueIndex"`
	IsPublic    bool

	Days []TripDay
}

type TripDay struct {
	BaseModel
	TripID    uuid.UUID `gorm:"type:uuid;index"`
	DayNumber int

	Activities []Activity `gorm:"foreignKey:DayID"`
}
