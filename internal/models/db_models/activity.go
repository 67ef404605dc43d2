package db_models

import "github.com/google/uuid"

// Activity is the persisted form of one itinerary stop. Day membership and
// position are carried by DayID plus OrderIndex; everything else is metadata
// the extraction oracle or the user filled in.
type Activity struct {
	BaseModel
	DayID      uuid.UUID `gorm:"type:uuid;index"`
	OrderIndex int

	PlaceName string
	Category  string
	City      string
	Lat       *float64
	Lng       *float64

	Address         string
	Description     string
	WebsiteURL      string
	ImageURL        string
	Rating          *float64
	Cost            *float64
	Currency        string
	TravelTimeNext  string
	Source          string
	OriginalContext string
	IsVerified      bool
}
