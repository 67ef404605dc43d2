package request_models

import "lazytravel/internal/models/response_models"

type SaveTripRequest struct {
	Title string                     `json:"title" binding:"required"`
	Items []response_models.TripItem `json:"items" binding:"required"`
}

// Lat and Lng are pointers so a zero coordinate still binds.
type SetHotelAnchorRequest struct {
	HotelName string   `json:"hotel_name" binding:"required"`
	Lat       *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng       *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
}
