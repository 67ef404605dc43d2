package request_models

type OptimizeRouteRequest struct {
	TripID string `json:"trip_id" binding:"required,uuid4"`
}

type ReorderDayRequest struct {
	TripID    string `json:"trip_id" binding:"required,uuid4"`
	DayNumber int    `json:"day_number" binding:"required,min=1"`
	// StopIDs is the full id sequence of the day after the drag, in the new
	// visual order.
	StopIDs []string `json:"stop_ids" binding:"required"`
}

type ApplyClusteringRequest struct {
	TripID string `json:"trip_id" binding:"required,uuid4"`
}
