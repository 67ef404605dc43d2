package response_models

// TripItem is the canonical stop shape the itinerary core operates on and the
// API emits. Operations always build new TripItem values and new slices
// instead of mutating shared ones, so a slow asynchronous completion can
// never tear state a concurrent reader already holds.
type TripItem struct {
	ID              string   `json:"id"`
	PlaceName       string   `json:"place_name"`
	Category        string   `json:"category"`
	City            string   `json:"city"`
	OriginalContext string   `json:"original_context,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	Description     string   `json:"description,omitempty"`
	WebsiteURL      string   `json:"website_url,omitempty"`
	Address         string   `json:"address,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	IsVerified      bool     `json:"is_verified"`
	// Source records how the stop entered the trip: "text", "image", "ar"
	// or "manual".
	Source string `json:"source,omitempty"`
	// DayNumber 0 means "unassigned" and is treated as day 1 when grouping.
	DayNumber int      `json:"day_number,omitempty"`
	Cost      *float64 `json:"cost,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	// Lat and Lng are either both set or both nil.
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
	// TravelTimeNext labels the edge to the next stop within the same day,
	// e.g. "15 min walk". Meaningless (and kept empty) on a day's last stop.
	TravelTimeNext string `json:"travel_time_next,omitempty"`
}

// EffectiveDay normalizes the "unassigned" zero value to day 1.
func (t TripItem) EffectiveDay() int {
	if t.DayNumber <= 0 {
		return 1
	}
	return t.DayNumber
}

// HasCoordinates reports whether the item carries a geographic position.
func (t TripItem) HasCoordinates() bool {
	return t.Lat != nil && t.Lng != nil
}

// DayGroup is a derived grouping of a trip's stops by day number, ordered by
// order index within the day. It is never persisted as its own record.
type DayGroup struct {
	DayNumber int        `json:"day_number"`
	Items     []TripItem `json:"items"`
}

// ClusterType tags a ClusterResult with the distance tier its stops fell in.
type ClusterType string

const (
	ClusterWalking ClusterType = "walking"
	ClusterTransit ClusterType = "transit"
	ClusterDayTrip ClusterType = "day_trip"
)

// ClusterResult is the ephemeral output of hotel-anchor clustering. It is
// recomputed from current distances on every request and only exists to
// drive day assignment.
type ClusterResult struct {
	DayNumber   int         `json:"day_number"`
	Items       []TripItem  `json:"items"`
	ClusterType ClusterType `json:"cluster_type"`
}
