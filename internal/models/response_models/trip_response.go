package response_models

type TripSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Cities        []string `json:"cities"`
	TotalBudget   *float64 `json:"total_budget,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	ActivityCount int      `json:"activity_count"`
	CreatedAt     int64    `json:"created_at"`
}

type TripDetailResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	City        string     `json:"city"`
	Cities      []string   `json:"cities"`
	TotalBudget *float64   `json:"total_budget,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	HotelName   string     `json:"hotel_name,omitempty"`
	HotelLat    *float64   `json:"hotel_lat,omitempty"`
	HotelLng    *float64   `json:"hotel_lng,omitempty"`
	IsPublic    bool       `json:"is_public"`
	ShareToken  string     `json:"share_token,omitempty"`
	Days        []DayGroup `json:"days"`
}

type SimilarStop struct {
	StopID      string   `json:"stop_id"`
	PlaceName   string   `json:"place_name"`
	City        string   `json:"city"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Similarity  float64  `json:"similarity"`
}
