package request_models

type SimilarStopsRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}
