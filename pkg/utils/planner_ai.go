package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"lazytravel/internal/models/response_models"
)

// SequencePoint is one stop in a sequencing request. Index identifies the
// stop in the request list; the oracle answers in terms of these indices.
type SequencePoint struct {
	Index     int      `json:"index"`
	PlaceName string   `json:"placeName"`
	City      string   `json:"city"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
}

// SequenceResult is the sequencing oracle's answer. Both fields are optional
// and may be partially populated; callers must treat missing entries as "no
// preference" rather than failing.
type SequenceResult struct {
	OptimizedOrder []int         `json:"optimizedOrder"`
	DayGrouping    map[int][]int `json:"dayGrouping"`
}

// TravelLeg names one endpoint of a travel-estimate request. Coordinates are
// optional; providers that need them fall back to an empty label.
type TravelLeg struct {
	PlaceName string
	City      string
	Lat       *float64
	Lng       *float64
}

// PlannerAIInterface is the contract with the generative-AI collaborators:
// extraction, sequencing, travel estimation, weather, and embeddings.
type PlannerAIInterface interface {
	// ExtractFromText pulls travel stops out of free-form notes.
	ExtractFromText(ctx context.Context, text string) ([]response_models.TripItem, error)
	// ExtractFromImage pulls travel stops out of a base64 JPEG screenshot.
	ExtractFromImage(ctx context.Context, base64Image string) ([]response_models.TripItem, error)
	// IdentifyLandmark names the landmark in a base64 JPEG camera capture.
	// Returns (nil, nil) when nothing was recognized.
	IdentifyLandmark(ctx context.Context, base64Image string) (*response_models.TripItem, error)
	// OptimizeRoute asks for a reordering and day grouping of the given stops.
	OptimizeRoute(ctx context.Context, points []SequencePoint) (SequenceResult, error)
	// TravelEstimates returns len(legs)-1 labels, index-aligned to the gaps
	// between consecutive legs.
	TravelEstimates(ctx context.Context, legs []TravelLeg) ([]string, error)
	// WeatherForecast returns a short weather label per city.
	WeatherForecast(ctx context.Context, cities []string) (map[string]string, error)
	// GetEmbedding produces a vector for similarity search over saved stops.
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	Close() error
}

// NewPlannerAIClient builds a planner client for the configured provider.
func NewPlannerAIClient(provider, apiKey, model string) (PlannerAIInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIPlannerClient(apiKey, model), nil
	case "gemini":
		return NewGeminiPlannerClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s. Use 'openai' or 'gemini'", provider)
	}
}
