package utils

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"

	"lazytravel/internal/models/response_models"
)

// GeminiPlannerClient implements PlannerAIInterface using Google's Gemini models
type GeminiPlannerClient struct {
	client *genai.Client
	model  string
}

// NewGeminiPlannerClient creates a new Gemini client
func NewGeminiPlannerClient(apiKey, model string) (PlannerAIInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiPlannerClient{
		client: client,
		model:  model,
	}, nil
}

// generateJSON runs one generation call configured for JSON-only output and
// returns the cleaned response body.
func (c *GeminiPlannerClient) generateJSON(ctx context.Context, parts ...genai.Part) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)
	m.SetTopP(0.5)
	m.SetTopK(20)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := m.GenerateContent(ctxWithTimeout, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content generated")
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	content = cleanJSONResponse(content)
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("gemini: response is not valid JSON")
	}
	return content, nil
}

// cleanJSONResponse strips markdown fences the model sometimes wraps the
// payload in despite the JSON MIME type.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// extractedItem mirrors the extraction schema. Every enrichment field is
// optional; only placeName, category and city are required for an item to be
// kept.
type extractedItem struct {
	ID              string   `json:"id"`
	PlaceName       string   `json:"placeName"`
	Category        string   `json:"category"`
	City            string   `json:"city"`
	OriginalContext string   `json:"originalContext"`
	Rating          *float64 `json:"rating"`
	Description     string   `json:"description"`
	WebsiteURL      string   `json:"websiteUrl"`
	Address         string   `json:"address"`
	Cost            *float64 `json:"cost"`
	Currency        string   `json:"currency"`
	DayNumber       int      `json:"dayNumber"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
}

const extractionSchema = `
{
  "items": [
    {
      "placeName": "string (required)",
      "category": "string (required, e.g. Restaurant, Hotel, Sightseeing, Shopping)",
      "city": "string (required)",
      "originalContext": "string",
      "rating": 4.5,
      "description": "one sentence summary",
      "websiteUrl": "official website or Maps link",
      "address": "physical address",
      "cost": 12.5,
      "currency": "local currency code",
      "dayNumber": 1,
      "lat": 48.8584,
      "lng": 2.2945
    }
  ]
}`

func (c *GeminiPlannerClient) ExtractFromText(ctx context.Context, text string) ([]response_models.TripItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	prompt := fmt.Sprintf(`Extract travel stops from these notes. Verify place names and coordinates.
Return JSON only, matching this schema exactly:
%s

Notes: %s`, extractionSchema, text)

	raw, err := c.generateJSON(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}
	return parseExtractedItems(raw)
}

func (c *GeminiPlannerClient) ExtractFromImage(ctx context.Context, base64Image string) ([]response_models.TripItem, error) {
	data, err := base64.StdEncoding.DecodeString(base64Image)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	prompt := fmt.Sprintf(`Extract travel stops from this screenshot. Verify names and coordinates.
Return JSON only, matching this schema exactly:
%s`, extractionSchema)

	raw, err := c.generateJSON(ctx,
		genai.ImageData("jpeg", data),
		genai.Text(prompt),
	)
	if err != nil {
		return nil, err
	}
	return parseExtractedItems(raw)
}

// parseExtractedItems converts the oracle payload into TripItems. Items are
// trusted or discarded whole: an entry missing a required field is dropped,
// never partially merged.
func parseExtractedItems(raw string) ([]response_models.TripItem, error) {
	var payload struct {
		Items []extractedItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	items := make([]response_models.TripItem, 0, len(payload.Items))
	for _, e := range payload.Items {
		if e.PlaceName == "" || e.City == "" {
			continue
		}
		items = append(items, extractedToTripItem(e))
	}
	return items, nil
}

func extractedToTripItem(e extractedItem) response_models.TripItem {
	item := response_models.TripItem{
		ID:              e.ID,
		PlaceName:       e.PlaceName,
		Category:        e.Category,
		City:            e.City,
		OriginalContext: e.OriginalContext,
		Rating:          e.Rating,
		Description:     e.Description,
		WebsiteURL:      e.WebsiteURL,
		Address:         e.Address,
		Cost:            e.Cost,
		Currency:        e.Currency,
		DayNumber:       e.DayNumber,
		IsVerified:      true,
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	// Coordinates are all-or-nothing.
	if e.Lat != nil && e.Lng != nil {
		item.Lat = e.Lat
		item.Lng = e.Lng
	}
	return item
}

func (c *GeminiPlannerClient) IdentifyLandmark(ctx context.Context, base64Image string) (*response_models.TripItem, error) {
	data, err := base64.StdEncoding.DecodeString(base64Image)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	prompt := `Identify this landmark or place. Return JSON only:
{"item": {"placeName": "string", "category": "string", "city": "string", "description": "string", "rating": 4.5, "lat": 0.0, "lng": 0.0}}
If you cannot identify it, return {"item": null}.`

	raw, err := c.generateJSON(ctx,
		genai.ImageData("jpeg", data),
		genai.Text(prompt),
	)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Item *extractedItem `json:"item"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse landmark response: %w", err)
	}
	if payload.Item == nil || payload.Item.PlaceName == "" || payload.Item.City == "" {
		return nil, nil
	}

	item := extractedToTripItem(*payload.Item)
	item.OriginalContext = "AR Scan"
	return &item, nil
}

func (c *GeminiPlannerClient) OptimizeRoute(ctx context.Context, points []SequencePoint) (SequenceResult, error) {
	if len(points) == 0 {
		return SequenceResult{}, fmt.Errorf("no points to optimize")
	}

	body, err := json.Marshal(points)
	if err != nil {
		return SequenceResult{}, err
	}

	prompt := fmt.Sprintf(`Optimize this travel itinerary for the best route and group into days.
Consider:
- Logical order (breakfast, sightseeing, lunch, museum, dinner)
- Minimize backtracking
- Group 8-10 stops per day
- Keep nearby places together

Stops: %s

Return JSON only:
{"optimizedOrder": [0, 2, 1], "dayGrouping": {"1": [0, 2], "2": [1]}}
where every integer is an index from the stop list above.`, string(body))

	raw, err := c.generateJSON(ctx, genai.Text(prompt))
	if err != nil {
		return SequenceResult{}, err
	}
	return parseSequenceResult(raw)
}

// parseSequenceResult tolerates partially-filled responses: either field may
// be absent or empty, and day keys arrive as JSON strings.
func parseSequenceResult(raw string) (SequenceResult, error) {
	var payload struct {
		OptimizedOrder []int            `json:"optimizedOrder"`
		DayGrouping    map[string][]int `json:"dayGrouping"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return SequenceResult{}, fmt.Errorf("parse sequence response: %w", err)
	}

	result := SequenceResult{OptimizedOrder: payload.OptimizedOrder}
	if len(payload.DayGrouping) > 0 {
		result.DayGrouping = make(map[int][]int, len(payload.DayGrouping))
		for key, indices := range payload.DayGrouping {
			day, err := strconv.Atoi(key)
			if err != nil || day < 1 {
				continue
			}
			result.DayGrouping[day] = indices
		}
	}
	return result, nil
}

func (c *GeminiPlannerClient) TravelEstimates(ctx context.Context, legs []TravelLeg) ([]string, error) {
	if len(legs) < 2 {
		return []string{}, nil
	}

	names := make([]string, 0, len(legs))
	for _, leg := range legs {
		names = append(names, fmt.Sprintf("%s, %s", leg.PlaceName, leg.City))
	}
	body, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Give short travel estimates between consecutive places in this ordered list: %s
Return JSON only: {"estimates": ["12 min walk", "8 min taxi"]}
The estimates array must have exactly %d entries, one per gap.`, string(body), len(legs)-1)

	raw, err := c.generateJSON(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Estimates []string `json:"estimates"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse estimates response: %w", err)
	}
	return payload.Estimates, nil
}

func (c *GeminiPlannerClient) WeatherForecast(ctx context.Context, cities []string) (map[string]string, error) {
	if len(cities) == 0 {
		return map[string]string{}, nil
	}

	prompt := fmt.Sprintf(`What is the typical or current weather (temp and condition) for these cities: %s?
Keep each very short like '22C, Sunny'. Return JSON only:
{"forecasts": [{"city": "Paris", "weather": "22C, Sunny"}]}`, strings.Join(cities, ", "))

	raw, err := c.generateJSON(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Forecasts []struct {
			City    string `json:"city"`
			Weather string `json:"weather"`
		} `json:"forecasts"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse weather response: %w", err)
	}

	out := make(map[string]string, len(payload.Forecasts))
	for _, f := range payload.Forecasts {
		if f.City != "" {
			out[f.City] = f.Weather
		}
	}
	return out, nil
}

// GetEmbedding generates a simple vector embedding for text
// Note: This is a fallback since Gemini free tier doesn't have dedicated embeddings
func (c *GeminiPlannerClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return c.textToVector(text), nil
}

// textToVector creates a simple hash-based vector representation of text.
// For production use, consider a dedicated embedding model.
func (c *GeminiPlannerClient) textToVector(text string) pgvector.Vector {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)

	const dimensions = 1536
	vector := make([]float32, dimensions)

	for _, word := range words {
		hash := c.hashWord(word)
		for i := 0; i < dimensions; i++ {
			influence := math.Sin(float64(hash+uint32(i))) * 0.1
			vector[i] += float32(influence)
		}
	}

	magnitude := float32(0)
	for _, val := range vector {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}

	return pgvector.NewVector(vector)
}

func (c *GeminiPlannerClient) hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}

// Close closes the Gemini client
func (c *GeminiPlannerClient) Close() error {
	return c.client.Close()
}
