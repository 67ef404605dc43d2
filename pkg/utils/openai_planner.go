package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"

	"lazytravel/internal/models/response_models"
)

// OpenAIPlannerClient implements PlannerAIInterface on the OpenAI chat and
// embeddings APIs. Alternate provider to Gemini, selected by configuration.
type OpenAIPlannerClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIPlannerClient(apiKey, model string) *OpenAIPlannerClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIPlannerClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIPlannerClient) completeJSON(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no content generated")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("openai: response is not valid JSON")
	}
	return content, nil
}

func textMessages(prompt string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
}

func imageMessages(base64Image, prompt string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: "data:image/jpeg;base64," + base64Image,
					},
				},
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
			},
		},
	}
}

func (c *OpenAIPlannerClient) ExtractFromText(ctx context.Context, text string) ([]response_models.TripItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	prompt := fmt.Sprintf(`Extract travel stops from these notes.
Return JSON only, matching this schema exactly:
%s

Notes: %s`, extractionSchema, text)

	raw, err := c.completeJSON(ctx, textMessages(prompt))
	if err != nil {
		return nil, err
	}
	return parseExtractedItems(raw)
}

func (c *OpenAIPlannerClient) ExtractFromImage(ctx context.Context, base64Image string) ([]response_models.TripItem, error) {
	prompt := fmt.Sprintf(`Extract travel stops from this screenshot.
Return JSON only, matching this schema exactly:
%s`, extractionSchema)

	raw, err := c.completeJSON(ctx, imageMessages(base64Image, prompt))
	if err != nil {
		return nil, err
	}
	return parseExtractedItems(raw)
}

func (c *OpenAIPlannerClient) IdentifyLandmark(ctx context.Context, base64Image string) (*response_models.TripItem, error) {
	prompt := `Identify this landmark or place. Return JSON only:
{"item": {"placeName": "string", "category": "string", "city": "string", "description": "string", "rating": 4.5, "lat": 0.0, "lng": 0.0}}
If you cannot identify it, return {"item": null}.`

	raw, err := c.completeJSON(ctx, imageMessages(base64Image, prompt))
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

func (c *OpenAIPlannerClient) OptimizeRoute(ctx context.Context, points []SequencePoint) (SequenceResult, error) {
	if len(points) == 0 {
		return SequenceResult{}, fmt.Errorf("no points to optimize")
	}

	body, err := json.Marshal(points)
	if err != nil {
		return SequenceResult{}, err
	}

	prompt := fmt.Sprintf(`Optimize this travel itinerary for the best route and group into days.
Minimize backtracking, keep nearby places together, 8-10 stops per day.

Stops: %s

Return JSON only:
{"optimizedOrder": [0, 2, 1], "dayGrouping": {"1": [0, 2], "2": [1]}}
where every integer is an index from the stop list above.`, string(body))

	raw, err := c.completeJSON(ctx, textMessages(prompt))
	if err != nil {
		return SequenceResult{}, err
	}
	return parseSequenceResult(raw)
}

func (c *OpenAIPlannerClient) TravelEstimates(ctx context.Context, legs []TravelLeg) ([]string, error) {
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

	raw, err := c.completeJSON(ctx, textMessages(prompt))
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

func (c *OpenAIPlannerClient) WeatherForecast(ctx context.Context, cities []string) (map[string]string, error) {
	if len(cities) == 0 {
		return map[string]string{}, nil
	}

	prompt := fmt.Sprintf(`What is the typical or current weather (temp and condition) for these cities: %s?
Keep each very short like '22C, Sunny'. Return JSON only:
{"forecasts": [{"city": "Paris", "weather": "22C, Sunny"}]}`, strings.Join(cities, ", "))

	raw, err := c.completeJSON(ctx, textMessages(prompt))
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

func (c *OpenAIPlannerClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: empty response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

func (c *OpenAIPlannerClient) Close() error { return nil }
