package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lazytravel/internal/models/response_models"
	"lazytravel/pkg/utils"
)

func TestExtractFromTextRejectsBlankInput(t *testing.T) {
	svc := NewExtractionService(&stubPlannerAI{})

	_, err := svc.ExtractFromText(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestExtractFromTextMapsOracleFailure(t *testing.T) {
	svc := NewExtractionService(&stubPlannerAI{
		extractTextFn: func(ctx context.Context, text string) ([]response_models.TripItem, error) {
			return nil, errors.New("malformed json")
		},
	})

	_, err := svc.ExtractFromText(context.Background(), "three days in Lisbon")
	assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)
}

func TestExtractFromTextEmptyResultIsPoorQuality(t *testing.T) {
	svc := NewExtractionService(&stubPlannerAI{
		extractTextFn: func(ctx context.Context, text string) ([]response_models.TripItem, error) {
			return nil, nil
		},
	})

	_, err := svc.ExtractFromText(context.Background(), "asdf qwerty")
	assert.ErrorIs(t, err, utils.ErrPoorQualityInput)
}

func TestExtractFromTextPassesThroughItems(t *testing.T) {
	want := []response_models.TripItem{makeStop("a", "Lisbon", 0)}
	svc := NewExtractionService(&stubPlannerAI{
		extractTextFn: func(ctx context.Context, text string) ([]response_models.TripItem, error) {
			return want, nil
		},
	})

	got, err := svc.ExtractFromText(context.Background(), "Belem tower, then Alfama")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "text", got[0].Source, "extracted stops are tagged with their origin")
}

func TestExtractFromImageEmptyResultIsPoorQuality(t *testing.T) {
	svc := NewExtractionService(&stubPlannerAI{
		extractImageFn: func(ctx context.Context, base64Image string) ([]response_models.TripItem, error) {
			return []response_models.TripItem{}, nil
		},
	})

	_, err := svc.ExtractFromImage(context.Background(), "aGVsbG8=")
	assert.ErrorIs(t, err, utils.ErrPoorQualityInput)
}

func TestIdentifyLandmarkUnrecognizedIsNotAnError(t *testing.T) {
	svc := NewExtractionService(&stubPlannerAI{
		identifyFn: func(ctx context.Context, base64Image string) (*response_models.TripItem, error) {
			return nil, nil
		},
	})

	item, err := svc.IdentifyLandmark(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	assert.Nil(t, item)
}
