package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lazytravel/internal/models/response_models"
	"lazytravel/pkg/utils"
)

type ExtractionServiceInterface interface {
	// ExtractFromText pulls structured stops out of free-form travel notes
	// or a pasted social post.
	ExtractFromText(ctx context.Context, text string) ([]response_models.TripItem, error)
	// ExtractFromImage pulls stops out of a screenshot, e.g. a saved map or
	// a social-app share card.
	ExtractFromImage(ctx context.Context, base64Image string) ([]response_models.TripItem, error)
	// IdentifyLandmark names the landmark in a camera frame. Returns
	// (nil, nil) when nothing recognizable is in view.
	IdentifyLandmark(ctx context.Context, base64Image string) (*response_models.TripItem, error)
}

type ExtractionService struct {
	ai utils.PlannerAIInterface
}

func NewExtractionService(ai utils.PlannerAIInterface) ExtractionServiceInterface {
	return &ExtractionService{ai: ai}
}

func (s *ExtractionService) ExtractFromText(ctx context.Context, text string) ([]response_models.TripItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", utils.ErrInvalidInput)
	}

	items, err := s.ai.ExtractFromText(ctx, text)
	if err != nil {
		log.Printf("text extraction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}
	if len(items) == 0 {
		return nil, utils.ErrPoorQualityInput
	}
	return tagSource(items, "text"), nil
}

func (s *ExtractionService) ExtractFromImage(ctx context.Context, base64Image string) ([]response_models.TripItem, error) {
	if base64Image == "" {
		return nil, fmt.Errorf("%w: empty image", utils.ErrInvalidInput)
	}

	items, err := s.ai.ExtractFromImage(ctx, base64Image)
	if err != nil {
		log.Printf("image extraction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}
	if len(items) == 0 {
		return nil, utils.ErrPoorQualityInput
	}
	return tagSource(items, "image"), nil
}

func (s *ExtractionService) IdentifyLandmark(ctx context.Context, base64Image string) (*response_models.TripItem, error) {
	if base64Image == "" {
		return nil, fmt.Errorf("%w: empty image", utils.ErrInvalidInput)
	}

	item, err := s.ai.IdentifyLandmark(ctx, base64Image)
	if err != nil {
		log.Printf("landmark identification failed: %v", err)
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}
	if item != nil {
		item.Source = "ar"
	}
	return item, nil
}

func tagSource(items []response_models.TripItem, source string) []response_models.TripItem {
	for i := range items {
		if items[i].Source == "" {
			items[i].Source = source
		}
	}
	return items
}
