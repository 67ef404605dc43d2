package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	dbm "lazytravel/internal/models/db_models"
	"lazytravel/internal/models/response_models"
	"lazytravel/internal/repositories"
	"lazytravel/pkg/utils"
)

const defaultSimilarLimit = 10

type DiscoverServiceInterface interface {
	// IndexStop embeds a stop's text and stores the vector for similarity
	// search. Re-indexing an already indexed stop replaces its vector.
	IndexStop(ctx context.Context, item response_models.TripItem) error
	// SimilarStops finds indexed stops semantically close to the query.
	SimilarStops(ctx context.Context, query string, limit int) ([]response_models.SimilarStop, error)
	RemoveStop(ctx context.Context, stopID string) error
}

type DiscoverService struct {
	ai            utils.PlannerAIInterface
	embeddingRepo repositories.IStopEmbeddingRepository
}

func NewDiscoverService(ai utils.PlannerAIInterface, embeddingRepo repositories.IStopEmbeddingRepository) DiscoverServiceInterface {
	return &DiscoverService{ai: ai, embeddingRepo: embeddingRepo}
}

func (s *DiscoverService) IndexStop(ctx context.Context, item response_models.TripItem) error {
	if item.ID == "" || item.PlaceName == "" {
		return fmt.Errorf("%w: stop id and place name are required", utils.ErrInvalidInput)
	}

	text := embeddingText(item)
	vector, err := s.ai.GetEmbedding(ctx, text)
	if err != nil {
		log.Printf("embedding for stop %s failed: %v", item.ID, err)
		return fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	record := dbm.StopEmbedding{
		StopID:      item.ID,
		PlaceName:   item.PlaceName,
		Description: item.Description,
		City:        item.City,
		Tags:        []string{item.Category, item.City},
		Embedding:   vector,
	}
	if err := s.embeddingRepo.UpsertStopEmbedding(record); err != nil {
		log.Printf("failed to store embedding for stop %s: %v", item.ID, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *DiscoverService) SimilarStops(ctx context.Context, query string, limit int) ([]response_models.SimilarStop, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", utils.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}

	vector, err := s.ai.GetEmbedding(ctx, query)
	if err != nil {
		log.Printf("query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	scored, err := s.embeddingRepo.GetSimilarStopsByVector(vector, limit)
	if err != nil {
		log.Printf("similarity search failed: %v", err)
		return nil, utils.ErrDatabaseError
	}

	results := make([]response_models.SimilarStop, 0, len(scored))
	for _, hit := range scored {
		results = append(results, response_models.SimilarStop{
			StopID:      hit.StopID,
			PlaceName:   hit.PlaceName,
			City:        hit.City,
			Description: hit.Description,
			Tags:        hit.Tags,
			Similarity:  hit.Similarity,
		})
	}
	return results, nil
}

func (s *DiscoverService) RemoveStop(ctx context.Context, stopID string) error {
	if stopID == "" {
		return fmt.Errorf("%w: empty stop id", utils.ErrInvalidInput)
	}
	if err := s.embeddingRepo.DeleteStopEmbedding(stopID); err != nil {
		log.Printf("failed to delete embedding for stop %s: %v", stopID, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func embeddingText(item response_models.TripItem) string {
	parts := []string{item.PlaceName, item.Category, item.City, item.Description}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ". ")
}
