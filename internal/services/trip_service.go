package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	dbm "lazytravel/internal/models/db_models"
	"lazytravel/internal/models/request_models"
	"lazytravel/internal/models/response_models"
	"lazytravel/internal/repositories"
	"lazytravel/pkg/utils"
)

type TripServiceInterface interface {
	SaveTrip(ctx context.Context, req request_models.SaveTripRequest) (*response_models.TripDetailResponse, error)
	GetTrip(ctx context.Context, tripID string) (*response_models.TripDetailResponse, error)
	GetSharedTrip(ctx context.Context, shareToken string) (*response_models.TripDetailResponse, error)
	ListTrips(ctx context.Context, page, pageSize int) ([]response_models.TripSummary, error)
	DeleteTrip(ctx context.Context, tripID string) error
	// ShareTrip marks the trip public and returns its share token.
	ShareTrip(ctx context.Context, tripID string) (string, error)
	SetHotelAnchor(ctx context.Context, tripID string, req request_models.SetHotelAnchorRequest) error
	DeleteStop(ctx context.Context, tripID, stopID string) error
}

type TripService struct {
	tripRepo repositories.TripRepository
	sessions SessionInvalidator
}

// NewTripService builds the CRUD service. sessions may be nil when no
// in-memory working sets exist to keep consistent.
func NewTripService(tripRepo repositories.TripRepository, sessions SessionInvalidator) TripServiceInterface {
	return &TripService{tripRepo: tripRepo, sessions: sessions}
}

func (s *TripService) invalidateSession(tripID string) {
	if s.sessions != nil {
		s.sessions.InvalidateTrip(tripID)
	}
}

func (s *TripService) SaveTrip(ctx context.Context, req request_models.SaveTripRequest) (*response_models.TripDetailResponse, error) {
	if req.Title == "" || len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: title and items are required", utils.ErrInvalidInput)
	}

	trip := &dbm.Trip{
		Title:      req.Title,
		ShareToken: uuid.NewString(),
	}
	tripID, err := s.tripRepo.CreateTrip(ctx, trip)
	if err != nil {
		log.Printf("failed to create trip: %v", err)
		return nil, utils.ErrDatabaseError
	}

	if err := s.tripRepo.ReplaceMaterializedItinerary(ctx, tripID.String(), req.Items); err != nil {
		log.Printf("failed to materialize itinerary for trip %s: %v", tripID, err)
		return nil, utils.ErrDatabaseError
	}

	return s.GetTrip(ctx, tripID.String())
}

func (s *TripService) GetTrip(ctx context.Context, tripID string) (*response_models.TripDetailResponse, error) {
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		log.Printf("failed to load trip %s: %v", tripID, err)
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return dbm.BuildTripDetailResponse(trip), nil
}

func (s *TripService) GetSharedTrip(ctx context.Context, shareToken string) (*response_models.TripDetailResponse, error) {
	trip, err := s.tripRepo.GetTripByShareToken(ctx, shareToken)
	if err != nil {
		log.Printf("failed to load shared trip: %v", err)
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return dbm.BuildTripDetailResponse(trip), nil
}

func (s *TripService) ListTrips(ctx context.Context, page, pageSize int) ([]response_models.TripSummary, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	trips, err := s.tripRepo.ListTrips(ctx, page, pageSize)
	if err != nil {
		log.Printf("failed to list trips: %v", err)
		return nil, utils.ErrDatabaseError
	}

	summaries := make([]response_models.TripSummary, 0, len(trips))
	for _, trip := range trips {
		count := 0
		for _, day := range trip.Days {
			count += len(day.Activities)
		}
		summaries = append(summaries, response_models.TripSummary{
			ID:            trip.ID.String(),
			Title:         trip.Title,
			Cities:        trip.Cities,
			TotalBudget:   trip.TotalBudget,
			Currency:      trip.Currency,
			ActivityCount: count,
			CreatedAt:     trip.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		log.Printf("failed to load trip %s: %v", tripID, err)
		return utils.ErrDatabaseError
	}
	if trip == nil {
		return utils.ErrTripNotFound
	}

	if err := s.tripRepo.DeleteTrip(ctx, tripID); err != nil {
		log.Printf("failed to delete trip %s: %v", tripID, err)
		return utils.ErrDatabaseError
	}
	// An open session would resurrect the trip on its next flush.
	s.invalidateSession(tripID)
	return nil
}

func (s *TripService) ShareTrip(ctx context.Context, tripID string) (string, error) {
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		log.Printf("failed to load trip %s: %v", tripID, err)
		return "", utils.ErrDatabaseError
	}
	if trip == nil {
		return "", utils.ErrTripNotFound
	}

	if err := s.tripRepo.PublishTrip(ctx, tripID); err != nil {
		log.Printf("failed to publish trip %s: %v", tripID, err)
		return "", utils.ErrDatabaseError
	}
	return trip.ShareToken, nil
}

func (s *TripService) SetHotelAnchor(ctx context.Context, tripID string, req request_models.SetHotelAnchorRequest) error {
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		log.Printf("failed to load trip %s: %v", tripID, err)
		return utils.ErrDatabaseError
	}
	if trip == nil {
		return utils.ErrTripNotFound
	}

	if req.HotelName == "" || req.Lat == nil || req.Lng == nil {
		return fmt.Errorf("%w: hotel name and coordinates are required", utils.ErrInvalidInput)
	}

	if err := s.tripRepo.SetHotelAnchor(ctx, tripID, req.HotelName, *req.Lat, *req.Lng); err != nil {
		log.Printf("failed to set hotel anchor on trip %s: %v", tripID, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *TripService) DeleteStop(ctx context.Context, tripID, stopID string) error {
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		log.Printf("failed to load trip %s: %v", tripID, err)
		return utils.ErrDatabaseError
	}
	if trip == nil {
		return utils.ErrTripNotFound
	}

	found := false
	for _, day := range trip.Days {
		for _, activity := range day.Activities {
			if activity.ID.String() == stopID {
				found = true
				break
			}
		}
	}
	if !found {
		return utils.ErrStopNotFound
	}

	if err := s.tripRepo.DeleteStop(ctx, stopID); err != nil {
		log.Printf("failed to delete stop %s: %v", stopID, err)
		return utils.ErrDatabaseError
	}
	s.invalidateSession(tripID)
	return nil
}
