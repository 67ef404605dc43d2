package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"lazytravel/internal/models/response_models"
	"lazytravel/internal/repositories"
	"lazytravel/pkg/utils"
)

// Distance thresholds from the hotel anchor, in meters.
const (
	walkingRadiusMeters = 2000.0
	transitRadiusMeters = 10000.0
)

// clusterDayCapacity bounds how many stops the hotel-anchor clustering puts
// in one day.
const clusterDayCapacity = 10

// TierForDistance buckets a distance from the anchor into a tier.
func TierForDistance(meters float64) response_models.ClusterType {
	switch {
	case meters < walkingRadiusMeters:
		return response_models.ClusterWalking
	case meters < transitRadiusMeters:
		return response_models.ClusterTransit
	default:
		return response_models.ClusterDayTrip
	}
}

// ClassifyStop assigns a stop to a distance tier relative to the anchor.
// A stop without coordinates, or a missing anchor, counts as distance 0 so
// unlocated stops land in the walking tier instead of being stranded in the
// farthest one.
func ClassifyStop(item response_models.TripItem, anchorLat, anchorLng *float64) response_models.ClusterType {
	distance := 0.0
	if item.HasCoordinates() && anchorLat != nil && anchorLng != nil {
		distance = utils.HaversineMeters(*item.Lat, *item.Lng, *anchorLat, *anchorLng)
	}
	return TierForDistance(distance)
}

// PackIntoDays slices the stops into contiguous chunks of at most capacity,
// preserving input order, assigning day numbers sequentially from firstDay.
// Each returned item is a copy carrying its new day number. Empty input
// yields no groups. A non-positive capacity is a programmer error.
func PackIntoDays(items []response_models.TripItem, capacity, firstDay int) []response_models.DayGroup {
	if capacity <= 0 {
		panic(fmt.Sprintf("PackIntoDays: capacity must be positive, got %d", capacity))
	}
	if firstDay < 1 {
		firstDay = 1
	}

	var groups []response_models.DayGroup
	day := firstDay
	for start := 0; start < len(items); start += capacity {
		end := start + capacity
		if end > len(items) {
			end = len(items)
		}

		chunk := make([]response_models.TripItem, 0, end-start)
		for _, item := range items[start:end] {
			item.DayNumber = day
			chunk = append(chunk, item)
		}
		groups = append(groups, response_models.DayGroup{DayNumber: day, Items: chunk})
		day++
	}
	return groups
}

type ClusterServiceInterface interface {
	// ClusterAroundHotel computes the ephemeral tier clustering for a trip.
	ClusterAroundHotel(ctx context.Context, tripID string) ([]response_models.ClusterResult, error)
	// ApplyClustering persists the clustering as day assignments.
	ApplyClustering(ctx context.Context, tripID string) error
	NearbyStops(ctx context.Context, tripID string, radiusMeters float64) ([]repositories.StopDistance, error)
}

type ClusterService struct {
	tripRepo repositories.TripRepository
	sessions SessionInvalidator
}

func NewClusterService(tripRepo repositories.TripRepository, sessions SessionInvalidator) ClusterServiceInterface {
	return &ClusterService{tripRepo: tripRepo, sessions: sessions}
}

func (s *ClusterService) ClusterAroundHotel(ctx context.Context, tripID string) ([]response_models.ClusterResult, error) {
	stops, err := s.tripRepo.ListStopsByDistanceFromHotel(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrTripNotFound
		}
		if errors.Is(err, utils.ErrHotelNotSet) {
			return nil, utils.ErrHotelNotSet
		}
		return nil, utils.ErrDatabaseError
	}
	if len(stops) == 0 {
		return []response_models.ClusterResult{}, nil
	}

	// Stops arrive ordered by distance, so each tier keeps that order.
	tiers := map[response_models.ClusterType][]response_models.TripItem{}
	for _, s := range stops {
		tier := TierForDistance(s.DistanceMeters)
		tiers[tier] = append(tiers[tier], stopDistanceToItem(s))
	}

	var clusters []response_models.ClusterResult
	nextDay := 1
	for _, tier := range []response_models.ClusterType{
		response_models.ClusterWalking,
		response_models.ClusterTransit,
		response_models.ClusterDayTrip,
	} {
		for _, group := range PackIntoDays(tiers[tier], clusterDayCapacity, nextDay) {
			clusters = append(clusters, response_models.ClusterResult{
				DayNumber:   group.DayNumber,
				Items:       group.Items,
				ClusterType: tier,
			})
			nextDay = group.DayNumber + 1
		}
	}
	return clusters, nil
}

func (s *ClusterService) ApplyClustering(ctx context.Context, tripID string) error {
	clusters, err := s.ClusterAroundHotel(ctx, tripID)
	if err != nil {
		return err
	}

	for _, cluster := range clusters {
		for i, item := range cluster.Items {
			if err := s.tripRepo.ReplaceDayAssignment(ctx, tripID, item.ID, cluster.DayNumber, i); err != nil {
				log.Printf("apply clustering: move stop %s to day %d: %v", item.ID, cluster.DayNumber, err)
				return utils.ErrDatabaseError
			}
		}
	}
	if s.sessions != nil {
		s.sessions.InvalidateTrip(tripID)
	}
	return nil
}

func (s *ClusterService) NearbyStops(ctx context.Context, tripID string, radiusMeters float64) ([]repositories.StopDistance, error) {
	if radiusMeters <= 0 {
		radiusMeters = walkingRadiusMeters
	}

	stops, err := s.tripRepo.ListStopsNearHotel(ctx, tripID, radiusMeters)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrTripNotFound
		}
		if errors.Is(err, utils.ErrHotelNotSet) {
			return nil, utils.ErrHotelNotSet
		}
		return nil, utils.ErrDatabaseError
	}
	return stops, nil
}

func stopDistanceToItem(s repositories.StopDistance) response_models.TripItem {
	item := response_models.TripItem{
		ID:        s.StopID,
		PlaceName: s.PlaceName,
		Category:  s.Category,
		City:      s.City,
		DayNumber: s.DayNumber,
	}
	if s.Lat != nil && s.Lng != nil {
		item.Lat = s.Lat
		item.Lng = s.Lng
	}
	return item
}
