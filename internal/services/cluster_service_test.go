package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lazytravel/internal/models/response_models"
	"lazytravel/internal/repositories"
	"lazytravel/pkg/utils"
)

func TestTierForDistanceBoundaries(t *testing.T) {
	cases := []struct {
		meters float64
		want   response_models.ClusterType
	}{
		{0, response_models.ClusterWalking},
		{1999.9, response_models.ClusterWalking},
		{2000, response_models.ClusterTransit},
		{9999.9, response_models.ClusterTransit},
		{10000, response_models.ClusterDayTrip},
		{50000, response_models.ClusterDayTrip},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierForDistance(tc.meters), "distance %.1f", tc.meters)
	}
}

func TestClassifyStopMissingCoordinatesIsWalking(t *testing.T) {
	item := makeStop("a", "Paris", 0)
	assert.Equal(t, response_models.ClusterWalking, ClassifyStop(item, floatPtr(48.85), floatPtr(2.35)))

	withCoords := item
	withCoords.Lat = floatPtr(48.86)
	withCoords.Lng = floatPtr(2.35)
	assert.Equal(t, response_models.ClusterWalking, ClassifyStop(withCoords, nil, nil),
		"missing anchor folds to distance zero")
}

func TestClassifyStopIsDeterministic(t *testing.T) {
	item := makeStop("a", "Paris", 0)
	item.Lat = floatPtr(48.9)
	item.Lng = floatPtr(2.35)
	anchorLat, anchorLng := floatPtr(48.85), floatPtr(2.35)

	first := ClassifyStop(item, anchorLat, anchorLng)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ClassifyStop(item, anchorLat, anchorLng))
	}
}

func TestPackIntoDaysChunksAndNumbersSequentially(t *testing.T) {
	items := make([]response_models.TripItem, 7)
	for i := range items {
		items[i] = makeStop(string(rune('a'+i)), "Rome", 0)
	}

	groups := PackIntoDays(items, 3, 1)
	require.Len(t, groups, 3)
	assert.Equal(t, 1, groups[0].DayNumber)
	assert.Equal(t, 2, groups[1].DayNumber)
	assert.Equal(t, 3, groups[2].DayNumber)
	assert.Len(t, groups[0].Items, 3)
	assert.Len(t, groups[1].Items, 3)
	assert.Len(t, groups[2].Items, 1)

	// Input order is preserved across chunks.
	var flat []string
	for _, g := range groups {
		flat = append(flat, stopIDs(g.Items)...)
	}
	assert.Equal(t, stopIDs(items), flat)

	// Day numbers continue from firstDay.
	groups = PackIntoDays(items[:2], 3, 4)
	require.Len(t, groups, 1)
	assert.Equal(t, 4, groups[0].DayNumber)
}

func TestPackIntoDaysEmptyInput(t *testing.T) {
	assert.Empty(t, PackIntoDays(nil, 5, 1))
}

func TestPackIntoDaysPanicsOnNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() {
		PackIntoDays([]response_models.TripItem{makeStop("a", "Rome", 0)}, 0, 1)
	})
}

func TestClusterAroundHotelTiersNeverInterleave(t *testing.T) {
	repo := &stubTripRepo{
		distances: []repositories.StopDistance{
			{StopID: "near1", PlaceName: "Near 1", DistanceMeters: 100},
			{StopID: "near2", PlaceName: "Near 2", DistanceMeters: 1500},
			{StopID: "mid1", PlaceName: "Mid 1", DistanceMeters: 3000},
			{StopID: "far1", PlaceName: "Far 1", DistanceMeters: 25000},
		},
	}
	svc := NewClusterService(repo, nil)

	clusters, err := svc.ClusterAroundHotel(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, clusters, 3)

	assert.Equal(t, response_models.ClusterWalking, clusters[0].ClusterType)
	assert.Equal(t, response_models.ClusterTransit, clusters[1].ClusterType)
	assert.Equal(t, response_models.ClusterDayTrip, clusters[2].ClusterType)

	// Day numbers are sequential across tiers.
	assert.Equal(t, 1, clusters[0].DayNumber)
	assert.Equal(t, 2, clusters[1].DayNumber)
	assert.Equal(t, 3, clusters[2].DayNumber)

	assert.Equal(t, []string{"near1", "near2"}, stopIDs(clusters[0].Items))
	assert.Equal(t, []string{"mid1"}, stopIDs(clusters[1].Items))
	assert.Equal(t, []string{"far1"}, stopIDs(clusters[2].Items))
}

func TestClusterAroundHotelSplitsOversizedTier(t *testing.T) {
	var distances []repositories.StopDistance
	for i := 0; i < 12; i++ {
		distances = append(distances, repositories.StopDistance{
			StopID:         string(rune('a' + i)),
			DistanceMeters: float64(i * 10),
		})
	}
	repo := &stubTripRepo{distances: distances}
	svc := NewClusterService(repo, nil)

	clusters, err := svc.ClusterAroundHotel(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0].Items, 10)
	assert.Len(t, clusters[1].Items, 2)
	assert.Equal(t, response_models.ClusterWalking, clusters[1].ClusterType)
	assert.Equal(t, 2, clusters[1].DayNumber)
}

func TestClusterAroundHotelNoAnchor(t *testing.T) {
	repo := &stubTripRepo{distancesErr: utils.ErrHotelNotSet}
	svc := NewClusterService(repo, nil)

	_, err := svc.ClusterAroundHotel(context.Background(), "trip-1")
	assert.ErrorIs(t, err, utils.ErrHotelNotSet)
}

func TestClusterAroundHotelEmptyTrip(t *testing.T) {
	repo := &stubTripRepo{}
	svc := NewClusterService(repo, nil)

	clusters, err := svc.ClusterAroundHotel(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.Empty(t, clusters)
}

func TestApplyClusteringPersistsDayAssignments(t *testing.T) {
	repo := &stubTripRepo{
		distances: []repositories.StopDistance{
			{StopID: "a", DistanceMeters: 100},
			{StopID: "b", DistanceMeters: 500},
			{StopID: "c", DistanceMeters: 5000},
		},
	}
	svc := NewClusterService(repo, nil)

	require.NoError(t, svc.ApplyClustering(context.Background(), "trip-1"))
	assert.Equal(t, []dayAssignment{
		{StopID: "a", DayNumber: 1, OrderIndex: 0},
		{StopID: "b", DayNumber: 1, OrderIndex: 1},
		{StopID: "c", DayNumber: 2, OrderIndex: 0},
	}, repo.assignments)
}
