package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "lazytravel/internal/models/db_models"
	"lazytravel/internal/models/response_models"
	"lazytravel/internal/repositories"
	"lazytravel/pkg/utils"
)

func floatPtr(v float64) *float64 { return &v }

func makeStop(id, city string, day int) response_models.TripItem {
	return response_models.TripItem{
		ID:        id,
		PlaceName: "Place " + id,
		City:      city,
		DayNumber: day,
	}
}

func stopIDs(items []response_models.TripItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

type dayAssignment struct {
	StopID     string
	DayNumber  int
	OrderIndex int
}

// stubTripRepo implements just the repository methods the services under test
// touch. Calling anything else panics via the embedded nil interface, which
// is exactly what we want from a test double.
type stubTripRepo struct {
	repositories.TripRepository

	mu sync.Mutex

	trips        map[string]*dbm.Trip
	tripsErr     error
	deletedStops []string

	stops    []response_models.TripItem
	stopsErr error

	distances    []repositories.StopDistance
	distancesErr error

	assignments []dayAssignment

	saved   [][]response_models.TripItem
	saveErr error
}

func (r *stubTripRepo) GetTripByID(ctx context.Context, tripID string) (*dbm.Trip, error) {
	if r.tripsErr != nil {
		return nil, r.tripsErr
	}
	return r.trips[tripID], nil
}

func (r *stubTripRepo) GetTripByShareToken(ctx context.Context, token string) (*dbm.Trip, error) {
	for _, trip := range r.trips {
		if trip.ShareToken == token && trip.IsPublic {
			return trip, nil
		}
	}
	return nil, nil
}

func (r *stubTripRepo) CreateTrip(ctx context.Context, trip *dbm.Trip) (uuid.UUID, error) {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	if r.trips == nil {
		r.trips = make(map[string]*dbm.Trip)
	}
	r.trips[trip.ID.String()] = trip
	return trip.ID, nil
}

func (r *stubTripRepo) ListTrips(ctx context.Context, page, pageSize int) ([]dbm.Trip, error) {
	var out []dbm.Trip
	for _, trip := range r.trips {
		out = append(out, *trip)
	}
	return out, nil
}

func (r *stubTripRepo) DeleteTrip(ctx context.Context, tripID string) error {
	delete(r.trips, tripID)
	return nil
}

func (r *stubTripRepo) PublishTrip(ctx context.Context, tripID string) error {
	trip, ok := r.trips[tripID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	trip.IsPublic = true
	return nil
}

func (r *stubTripRepo) SetHotelAnchor(ctx context.Context, tripID string, hotelName string, lat, lng float64) error {
	trip, ok := r.trips[tripID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	trip.HotelName = hotelName
	trip.HotelLat = &lat
	trip.HotelLng = &lng
	return nil
}

func (r *stubTripRepo) DeleteStop(ctx context.Context, stopID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedStops = append(r.deletedStops, stopID)
	kept := make([]response_models.TripItem, 0, len(r.stops))
	for _, stop := range r.stops {
		if stop.ID != stopID {
			kept = append(kept, stop)
		}
	}
	r.stops = kept
	return nil
}

func (r *stubTripRepo) ListStops(ctx context.Context, tripID string) ([]response_models.TripItem, error) {
	if r.stopsErr != nil {
		return nil, r.stopsErr
	}
	return append([]response_models.TripItem(nil), r.stops...), nil
}

func (r *stubTripRepo) ListStopsByDistanceFromHotel(ctx context.Context, tripID string) ([]repositories.StopDistance, error) {
	if r.distancesErr != nil {
		return nil, r.distancesErr
	}
	return r.distances, nil
}

func (r *stubTripRepo) ListStopsNearHotel(ctx context.Context, tripID string, radiusMeters float64) ([]repositories.StopDistance, error) {
	if r.distancesErr != nil {
		return nil, r.distancesErr
	}
	var near []repositories.StopDistance
	for _, s := range r.distances {
		if s.DistanceMeters <= radiusMeters {
			near = append(near, s)
		}
	}
	return near, nil
}

func (r *stubTripRepo) ReplaceDayAssignment(ctx context.Context, tripID, stopID string, dayNumber, orderIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, dayAssignment{StopID: stopID, DayNumber: dayNumber, OrderIndex: orderIndex})
	return nil
}

func (r *stubTripRepo) ReplaceMaterializedItinerary(ctx context.Context, tripID string, items []response_models.TripItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, append([]response_models.TripItem(nil), items...))
	return nil
}

func (r *stubTripRepo) savedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

// stubPlannerAI overrides only the calls a given test scripts.
type stubPlannerAI struct {
	utils.PlannerAIInterface

	optimizeFn     func(ctx context.Context, points []utils.SequencePoint) (utils.SequenceResult, error)
	extractTextFn  func(ctx context.Context, text string) ([]response_models.TripItem, error)
	extractImageFn func(ctx context.Context, base64Image string) ([]response_models.TripItem, error)
	identifyFn     func(ctx context.Context, base64Image string) (*response_models.TripItem, error)
	weatherFn      func(ctx context.Context, cities []string) (map[string]string, error)
}

func (s *stubPlannerAI) OptimizeRoute(ctx context.Context, points []utils.SequencePoint) (utils.SequenceResult, error) {
	return s.optimizeFn(ctx, points)
}

func (s *stubPlannerAI) ExtractFromText(ctx context.Context, text string) ([]response_models.TripItem, error) {
	return s.extractTextFn(ctx, text)
}

func (s *stubPlannerAI) ExtractFromImage(ctx context.Context, base64Image string) ([]response_models.TripItem, error) {
	return s.extractImageFn(ctx, base64Image)
}

func (s *stubPlannerAI) IdentifyLandmark(ctx context.Context, base64Image string) (*response_models.TripItem, error) {
	return s.identifyFn(ctx, base64Image)
}

func (s *stubPlannerAI) WeatherForecast(ctx context.Context, cities []string) (map[string]string, error) {
	return s.weatherFn(ctx, cities)
}

// stubEstimator lets a test script travel-estimate responses, including
// blocking them on channels to force a completion order.
type stubEstimator struct {
	fn func(ctx context.Context, legs []utils.TravelLeg) ([]string, error)
}

func (s *stubEstimator) TravelEstimates(ctx context.Context, legs []utils.TravelLeg) ([]string, error) {
	return s.fn(ctx, legs)
}

// stubSaver records flushes.
type stubSaver struct {
	mu    sync.Mutex
	calls [][]response_models.TripItem
}

func (s *stubSaver) SaveItinerary(ctx context.Context, tripID string, items []response_models.TripItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]response_models.TripItem(nil), items...))
	return nil
}

func (s *stubSaver) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubSaver) lastCall() []response_models.TripItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return nil
	}
	return s.calls[len(s.calls)-1]
}
