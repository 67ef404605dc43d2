package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"lazytravel/internal/models/response_models"
	"lazytravel/internal/repositories"
	"lazytravel/pkg/utils"
)

// defaultSaveDelay is how long a session waits after the last mutation before
// resyncing the itinerary to storage.
const defaultSaveDelay = 2 * time.Second

// TravelEstimator produces human-readable travel labels for the legs between
// consecutive stops. The AI planner client satisfies this directly; the
// matrix estimator is the offline alternative.
type TravelEstimator interface {
	TravelEstimates(ctx context.Context, legs []utils.TravelLeg) ([]string, error)
}

// ItinerarySaver persists a full working set for a trip.
type ItinerarySaver interface {
	SaveItinerary(ctx context.Context, tripID string, items []response_models.TripItem) error
}

// TripSession holds the in-memory working set of one trip's stops. All reads
// and writes of the canonical list go through the mutex; callers only ever
// see copies.
type TripSession struct {
	tripID    string
	estimator TravelEstimator
	saver     ItinerarySaver
	saveDelay time.Duration

	mu        sync.Mutex
	items     []response_models.TripItem
	saveTimer *time.Timer
	closed    bool
}

func NewTripSession(tripID string, items []response_models.TripItem, estimator TravelEstimator, saver ItinerarySaver, saveDelay time.Duration) *TripSession {
	if saveDelay <= 0 {
		saveDelay = defaultSaveDelay
	}
	return &TripSession{
		tripID:    tripID,
		estimator: estimator,
		saver:     saver,
		saveDelay: saveDelay,
		items:     append([]response_models.TripItem(nil), items...),
	}
}

// Items returns a snapshot of the working set.
func (s *TripSession) Items() []response_models.TripItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]response_models.TripItem(nil), s.items...)
}

// Replace swaps in a whole new working set, typically an optimizer result,
// and schedules a resync.
func (s *TripSession) Replace(items []response_models.TripItem) {
	s.mu.Lock()
	s.items = append([]response_models.TripItem(nil), items...)
	s.scheduleSaveLocked()
	s.mu.Unlock()
}

// Reorder applies a user-supplied ordering for the stops of one day. The new
// order becomes visible immediately; travel estimates for the touched day are
// recomputed in the background and merged in whenever they arrive. The id set
// must exactly match the day's current stops.
func (s *TripSession) Reorder(dayNumber int, orderedIDs []string) ([]response_models.TripItem, error) {
	if dayNumber < 1 {
		return nil, fmt.Errorf("%w: day number must be positive", utils.ErrInvalidInput)
	}

	s.mu.Lock()
	dayItems := make(map[string]response_models.TripItem)
	others := make([]response_models.TripItem, 0, len(s.items))
	for _, item := range s.items {
		if item.EffectiveDay() == dayNumber {
			dayItems[item.ID] = item
		} else {
			others = append(others, item)
		}
	}

	if len(orderedIDs) != len(dayItems) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: expected %d stop ids for day %d, got %d",
			utils.ErrInvalidInput, len(dayItems), dayNumber, len(orderedIDs))
	}
	reordered := make([]response_models.TripItem, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		item, ok := dayItems[id]
		if !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: stop %s is not on day %d", utils.ErrInvalidInput, id, dayNumber)
		}
		reordered = append(reordered, item)
		delete(dayItems, id)
	}

	s.items = mergeDay(others, reordered)
	snapshot := append([]response_models.TripItem(nil), s.items...)
	s.scheduleSaveLocked()
	s.mu.Unlock()

	if s.estimator != nil && len(reordered) >= 2 {
		go s.recalculateTravelTimes(dayNumber, reordered)
	}
	return snapshot, nil
}

// recalculateTravelTimes fetches fresh travel labels for a day's new ordering
// and merges them into the working set. The stop order passed in is the one
// the estimates were requested for; by the time they arrive the day is
// replaced wholesale with that annotated order, which makes concurrent
// reorders of the same day last-write-wins. Estimate failures leave the
// optimistic order in place.
func (s *TripSession) recalculateTravelTimes(dayNumber int, order []response_models.TripItem) {
	legs := make([]utils.TravelLeg, 0, len(order))
	for _, item := range order {
		legs = append(legs, utils.TravelLeg{
			PlaceName: item.PlaceName,
			City:      item.City,
			Lat:       item.Lat,
			Lng:       item.Lng,
		})
	}

	estimates, err := s.estimator.TravelEstimates(context.Background(), legs)
	if err != nil {
		log.Printf("travel estimates for trip %s day %d failed: %v", s.tripID, dayNumber, err)
		return
	}

	annotated := make([]response_models.TripItem, len(order))
	copy(annotated, order)
	for i := range annotated {
		if i < len(annotated)-1 && i < len(estimates) {
			annotated[i].TravelTimeNext = estimates[i]
		} else {
			annotated[i].TravelTimeNext = ""
		}
	}

	s.mu.Lock()
	others := make([]response_models.TripItem, 0, len(s.items))
	for _, item := range s.items {
		if item.EffectiveDay() != dayNumber {
			others = append(others, item)
		}
	}
	s.items = mergeDay(others, annotated)
	s.scheduleSaveLocked()
	s.mu.Unlock()
}

// mergeDay splices one day's stops back into the rest of the list and
// restores the global day ordering. Relative order inside each day is kept.
func mergeDay(others, day []response_models.TripItem) []response_models.TripItem {
	merged := make([]response_models.TripItem, 0, len(others)+len(day))
	merged = append(merged, others...)
	merged = append(merged, day...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].EffectiveDay() < merged[j].EffectiveDay()
	})
	return merged
}

// scheduleSaveLocked debounces persistence: every mutation pushes the flush
// out by saveDelay. Caller must hold s.mu.
func (s *TripSession) scheduleSaveLocked() {
	if s.saver == nil || s.closed {
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.saveDelay, s.flush)
}

func (s *TripSession) flush() {
	items := s.Items()
	if err := s.saver.SaveItinerary(context.Background(), s.tripID, items); err != nil {
		log.Printf("resync of trip %s failed: %v", s.tripID, err)
	}
}

// discardPendingSave retires an evicted session: the pending save is dropped
// and no late estimate merge may re-arm it.
func (s *TripSession) discardPendingSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
}

// Flush forces an immediate resync, bypassing the debounce window.
func (s *TripSession) Flush() error {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.mu.Unlock()
	if s.saver == nil {
		return nil
	}
	return s.saver.SaveItinerary(context.Background(), s.tripID, s.Items())
}

// SessionInvalidator is the narrow view CRUD services use to evict a trip's
// cached working set after writing around it.
type SessionInvalidator interface {
	InvalidateTrip(tripID string)
}

type SessionManagerInterface interface {
	CurrentItems(ctx context.Context, tripID string) ([]response_models.TripItem, error)
	OptimizeTrip(ctx context.Context, tripID string) ([]response_models.TripItem, error)
	ReorderDay(ctx context.Context, tripID string, dayNumber int, orderedIDs []string) ([]response_models.TripItem, error)
	FlushTrip(ctx context.Context, tripID string) error
	SessionInvalidator
}

// SessionManager owns one TripSession per open trip and fronts the reorder
// and optimize operations for the API layer.
type SessionManager struct {
	repo      repositories.TripRepository
	optimizer RouteOptimizerInterface
	estimator TravelEstimator
	saveDelay time.Duration

	mu       sync.Mutex
	sessions map[string]*TripSession
}

func NewSessionManager(repo repositories.TripRepository, optimizer RouteOptimizerInterface, estimator TravelEstimator) SessionManagerInterface {
	return &SessionManager{
		repo:      repo,
		optimizer: optimizer,
		estimator: estimator,
		saveDelay: defaultSaveDelay,
		sessions:  make(map[string]*TripSession),
	}
}

func (m *SessionManager) session(ctx context.Context, tripID string) (*TripSession, error) {
	m.mu.Lock()
	if s, ok := m.sessions[tripID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	items, err := m.repo.ListStops(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrTripNotFound
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have raced us here; keep the first session so
	// in-flight mutations are not lost.
	if s, ok := m.sessions[tripID]; ok {
		return s, nil
	}
	s := NewTripSession(tripID, items, m.estimator, &repoSaver{repo: m.repo}, m.saveDelay)
	m.sessions[tripID] = s
	return s, nil
}

func (m *SessionManager) CurrentItems(ctx context.Context, tripID string) ([]response_models.TripItem, error) {
	s, err := m.session(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return s.Items(), nil
}

// OptimizeTrip runs the configured optimizer over the trip's working set. On
// oracle failure the working set is left untouched.
func (m *SessionManager) OptimizeTrip(ctx context.Context, tripID string) ([]response_models.TripItem, error) {
	s, err := m.session(ctx, tripID)
	if err != nil {
		return nil, err
	}
	optimized, err := m.optimizer.Optimize(ctx, s.Items())
	if err != nil {
		return nil, err
	}
	s.Replace(optimized)
	return optimized, nil
}

func (m *SessionManager) ReorderDay(ctx context.Context, tripID string, dayNumber int, orderedIDs []string) ([]response_models.TripItem, error) {
	s, err := m.session(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return s.Reorder(dayNumber, orderedIDs)
}

// InvalidateTrip drops the trip's cached session so the next request reloads
// from the repository. Any pending debounced save is discarded with it;
// whoever invalidated has already written the truth.
func (m *SessionManager) InvalidateTrip(tripID string) {
	m.mu.Lock()
	s, ok := m.sessions[tripID]
	if ok {
		delete(m.sessions, tripID)
	}
	m.mu.Unlock()
	if ok {
		s.discardPendingSave()
	}
}

func (m *SessionManager) FlushTrip(ctx context.Context, tripID string) error {
	s, err := m.session(ctx, tripID)
	if err != nil {
		return err
	}
	return s.Flush()
}

// repoSaver adapts the trip repository to the ItinerarySaver contract.
type repoSaver struct {
	repo repositories.TripRepository
}

func (r *repoSaver) SaveItinerary(ctx context.Context, tripID string, items []response_models.TripItem) error {
	return r.repo.ReplaceMaterializedItinerary(ctx, tripID, items)
}
