package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"lazytravel/pkg/utils"
)

// MatrixEstimator is the offline alternative to the AI travel-estimate
// oracle: it asks the Mapbox directions matrix for real leg distances and
// formats them into the same human-readable labels. Pair distances are
// cached aggressively since places do not move.

type legKey struct {
	Profile string
	From    string
	To      string
}

type cachedLeg struct {
	DistanceMeters int
	ExpiresAt      time.Time
}

type LegDistanceCache interface {
	Get(k legKey) (int, bool)
	Set(k legKey, meters int, ttl time.Duration)
}

type inMemoryLegCache struct {
	mu    sync.RWMutex
	store map[legKey]cachedLeg
}

func NewInMemoryLegCache() LegDistanceCache {
	return &inMemoryLegCache{store: make(map[legKey]cachedLeg)}
}

func (c *inMemoryLegCache) Get(k legKey) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[k]
	if !ok || time.Now().After(it.ExpiresAt) {
		return 0, false
	}
	return it.DistanceMeters, true
}

func (c *inMemoryLegCache) Set(k legKey, meters int, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = cachedLeg{DistanceMeters: meters, ExpiresAt: time.Now().Add(ttl)}
}

type MatrixEstimator struct {
	HTTP        *http.Client
	AccessToken string
	Cache       LegDistanceCache
	DefaultTTL  time.Duration
	Profile     string
}

func NewMatrixEstimator(cache LegDistanceCache) (*MatrixEstimator, error) {
	token := os.Getenv("MAPBOX_ACCESS_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("MAPBOX_ACCESS_TOKEN is empty")
	}
	return &MatrixEstimator{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		AccessToken: token,
		Cache:       cache,
		DefaultTTL:  7 * 24 * time.Hour,
		Profile:     "driving",
	}, nil
}

// TravelEstimates returns one label per consecutive leg, len(legs)-1 in
// total. Legs with a missing coordinate get an empty label instead of
// failing the whole batch.
func (m *MatrixEstimator) TravelEstimates(ctx context.Context, legs []utils.TravelLeg) ([]string, error) {
	if len(legs) < 2 {
		return nil, nil
	}

	distances, err := m.legDistances(ctx, legs)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(legs)-1)
	for i := range labels {
		if distances[i] < 0 {
			labels[i] = ""
			continue
		}
		labels[i] = formatTravelLabel(distances[i])
	}
	return labels, nil
}

// legDistances resolves the distance in meters of each consecutive leg,
// cache first, one matrix call for the rest. A leg whose endpoints lack
// coordinates yields -1.
func (m *MatrixEstimator) legDistances(ctx context.Context, legs []utils.TravelLeg) ([]int, error) {
	n := len(legs) - 1
	out := make([]int, n)
	needCall := false

	for i := 0; i < n; i++ {
		from, to := legs[i], legs[i+1]
		if from.Lat == nil || from.Lng == nil || to.Lat == nil || to.Lng == nil {
			out[i] = -1
			continue
		}
		k := legKey{Profile: m.Profile, From: legCoordID(from), To: legCoordID(to)}
		if meters, ok := m.Cache.Get(k); ok {
			out[i] = meters
		} else {
			out[i] = -2
			needCall = true
		}
	}

	if !needCall {
		return out, nil
	}

	coords := make([]string, 0, len(legs))
	coordIndex := make([]int, 0, len(legs))
	for i, leg := range legs {
		if leg.Lat == nil || leg.Lng == nil {
			continue
		}
		coords = append(coords, fmt.Sprintf("%f,%f", *leg.Lng, *leg.Lat))
		coordIndex = append(coordIndex, i)
	}
	if len(coords) < 2 {
		for i := range out {
			if out[i] == -2 {
				out[i] = -1
			}
		}
		return out, nil
	}

	u := url.URL{
		Scheme: "https",
		Host:   "api.mapbox.com",
		Path:   fmt.Sprintf("/directions-matrix/v1/mapbox/%s/%s", m.Profile, strings.Join(coords, ";")),
	}
	q := url.Values{}
	q.Set("annotations", "distance")
	q.Set("sources", "all")
	q.Set("destinations", "all")
	q.Set("access_token", m.AccessToken)
	u.RawQuery = q.Encode()

	req, _ := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	resp, err := m.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox matrix http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("mapbox matrix bad status: %s", resp.Status)
	}

	var payload struct {
		Distances [][]*float64 `json:"distances"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("mapbox decode: %w", err)
	}

	// Map leg index -> position in the matrix call.
	position := make(map[int]int, len(coordIndex))
	for pos, legIdx := range coordIndex {
		position[legIdx] = pos
	}

	for i := 0; i < n; i++ {
		if out[i] != -2 {
			continue
		}
		pi, okFrom := position[i]
		pj, okTo := position[i+1]
		if !okFrom || !okTo {
			out[i] = -1
			continue
		}
		meters := -1
		if payload.Distances != nil && pi < len(payload.Distances) && pj < len(payload.Distances[pi]) && payload.Distances[pi][pj] != nil {
			meters = int(*payload.Distances[pi][pj] + 0.5)
		}
		out[i] = meters
		if meters >= 0 {
			k := legKey{Profile: m.Profile, From: legCoordID(legs[i]), To: legCoordID(legs[i+1])}
			m.Cache.Set(k, meters, m.DefaultTTL)
		}
	}
	return out, nil
}

func legCoordID(leg utils.TravelLeg) string {
	return fmt.Sprintf("%.5f,%.5f", *leg.Lat, *leg.Lng)
}

// formatTravelLabel turns a leg distance into the label shown between
// consecutive stops. Short hops read as walks, everything else as drives.
func formatTravelLabel(meters int) string {
	if meters < 1200 {
		minutes := int(math.Ceil(float64(meters) / 80.0))
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("%d min walk", minutes)
	}
	minutes := int(math.Ceil(float64(meters) / 500.0))
	if minutes < 2 {
		minutes = 2
	}
	return fmt.Sprintf("~%d min drive", minutes)
}
