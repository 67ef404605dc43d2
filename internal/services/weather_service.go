package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"lazytravel/pkg/utils"
)

// weatherCacheTTL keeps forecasts around long enough to survive a planning
// session without hammering the oracle.
const weatherCacheTTL = 30 * time.Minute

type WeatherServiceInterface interface {
	// ForecastForCities returns a short human-readable forecast per city.
	ForecastForCities(ctx context.Context, cities []string) (map[string]string, error)
}

type cachedForecast struct {
	summary   string
	fetchedAt time.Time
}

type WeatherService struct {
	ai utils.PlannerAIInterface

	mu    sync.Mutex
	cache map[string]cachedForecast
}

func NewWeatherService(ai utils.PlannerAIInterface) WeatherServiceInterface {
	return &WeatherService{
		ai:    ai,
		cache: make(map[string]cachedForecast),
	}
}

func (s *WeatherService) ForecastForCities(ctx context.Context, cities []string) (map[string]string, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("%w: no cities given", utils.ErrInvalidInput)
	}

	out := make(map[string]string, len(cities))
	var misses []string

	s.mu.Lock()
	now := time.Now()
	for _, city := range cities {
		if city == "" {
			continue
		}
		if hit, ok := s.cache[city]; ok && now.Sub(hit.fetchedAt) < weatherCacheTTL {
			out[city] = hit.summary
		} else {
			misses = append(misses, city)
		}
	}
	s.mu.Unlock()

	if len(misses) == 0 {
		return out, nil
	}

	fresh, err := s.ai.WeatherForecast(ctx, misses)
	if err != nil {
		// Weather is decoration; a dead oracle degrades to whatever is
		// cached, possibly nothing.
		log.Printf("weather forecast failed: %v", err)
		return out, nil
	}

	s.mu.Lock()
	for city, summary := range fresh {
		s.cache[city] = cachedForecast{summary: summary, fetchedAt: now}
		out[city] = summary
	}
	s.mu.Unlock()

	return out, nil
}
