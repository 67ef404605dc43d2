package services

import (
	"context"
	"fmt"
	"sort"

	"lazytravel/internal/models/response_models"
	"lazytravel/pkg/utils"
)

// Optimizer strategies. Which one runs is a deployment choice, not a
// user-visible mode.
const (
	StrategyHeuristic = "heuristic"
	StrategyOracle    = "oracle"
)

// heuristicDayCapacity is the default per-day stop limit of the heuristic
// strategy.
const heuristicDayCapacity = 8

// heuristicTravelFiller is the placeholder edge label the heuristic strategy
// assigns between consecutive stops of a day. Real estimates come later from
// the travel-estimate oracle when the user reorders.
const heuristicTravelFiller = "~15 min"

type RouteOptimizerInterface interface {
	// Optimize returns a day-grouped permutation of the given stops with
	// updated day numbers and travel annotations. The id set of the output
	// always equals the id set of the input; fewer than two stops is a
	// no-op. An oracle failure fails the whole operation, it never falls
	// back to the heuristic silently.
	Optimize(ctx context.Context, items []response_models.TripItem) ([]response_models.TripItem, error)
}

type OptimizerConfig struct {
	Strategy    string
	DayCapacity int
}

type RouteOptimizer struct {
	ai          utils.PlannerAIInterface
	strategy    string
	dayCapacity int
}

func NewRouteOptimizer(ai utils.PlannerAIInterface, cfg OptimizerConfig) RouteOptimizerInterface {
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = StrategyHeuristic
	}
	capacity := cfg.DayCapacity
	if capacity <= 0 {
		capacity = heuristicDayCapacity
	}
	return &RouteOptimizer{
		ai:          ai,
		strategy:    strategy,
		dayCapacity: capacity,
	}
}

func (o *RouteOptimizer) Optimize(ctx context.Context, items []response_models.TripItem) ([]response_models.TripItem, error) {
	if len(items) < 2 {
		return items, nil
	}

	if o.strategy == StrategyOracle {
		return o.optimizeWithOracle(ctx, items)
	}
	return o.optimizeHeuristic(items), nil
}

// optimizeHeuristic groups stops by city in first-seen order, then chunks
// each city group into days. Within a chunk the input order is kept.
func (o *RouteOptimizer) optimizeHeuristic(items []response_models.TripItem) []response_models.TripItem {
	var cities []string
	byCity := make(map[string][]response_models.TripItem)
	for _, item := range items {
		if _, seen := byCity[item.City]; !seen {
			cities = append(cities, item.City)
		}
		byCity[item.City] = append(byCity[item.City], item)
	}

	out := make([]response_models.TripItem, 0, len(items))
	nextDay := 1
	for _, city := range cities {
		for _, group := range PackIntoDays(byCity[city], o.dayCapacity, nextDay) {
			for i, item := range group.Items {
				if i < len(group.Items)-1 {
					item.TravelTimeNext = heuristicTravelFiller
				} else {
					item.TravelTimeNext = ""
				}
				out = append(out, item)
			}
			nextDay = group.DayNumber + 1
		}
	}
	return out
}

// optimizeWithOracle delegates ordering and day grouping to the sequencing
// oracle and reconciles the possibly-partial answer against the input by
// index. Stops the oracle did not place default to day 1; the final order is
// a stable sort by day number so oracle silence on intra-day ties keeps the
// original relative order.
func (o *RouteOptimizer) optimizeWithOracle(ctx context.Context, items []response_models.TripItem) ([]response_models.TripItem, error) {
	points := make([]utils.SequencePoint, 0, len(items))
	for i, item := range items {
		points = append(points, utils.SequencePoint{
			Index:     i,
			PlaceName: item.PlaceName,
			City:      item.City,
			Lat:       item.Lat,
			Lng:       item.Lng,
		})
	}

	result, err := o.ai.OptimizeRoute(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	return applySequenceResult(items, result), nil
}

// applySequenceResult maps the oracle's index-based answer back onto the
// stops. Any index the oracle never mentions keeps day 1 and gets no travel
// annotation; out-of-range or duplicate indices are ignored.
func applySequenceResult(items []response_models.TripItem, result utils.SequenceResult) []response_models.TripItem {
	dayByIndex := make(map[int]int, len(items))
	for day, indices := range result.DayGrouping {
		for _, idx := range indices {
			if idx < 0 || idx >= len(items) {
				continue
			}
			if _, taken := dayByIndex[idx]; taken {
				continue
			}
			dayByIndex[idx] = day
		}
	}

	// Base order: the oracle's permutation when it gave one, otherwise the
	// input order. Indices the permutation missed follow in input order.
	baseOrder := make([]int, 0, len(items))
	used := make(map[int]bool, len(items))
	for _, idx := range result.OptimizedOrder {
		if idx < 0 || idx >= len(items) || used[idx] {
			continue
		}
		used[idx] = true
		baseOrder = append(baseOrder, idx)
	}
	for i := range items {
		if !used[i] {
			baseOrder = append(baseOrder, i)
		}
	}

	out := make([]response_models.TripItem, 0, len(items))
	for _, idx := range baseOrder {
		item := items[idx]
		if day, ok := dayByIndex[idx]; ok {
			item.DayNumber = day
		} else {
			item.DayNumber = 1
		}
		// Annotations describe edges of the old ordering; a global
		// reorder invalidates them.
		item.TravelTimeNext = ""
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDay() < out[j].EffectiveDay()
	})
	return out
}
