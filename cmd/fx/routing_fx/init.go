package routing_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"
	"lazytravel/internal/repositories"
	"lazytravel/internal/services"
	"lazytravel/pkg/utils"
)

var Module = fx.Provide(
	provideOptimizer, provideEstimator, provideSessionManager,
	provideSessionInvalidator, provideClusterService)

func provideOptimizer(ai utils.PlannerAIInterface) services.RouteOptimizerInterface {
	capacity := 0
	if raw := os.Getenv("OPTIMIZER_DAY_CAPACITY"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Invalid OPTIMIZER_DAY_CAPACITY: %v", err)
		}
		capacity = parsed
	}
	return services.NewRouteOptimizer(ai, services.OptimizerConfig{
		Strategy:    os.Getenv("OPTIMIZER_STRATEGY"),
		DayCapacity: capacity,
	})
}

func provideEstimator(ai utils.PlannerAIInterface) services.TravelEstimator {
	if os.Getenv("TRAVEL_ESTIMATOR") == "matrix" {
		estimator, err := services.NewMatrixEstimator(services.NewInMemoryLegCache())
		if err != nil {
			log.Fatalf("Failed to init matrix estimator: %v", err)
		}
		return estimator
	}
	return ai
}

func provideSessionManager(
	tripRepo repositories.TripRepository,
	optimizer services.RouteOptimizerInterface,
	estimator services.TravelEstimator) services.SessionManagerInterface {
	return services.NewSessionManager(tripRepo, optimizer, estimator)
}

func provideSessionInvalidator(manager services.SessionManagerInterface) services.SessionInvalidator {
	return manager
}

func provideClusterService(
	tripRepo repositories.TripRepository,
	sessions services.SessionInvalidator) services.ClusterServiceInterface {
	return services.NewClusterService(tripRepo, sessions)
}
