package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"lazytravel/internal/repositories"
	"lazytravel/internal/services"
	"lazytravel/pkg/utils"
)

var Module = fx.Provide(
	provideTripRepo, provideTripService, provideWeatherService)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideTripService(
	tripRepo repositories.TripRepository,
	sessions services.SessionInvalidator) services.TripServiceInterface {
	return services.NewTripService(tripRepo, sessions)
}

func provideWeatherService(ai utils.PlannerAIInterface) services.WeatherServiceInterface {
	return services.NewWeatherService(ai)
}
