package import_fx

import (
	"go.uber.org/fx"
	"lazytravel/internal/services"
	"lazytravel/pkg/utils"
)

var Module = fx.Provide(provideExtractionService)

func provideExtractionService(ai utils.PlannerAIInterface) services.ExtractionServiceInterface {
	return services.NewExtractionService(ai)
}
