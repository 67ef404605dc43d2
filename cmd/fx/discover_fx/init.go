package discover_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"lazytravel/internal/repositories"
	"lazytravel/internal/services"
	"lazytravel/pkg/utils"
)

var Module = fx.Provide(
	provideEmbeddingRepo, provideDiscoverService)

func provideEmbeddingRepo(db *gorm.DB) repositories.IStopEmbeddingRepository {
	return repositories.NewStopEmbeddingRepository(db)
}

func provideDiscoverService(ai utils.PlannerAIInterface, embeddingRepo repositories.IStopEmbeddingRepository) services.DiscoverServiceInterface {
	return services.NewDiscoverService(ai, embeddingRepo)
}
