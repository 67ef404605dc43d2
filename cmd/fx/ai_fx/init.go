package ai_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"lazytravel/pkg/utils"
)

var Module = fx.Provide(providePlannerAI)

func providePlannerAI() utils.PlannerAIInterface {
	provider := os.Getenv("AI_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}
	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		log.Fatal("AI_API_KEY is empty")
	}

	client, err := utils.NewPlannerAIClient(provider, apiKey, os.Getenv("AI_MODEL"))
	if err != nil {
		log.Fatalf("Failed to init AI client: %v", err)
	}
	return client
}
