package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"lazytravel/cmd/fx/ai_fx"
	"lazytravel/cmd/fx/controllers_fx"
	"lazytravel/cmd/fx/db_fx"
	"lazytravel/cmd/fx/discover_fx"
	"lazytravel/cmd/fx/import_fx"
	"lazytravel/cmd/fx/routing_fx"
	"lazytravel/cmd/fx/trip_fx"
	"lazytravel/internal/api/controllers"
	"lazytravel/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	app := fx.New(
		db_fx.Module,
		ai_fx.Module,
		trip_fx.Module,
		routing_fx.Module,
		import_fx.Module,
		discover_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	tripController *controllers.TripController,
	routingController *controllers.RoutingController,
	importController *controllers.ImportController,
	discoverController *controllers.DiscoverController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, tripController, routingController, importController, discoverController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	tripController *controllers.TripController,
	routingController *controllers.RoutingController,
	importController *controllers.ImportController,
	discoverController *controllers.DiscoverController) {

	tripsGroup := r.Group("/trips")
	tripsGroup.POST("", tripController.SaveTrip)
	tripsGroup.GET("", tripController.ListTrips)
	tripsGroup.GET("/:id", tripController.GetTrip)
	tripsGroup.DELETE("/:id", tripController.DeleteTrip)
	tripsGroup.POST("/:id/share", tripController.ShareTrip)
	tripsGroup.PUT("/:id/hotel", tripController.SetHotelAnchor)
	tripsGroup.DELETE("/:id/stops/:stopId", tripController.DeleteStop)
	tripsGroup.GET("/:id/weather", tripController.GetTripWeather)

	r.GET("/shared/:token", tripController.GetSharedTrip)

	routingGroup := r.Group("/routing")
	routingGroup.GET("/:tripId/items", routingController.GetItinerary)
	routingGroup.POST("/optimize", routingController.OptimizeRoute)
	routingGroup.POST("/reorder", routingController.ReorderDay)
	routingGroup.GET("/:tripId/clusters", routingController.PreviewClustering)
	routingGroup.POST("/clusters/apply", routingController.ApplyClustering)
	routingGroup.GET("/:tripId/nearby", routingController.NearbyStops)
	routingGroup.POST("/sync/:tripId", routingController.FlushItinerary)

	importGroup := r.Group("/import")
	importGroup.POST("/text", importController.ImportText)
	importGroup.POST("/image", importController.ImportImage)
	importGroup.POST("/scan", importController.ScanLandmark)

	discoverGroup := r.Group("/discover")
	discoverGroup.POST("/similar", discoverController.SimilarStops)
	discoverGroup.POST("/index", discoverController.IndexStop)
	discoverGroup.DELETE("/stops/:stopId", discoverController.RemoveStop)
}
