package controllers_fx

import (
	"go.uber.org/fx"
	"lazytravel/internal/api/controllers"
)

var Module = fx.Provide(
	controllers.NewTripController,
	controllers.NewRoutingController,
	controllers.NewImportController,
	controllers.NewDiscoverController,
)
