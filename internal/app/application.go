package app

import (
	"context"
	"log/slog"

	"elcmap/internal/appconf"
	"elcmap/internal/catalog"
	"elcmap/internal/elc"
	"elcmap/internal/graphic"
)

// Locator resolves route measures and map points against the LRS.
// *elc.Client satisfies it.
type Locator interface {
	FindRouteLocations(ctx context.Context, params elc.FindRouteLocationsParams) ([]elc.RouteLocation, error)
	FindNearestRouteLocations(ctx context.Context, params elc.FindNearestRouteLocationsParams) ([]elc.RouteLocation, error)
}

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Locator Locator
	Catalog *catalog.Manager
	Layer   *graphic.Layer
}

// Shutdown releases background resources.
func (app *Application) Shutdown() {
	if app.Catalog != nil {
		app.Catalog.Shutdown()
	}
}
