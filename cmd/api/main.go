package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"elcmap/internal/app"
	"elcmap/internal/appconf"
	"elcmap/internal/catalog"
	"elcmap/internal/elc"
	"elcmap/internal/graphic"
	"elcmap/internal/logging"
	"elcmap/internal/restapi"
	"elcmap/internal/routedb"
	"elcmap/internal/webui"
)

func main() {
	if err := appconf.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

// parseConfig reads flags. Every flag defaults to an environment variable.
func parseConfig(args []string) (appconf.Config, error) {
	var cfg appconf.Config
	var env, apiKeys, logLevel string

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", appconf.GetenvInt("PORT", 4000), "API server port")
	fs.StringVar(&env, "env", appconf.Getenv("APP_ENV", "production"), "Environment (development|test|production)")
	fs.StringVar(&apiKeys, "api-keys", appconf.Getenv("API_KEYS", "test"), "Comma Separated API Keys (test, etc)")
	fs.IntVar(&cfg.RateLimit, "rate-limit", appconf.GetenvInt("RATE_LIMIT", 100), "Requests per second per API key (0 disables)")
	fs.StringVar(&cfg.ELCURL, "elc-url", appconf.Getenv("ELC_URL", elc.DefaultBaseURL), "Base URL of the ELC REST SOE")
	fs.StringVar(&cfg.RouteDBPath, "route-db", appconf.Getenv("ROUTE_DB_PATH", "routes.db"), "SQLite file caching the route list")
	fs.DurationVar(&cfg.RouteRefreshInterval, "route-refresh", appconf.GetenvDuration("ROUTE_REFRESH_INTERVAL", 24*time.Hour), "Route list refresh interval (0 disables)")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", appconf.GetenvDuration("REQUEST_TIMEOUT", 15*time.Second), "Timeout for one ELC request")
	fs.IntVar(&cfg.DefaultOutSR, "out-sr", appconf.GetenvInt("DEFAULT_OUT_SR", appconf.DefaultOutSR), "Default output spatial reference wkid")
	fs.IntVar(&cfg.MaxLayerFeatures, "layer-max", appconf.GetenvInt("LAYER_MAX_FEATURES", graphic.DefaultMaxLayerFeatures), "Features kept in the display layer before the oldest are evicted")
	fs.StringVar(&logLevel, "log-level", appconf.Getenv("LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Env = appconf.EnvFlagToEnvironment(env)
	cfg.ApiKeys = appconf.SplitAPIKeys(apiKeys)

	level, err := appconf.ParseLogLevel(logLevel)
	if err != nil {
		return cfg, err
	}
	cfg.LogLevel = level

	return cfg, cfg.Validate()
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	locator := elc.NewClient(cfg.ELCURL)
	locator.Timeout = cfg.RequestTimeout
	locator.Logger = logging.WithComponent(logger, "elc")

	db, err := routedb.NewClient(routedb.NewConfig(cfg.RouteDBPath, cfg.Env, cfg.LogLevel <= slog.LevelDebug), logger)
	if err != nil {
		return fmt.Errorf("open route database: %w", err)
	}

	catalogManager, err := catalog.InitManager(ctx, catalog.Config{
		RefreshInterval: cfg.RouteRefreshInterval,
	}, locator, db, logger)
	if err != nil {
		// The API still answers locate requests without a catalog; only
		// route checks and /api/routes.json are unavailable.
		logging.LogError(logger, "failed to load route catalog", err)
		_ = db.Close()
	}

	application := &app.Application{
		Config:  cfg,
		Logger:  logger,
		Locator: locator,
		Catalog: catalogManager,
		Layer:   graphic.NewLayer(cfg.MaxLayerFeatures),
	}
	defer application.Shutdown()

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	router := httprouter.New()
	api.SetRoutes(router)
	(&webui.WebUI{Application: application}).SetWebUIRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(router),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String(), "elc_url", cfg.ELCURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
