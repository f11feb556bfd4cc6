// Package catalog keeps the list of state routes the locator knows about.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"elcmap/internal/elc"
	"elcmap/internal/logging"
	"elcmap/internal/routedb"
)

// ErrNoRouteList is returned when neither the upstream nor the local store
// can provide routes.
var ErrNoRouteList = errors.New("no route list available")

// Source supplies the authoritative route list.
type Source interface {
	GetRouteList(ctx context.Context) (elc.RouteList, error)
}

// invalidator is implemented by sources that cache, such as *elc.Client.
type invalidator interface {
	InvalidateRouteList()
}

// Manager serves the route list from memory and refreshes it in the background.
type Manager struct {
	source       Source
	db           *routedb.Client
	logger       *slog.Logger
	config       Config
	routes       elc.RouteList
	lastUpdated  time.Time
	loadedFrom   string
	mu           sync.RWMutex
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager loads the route list from source, falling back to db when the
// upstream is unavailable. db may be nil.
func InitManager(ctx context.Context, config Config, source Source, db *routedb.Client, logger *slog.Logger) (*Manager, error) {
	manager := &Manager{
		source:       source,
		db:           db,
		logger:       logging.WithComponent(logger, "catalog"),
		config:       config,
		shutdownChan: make(chan struct{}),
	}

	loadCtx, cancel := context.WithTimeout(ctx, config.loadTimeout())
	err := manager.Refresh(loadCtx)
	cancel()
	if err != nil {
		logging.LogError(manager.logger, "initial route list load failed, trying local store", err)
		if fallbackErr := manager.loadFromStore(ctx); fallbackErr != nil {
			return nil, errors.Join(err, fallbackErr)
		}
	}

	if config.periodicRefreshEnabled() {
		manager.wg.Add(1)
		go manager.refreshPeriodically()
	}

	return manager, nil
}

// Shutdown stops the refresh goroutine and closes the store.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		if manager.db != nil {
			logging.SafeCloseWithLogging(manager.db, manager.logger, "close_route_db")
		}
	})
}

// Refresh fetches the route list from the source and persists it.
func (manager *Manager) Refresh(ctx context.Context) error {
	if manager.source == nil {
		return fmt.Errorf("%w: no source configured", ErrNoRouteList)
	}
	if inv, ok := manager.source.(invalidator); ok {
		inv.InvalidateRouteList()
	}

	routes, err := manager.source.GetRouteList(ctx)
	if err != nil {
		return fmt.Errorf("fetch route list: %w", err)
	}
	if len(routes) == 0 {
		return fmt.Errorf("%w: upstream returned an empty list", ErrNoRouteList)
	}
	manager.setRoutes(routes, "upstream")

	if manager.db != nil {
		if err := manager.db.ReplaceRoutes(ctx, routes, "elc"); err != nil {
			logging.LogError(manager.logger, "failed to persist route list", err)
		}
	}
	return nil
}

func (manager *Manager) loadFromStore(ctx context.Context) error {
	if manager.db == nil {
		return fmt.Errorf("%w: no local store", ErrNoRouteList)
	}
	routes, err := manager.db.RouteList(ctx)
	if err != nil {
		return fmt.Errorf("load stored route list: %w", err)
	}
	if len(routes) == 0 {
		return fmt.Errorf("%w: local store is empty", ErrNoRouteList)
	}
	manager.setRoutes(routes, "store")
	return nil
}

func (manager *Manager) refreshPeriodically() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), manager.config.loadTimeout())
			err := manager.Refresh(ctx)
			cancel()
			if err != nil {
				// Keep serving the previous list.
				logging.LogError(manager.logger, "route list refresh failed", err)
			}
		case <-manager.shutdownChan:
			manager.logger.Info("shutting down route list refresh")
			return
		}
	}
}

func (manager *Manager) setRoutes(routes elc.RouteList, from string) {
	manager.mu.Lock()
	manager.routes = routes
	manager.lastUpdated = time.Now()
	manager.loadedFrom = from
	manager.mu.Unlock()

	if manager.config.Verbose {
		logging.LogOperation(manager.logger, "route_list_updated",
			slog.String("from", from),
			slog.Int("lrs_years", len(routes)))
	}
}

// Routes returns a copy of the routes for lrsYear; "" means the current year.
func (manager *Manager) Routes(lrsYear string) []elc.Route {
	if lrsYear == "" {
		lrsYear = elc.CurrentLrsYear
	}
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	src := manager.routes[lrsYear]
	if src == nil {
		return nil
	}
	out := make([]elc.Route, len(src))
	copy(out, src)
	return out
}

// HasRoute reports whether routeID exists in lrsYear; "" means the current year.
func (manager *Manager) HasRoute(lrsYear, routeID string) bool {
	if lrsYear == "" {
		lrsYear = elc.CurrentLrsYear
	}
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, ok := manager.routes.Find(lrsYear, routeID)
	return ok
}

func (manager *Manager) Years() []string {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.routes.Years()
}

func (manager *Manager) LastUpdated() time.Time {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.lastUpdated
}

// LoadedFrom is "upstream" or "store".
func (manager *Manager) LoadedFrom() string {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.loadedFrom
}
