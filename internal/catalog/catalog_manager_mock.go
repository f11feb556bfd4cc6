package catalog

import (
	"time"

	"elcmap/internal/elc"
)

// NewMockManager returns a manager serving routes without a source or store.
func NewMockManager(routes elc.RouteList) *Manager {
	m := &Manager{shutdownChan: make(chan struct{})}
	m.setRoutes(routes, "mock")
	return m
}

// MockAddRoute adds a route to lrsYear unless it is already listed.
func (m *Manager) MockAddRoute(lrsYear, name string, types elc.LrsType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.routes == nil {
		m.routes = make(elc.RouteList)
	}
	if _, ok := m.routes.Find(lrsYear, name); ok {
		return
	}
	m.routes[lrsYear] = append(m.routes[lrsYear], elc.Route{Name: name, LrsTypes: types})
	m.lastUpdated = time.Now()
}
