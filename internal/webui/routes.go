// Package webui serves the map client's stylesheets and a debug view of
// server state.
package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"elcmap/internal/app"
	"elcmap/internal/appconf"
)

type WebUI struct {
	*app.Application
}

// SetWebUIRoutes registers /styles and, outside production, /debug. The
// debug page needs an API key like the JSON API.
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/styles/:name", webUI.stylesHandler)
	if webUI.Config.Env != appconf.Production {
		router.Handler(http.MethodGet, "/debug/", webUI.requireAPIKey(webUI.debugIndexHandler))
	}
}

func (webUI *WebUI) requireAPIKey(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if webUI.RequestHasInvalidAPIKey(r) {
			http.Error(w, "permission denied", http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}
