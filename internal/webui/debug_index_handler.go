package webui

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"

	"elcmap/internal/elc"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

// spewConfig sorts map keys so dumps are stable between reloads.
var spewConfig = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title: title,
		Pre:   spewConfig.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type catalogStatus struct {
	LoadedFrom  string
	LastUpdated time.Time
	Years       []string
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "routes":
		routes := make(elc.RouteList)
		if webUI.Catalog != nil {
			for _, year := range webUI.Catalog.Years() {
				routes[year] = webUI.Catalog.Routes(year)
			}
		}
		data = routes
		title = "Route Catalog - Routes"
	case "catalog":
		status := catalogStatus{}
		if webUI.Catalog != nil {
			status = catalogStatus{
				LoadedFrom:  webUI.Catalog.LoadedFrom(),
				LastUpdated: webUI.Catalog.LastUpdated(),
				Years:       webUI.Catalog.Years(),
			}
		}
		data = status
		title = "Route Catalog - Status"
	case "layer":
		if webUI.Layer != nil {
			data = webUI.Layer.Features()
		}
		title = "Display Layer - Features"
	case "config":
		cfg := webUI.Config
		cfg.ApiKeys = redactKeys(cfg.ApiKeys)
		data = cfg
		title = "Configuration"
	default:
		data = map[string]string{
			"error": "Please use one of the following: routes, catalog, layer, config.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}

func redactKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if len(k) <= 2 {
			out[i] = "**"
			continue
		}
		out[i] = k[:2] + "****"
	}
	return out
}
