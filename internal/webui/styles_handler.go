package webui

import (
	"errors"
	"net/http"

	"elcmap/internal/logging"
	"elcmap/internal/styles"
	"elcmap/internal/utils"
)

func (webUI *WebUI) stylesHandler(w http.ResponseWriter, r *http.Request) {
	name := utils.ParamWithoutExt(r, "name", ".css")

	css, err := styles.Read(name)
	if err != nil {
		if errors.Is(err, styles.ErrUnknownStylesheet) {
			http.NotFound(w, r)
			return
		}
		logging.LogError(logging.FromContext(r.Context()), "failed to read stylesheet", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(css)
}
