package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ParamWithoutExt returns the named route parameter with a single trailing
// ext removed, so "/styles/elc-ui.css" and "/styles/elc-ui" resolve alike.
func ParamWithoutExt(r *http.Request, paramName, ext string) string {
	value := httprouter.ParamsFromContext(r.Context()).ByName(paramName)
	return strings.TrimSuffix(value, ext)
}
