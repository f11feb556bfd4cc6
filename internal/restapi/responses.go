package restapi

import (
	"encoding/json"
	"net/http"

	"elcmap/internal/logging"
	"elcmap/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	data, err := json.Marshal(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	setJSONResponseType(&w)
	if _, err := w.Write(append(data, '\n')); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to write response", err)
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	response := models.NewResponse(http.StatusNotFound, nil, "resource not found")

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusNotFound)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to encode not found response", err)
	}
}

func (api *RestAPI) sendMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
