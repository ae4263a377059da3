package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	apperrors "parkinglot/internal/errors"
	"parkinglot/internal/logging"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().Error().Err(err).Msg("encode response")
	}
}

// writeError answers with the status carried by err. Anything that is not an
// HTTPError is logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.StatusCode(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		logging.Error(r.Context()).Err(err).Int("status", code).Msg("request failed")
	}
	if code == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	writeJSON(w, code, messageResponse{Message: msg})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, apperrors.ErrBadRequest("Invalid " + name)
	}
	return id, nil
}
