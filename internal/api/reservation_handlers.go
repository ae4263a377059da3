package api

import (
	"encoding/json"
	"mime"
	"net/http"

	"parkinglot/internal/entities"
	apperrors "parkinglot/internal/errors"
	"parkinglot/internal/service"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Service.GetReservation(r.Context(), carID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Service.DeleteReservation(r.Context(), carID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Reservation deleted"})
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Service.CreateReservation(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeJSONBody requires an application/json body that decodes into v.
// Anything else is 415.
func decodeJSONBody(r *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return apperrors.ErrUnsupportedMediaType("Request body must be JSON")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.ErrUnsupportedMediaType("Request body must be valid JSON")
	}
	return nil
}
