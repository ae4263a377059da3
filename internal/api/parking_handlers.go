package api

import (
	"net/http"

	"parkinglot/internal/service"
)

type ParkingHandler struct {
	Service *service.ParkingService
}

func NewParkingHandler(svc *service.ParkingService) *ParkingHandler {
	return &ParkingHandler{Service: svc}
}

func (h *ParkingHandler) ListParkingLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.Service.ListParkingLots(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

func (h *ParkingHandler) MyCar(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	car, err := h.Service.MyCar(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *ParkingHandler) History(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathID(r, "spot_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := h.Service.History(r.Context(), spotID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ParkingHandler) UserStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := h.Service.UserStatus(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
