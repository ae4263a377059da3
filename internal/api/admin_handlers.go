package api

import (
	"net/http"

	"parkinglot/internal/entities"
	"parkinglot/internal/service"
)

// AdminHandler serves the operator routes mounted under /admin.
type AdminHandler struct {
	Reservations *service.ReservationService
	Parking      *service.ParkingService
	Auth         service.AuthService
}

func NewAdminHandler(res *service.ReservationService, parking *service.ParkingService, authSvc service.AuthService) *AdminHandler {
	return &AdminHandler{Reservations: res, Parking: parking, Auth: authSvc}
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	list, err := h.Reservations.ListReservations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) UpdateSpot(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req entities.SpotUpdateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	spot, err := h.Parking.UpdateSpot(r.Context(), spotID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.Auth.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
