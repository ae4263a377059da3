package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parkinglot/internal/auth"
	"parkinglot/internal/db"
	"parkinglot/internal/logging"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	Reservation    *ReservationHandler
	Parking        *ParkingHandler
	Profile        *ProfileHandler
	Auth           *AuthHandler
	Admin          *AdminHandler
	DB             Pinger
	JWTSecret      string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/reservation", cfg.Reservation.CreateReservation).Methods(http.MethodPost)
	r.HandleFunc("/reservation/{id:[0-9]+}", cfg.Reservation.GetReservation).Methods(http.MethodGet)
	r.HandleFunc("/reservation/{id:[0-9]+}", cfg.Reservation.DeleteReservation).Methods(http.MethodDelete)

	r.HandleFunc("/parkinglots", cfg.Parking.ListParkingLots).Methods(http.MethodGet)
	r.HandleFunc("/mycar/{user_id:[0-9]+}", cfg.Parking.MyCar).Methods(http.MethodGet)
	r.HandleFunc("/history/{spot_id:[0-9]+}", cfg.Parking.History).Methods(http.MethodGet)
	r.HandleFunc("/userstatus/{user_id:[0-9]+}", cfg.Parking.UserStatus).Methods(http.MethodGet)

	r.HandleFunc("/profile/{user_id:[0-9]+}", cfg.Profile.GetProfile).Methods(http.MethodGet)
	r.HandleFunc("/profile/{user_id:[0-9]+}", cfg.Profile.CreateProfile).Methods(http.MethodPost)
	r.HandleFunc("/profile/{user_id:[0-9]+}", cfg.Profile.UpdateProfile).Methods(http.MethodPut)

	r.HandleFunc("/login", cfg.Auth.Login).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.RequireRole([]byte(cfg.JWTSecret), db.RoleAdmin))
	admin.HandleFunc("/reservations", cfg.Admin.ListReservations).Methods(http.MethodGet)
	admin.HandleFunc("/spots/{id:[0-9]+}", cfg.Admin.UpdateSpot).Methods(http.MethodPut)
	admin.HandleFunc("/users", cfg.Admin.CreateUser).Methods(http.MethodPost)

	r.HandleFunc("/healthz", healthz(cfg.DB)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", requestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(cors(r))
}

func healthz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.PingContext(r.Context()); err != nil {
			logging.Warn(r.Context()).Err(err).Msg("health check: database unreachable")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	logging.Logger().Error().Msg(fmt.Sprint(v...))
}
