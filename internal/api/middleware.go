package api

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"parkinglot/internal/logging"
	"parkinglot/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// requestLogger attaches a request-scoped logger, then records an access log
// line and the HTTP metrics once the handler returns.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		route := routeTemplate(r)
		l := logging.Logger().With().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("route", route).
			Logger()
		r = r.WithContext(logging.NewContext(r.Context(), l))

		m := httpsnoop.CaptureMetrics(next, w, r)

		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(m.Code)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(m.Duration.Seconds())
		l.Info().
			Str("path", r.URL.Path).
			Int("status", m.Code).
			Int64("bytes", m.Written).
			Dur("duration", m.Duration).
			Msg("request")
	})
}

// routeTemplate keeps metric labels bounded by using the mux pattern, not the raw path.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
