package router

import (
	"net/http"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/handlers"
	"github.com/Barathimeena/AirRoute-Hub/internal/websocket"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, hub *websocket.Hub) *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/hubs", h.GetHubs).Methods(http.MethodGet, http.MethodOptions)

	// Flights
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}/seats", h.GetFlightSeats).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}/quote", h.QuoteFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/{id}/standby", h.JoinStandby).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/catering", h.GetCatering).Methods(http.MethodGet, http.MethodOptions)

	// Booking sessions
	api.HandleFunc("/sessions", h.StartSession).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/sessions/{id}", h.AbandonSession).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/events", h.ApplyEvent).Methods(http.MethodPost, http.MethodOptions)

	// Bookings and notifications
	api.HandleFunc("/users/{userId}/bookings", h.GetUserBookings).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/users/{userId}/notifications", h.GetNotifications).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/notifications/{id}", h.DismissNotification).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/bookings/{id}/countdown", h.GetCountdown).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/reminders/due", h.GetDueReminders).Methods(http.MethodGet, http.MethodOptions)

	// Admin
	api.HandleFunc("/admin/flights", h.AddFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/admin/flights/{id}/bookings", h.GetFlightBookings).Methods(http.MethodGet, http.MethodOptions)

	// Collaborators
	api.HandleFunc("/currency", h.GetCurrency).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/assistant", h.Ask).Methods(http.MethodPost, http.MethodOptions)

	// WebSocket for live notifications and countdowns
	if hub != nil {
		api.HandleFunc("/ws", hub.ServeWS)
	}

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request. The websocket route is
// skipped since hijacking needs the raw writer.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/ws" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("HTTP request")
	})
}
