package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/booking"
	"github.com/Barathimeena/AirRoute-Hub/internal/catalog"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	bookingService service.BookingService
}

// NewHandler creates a new Handler instance
func NewHandler(bookingService service.BookingService) *Handler {
	return &Handler{
		bookingService: bookingService,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logrus.WithError(err).Warn("Failed to encode response")
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps service errors onto status codes
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	var terr *booking.TransitionError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrSoldOut), errors.Is(err, models.ErrSeatTaken), errors.As(err, &terr):
		respondError(w, http.StatusConflict, err.Error())
	case models.IsRetryable(err):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logrus.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// GetHubs handles GET /api/hubs
func (h *Handler) GetHubs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.bookingService.Hubs(r.Context()))
}

// GetFlights handles GET /api/flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := catalog.Query{
		Origin:      params.Get("origin"),
		Destination: params.Get("destination"),
		Date:        params.Get("date"),
		Time:        params.Get("time"),
	}
	limit := 0
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	strict := params.Get("strict") == "true"

	flights, err := h.bookingService.SearchFlights(r.Context(), q, limit, strict)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flight, err := h.bookingService.GetFlight(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// GetFlightSeats handles GET /api/flights/{id}/seats
func (h *Handler) GetFlightSeats(w http.ResponseWriter, r *http.Request) {
	seats, err := h.bookingService.GetSeatMap(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, seats)
}

// QuoteFlight handles POST /api/flights/{id}/quote
func (h *Handler) QuoteFlight(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if !decode(w, r, &req) {
		return
	}
	quote, err := h.bookingService.QuoteFlight(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// JoinStandby handles POST /api/flights/{id}/standby
func (h *Handler) JoinStandby(w http.ResponseWriter, r *http.Request) {
	var req models.StandbyRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.bookingService.JoinStandby(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, n)
}

// GetCatering handles GET /api/catering
func (h *Handler) GetCatering(w http.ResponseWriter, r *http.Request) {
	pref := models.FoodType(r.URL.Query().Get("preference"))
	items, err := h.bookingService.CateringMenu(r.Context(), pref)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// StartSession handles POST /api/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if !decode(w, r, &req) {
		return
	}
	req.ClientIP = clientIP(r)
	snap, err := h.bookingService.StartSession(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, snap)
}

// GetSession handles GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.bookingService.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// ApplyEvent handles POST /api/sessions/{id}/events
func (h *Handler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	var ev models.SessionEvent
	if !decode(w, r, &ev) {
		return
	}
	snap, err := h.bookingService.ApplyEvent(r.Context(), mux.Vars(r)["id"], ev)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// AbandonSession handles DELETE /api/sessions/{id}
func (h *Handler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := h.bookingService.AbandonSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Session abandoned"})
}

// GetUserBookings handles GET /api/users/{userId}/bookings
func (h *Handler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.UserBookings(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

// GetNotifications handles GET /api/users/{userId}/notifications
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	log, err := h.bookingService.Notifications(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, log)
}

// MarkNotificationRead handles POST /api/notifications/{id}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.bookingService.MarkNotificationRead(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, n)
}

// DismissNotification handles DELETE /api/notifications/{id}
func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.bookingService.DismissNotification(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCountdown handles GET /api/bookings/{id}/countdown
func (h *Handler) GetCountdown(w http.ResponseWriter, r *http.Request) {
	c, err := h.bookingService.Countdown(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// GetDueReminders handles GET /api/reminders/due
func (h *Handler) GetDueReminders(w http.ResponseWriter, r *http.Request) {
	due, err := h.bookingService.DueReminders(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, due)
}

// AddFlight handles POST /api/admin/flights
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request) {
	var req models.NewFlightRequest
	if !decode(w, r, &req) {
		return
	}
	flight, err := h.bookingService.AddFlight(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, flight)
}

// GetFlightBookings handles GET /api/admin/flights/{id}/bookings
func (h *Handler) GetFlightBookings(w http.ResponseWriter, r *http.Request) {
	overview, err := h.bookingService.FlightBookings(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// GetCurrency handles GET /api/currency
func (h *Handler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	cur := h.bookingService.DetectCurrency(r.Context(), clientIP(r))
	respondJSON(w, http.StatusOK, map[string]models.Currency{"currency": cur})
}

// clientIP prefers an explicit ip parameter, then the proxy header, then
// the peer address. Loopback peers yield "" so the lookup resolves the
// server's own public address.
func clientIP(r *http.Request) string {
	if ip := r.URL.Query().Get("ip"); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsLoopback() || ip.IsPrivate() {
		return ""
	}
	return host
}

// Ask handles POST /api/assistant
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AssistantRequest
	if !decode(w, r, &req) {
		return
	}
	if err := models.Validate(req); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.bookingService.Ask(r.Context(), req))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
