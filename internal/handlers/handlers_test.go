package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Barathimeena/AirRoute-Hub/internal/booking"
	"github.com/Barathimeena/AirRoute-Hub/internal/catalog"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/service/mocks"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}/seats", h.GetFlightSeats).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}/quote", h.QuoteFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id}/standby", h.JoinStandby).Methods(http.MethodPost)
	api.HandleFunc("/catering", h.GetCatering).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.StartSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.AbandonSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/events", h.ApplyEvent).Methods(http.MethodPost)
	api.HandleFunc("/users/{userId}/bookings", h.GetUserBookings).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}", h.DismissNotification).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{id}/countdown", h.GetCountdown).Methods(http.MethodGet)
	api.HandleFunc("/admin/flights", h.AddFlight).Methods(http.MethodPost)
	api.HandleFunc("/currency", h.GetCurrency).Methods(http.MethodGet)
	api.HandleFunc("/assistant", h.Ask).Methods(http.MethodPost)
	return r
}

func testFlight() *models.Flight {
	return &models.Flight{
		ID: "AI-3000", Airline: "Air India", Origin: "Chennai", OriginCode: "MAA", Destination: "New Delhi", DestinationCode: "DEL",
		DepartureDate: "2026-04-02", DepartureTime: "08:20", BasePrice: 150, TotalSeats: 200, PassengersBooked: 50,
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHandler_GetFlights(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	expected := []models.FlightView{testFlight().View()}
	mockService.On("SearchFlights", mock.Anything, catalog.Query{Origin: "maa", Date: "2026-04-02"}, 5, true).Return(expected, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/flights?origin=maa&date=2026-04-02&limit=5&strict=true", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []map[string]interface{}
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	require.Len(t, response, 1)
	assert.Equal(t, "AI-3000", response[0]["id"])
	assert.Equal(t, float64(150), response[0]["availableUnits"])
	assert.Equal(t, false, response[0]["isSoldOut"])

	mockService.AssertExpectations(t)
}

func TestHandler_GetFlights_BadLimit(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	req := httptest.NewRequest(http.MethodGet, "/api/flights?limit=-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "SearchFlights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetFlight(t *testing.T) {
	view := testFlight().View()

	tests := []struct {
		name           string
		flightID       string
		mockReturn     *models.FlightView
		mockError      error
		expectedStatus int
	}{
		{
			name:           "flight found",
			flightID:       "AI-3000",
			mockReturn:     &view,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "flight not found",
			flightID:       "XX-1",
			mockError:      fmt.Errorf("flight XX-1: %w", models.ErrNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "store unavailable",
			flightID:       "AI-3000",
			mockError:      &models.PersistenceError{Op: "get flight", Retryable: true, Err: assert.AnError},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.mockReturn != nil {
				mockService.On("GetFlight", mock.Anything, tt.flightID).Return(tt.mockReturn, nil)
			} else {
				mockService.On("GetFlight", mock.Anything, tt.flightID).Return(nil, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/flights/"+tt.flightID, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetFlightSeats(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	seats := []models.Seat{
		{ID: "1A", Row: 1, Column: "A", Status: models.SeatStatusAvailable},
		{ID: "1F", Row: 1, Column: "F", Status: models.SeatStatusTaken},
	}
	mockService.On("GetSeatMap", mock.Anything, "AI-3000").Return(seats, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/flights/AI-3000/seats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []models.Seat
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, seats, response)
}

func TestHandler_QuoteFlight(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	quoteReq := models.QuoteRequest{Passengers: models.PassengerCounts{Adult: 1}, Currency: models.CurrencyINR}
	mockService.On("QuoteFlight", mock.Anything, "AI-3000", quoteReq).Return(&models.Quote{
		Breakdown: models.PriceBreakdown{Total: 168},
		Currency:  models.CurrencyINR,
		Display:   map[string]string{"total": "₹13,944"},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/flights/AI-3000/quote", jsonBody(t, quoteReq))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response models.Quote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "₹13,944", response.Display["total"])
}

func TestHandler_JoinStandby(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *models.Notification
		mockError      error
		expectedStatus int
	}{
		{
			name:           "sold out flight",
			mockReturn:     &models.Notification{ID: "n-1", Type: models.NotificationAlert, Title: "Standby Active"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "seats still available",
			mockError:      models.NewValidationError("flightId", "standby is only offered on sold-out flights"),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.mockReturn != nil {
				mockService.On("JoinStandby", mock.Anything, "AI-3000", models.StandbyRequest{UserID: "u-1"}).Return(tt.mockReturn, nil)
			} else {
				mockService.On("JoinStandby", mock.Anything, "AI-3000", models.StandbyRequest{UserID: "u-1"}).Return(nil, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/flights/AI-3000/standby", jsonBody(t, models.StandbyRequest{UserID: "u-1"}))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetCatering(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	items := []models.CateringItem{{ID: "v1", Label: "Paneer Tikka", Category: models.CategoryFood, FoodType: models.FoodTypeVeg}}
	mockService.On("CateringMenu", mock.Anything, models.FoodTypeVeg).Return(items, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/catering?preference=Veg", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_StartSession(t *testing.T) {
	validReq := models.StartSessionRequest{
		FlightID:   "AI-3000",
		UserID:     "u-1",
		UserName:   "Asha",
		UserEmail:  "asha@example.com",
		Passengers: models.PassengerCounts{Adult: 1},
	}

	tests := []struct {
		name           string
		body           interface{}
		mockReturn     *booking.Snapshot
		mockError      error
		expectedStatus int
	}{
		{
			name:           "session started",
			body:           validReq,
			mockReturn:     &booking.Snapshot{SessionID: "abc12345", Step: booking.StepSeats, SeatCapacity: 1},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "sold out",
			body:           validReq,
			mockError:      fmt.Errorf("flight AI-3000 has 0 seats left: %w", models.ErrSoldOut),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid body",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			router := setupTestRouter(NewHandler(mockService))

			// httptest requests come from 192.0.2.1
			expected := validReq
			expected.ClientIP = "192.0.2.1"
			if tt.mockReturn != nil {
				mockService.On("StartSession", mock.Anything, expected).Return(tt.mockReturn, nil)
			} else if tt.mockError != nil {
				mockService.On("StartSession", mock.Anything, expected).Return(nil, tt.mockError)
			}

			var body *bytes.Buffer
			if s, ok := tt.body.(string); ok {
				body = bytes.NewBufferString(s)
			} else {
				body = jsonBody(t, tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/sessions", body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_ApplyEvent(t *testing.T) {
	ev := models.SessionEvent{Type: models.EventToggleSeat, SeatID: "2C"}

	tests := []struct {
		name           string
		mockReturn     *booking.Snapshot
		mockError      error
		expectedStatus int
	}{
		{
			name:           "event applied",
			mockReturn:     &booking.Snapshot{SessionID: "s1", Step: booking.StepSeats, Seats: []string{"2C"}, Revision: 1},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "session processing",
			mockError:      &booking.TransitionError{From: booking.StepProcessing, Event: models.EventToggleSeat},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown session",
			mockError:      fmt.Errorf("session s1: %w", models.ErrNotFound),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.mockReturn != nil {
				mockService.On("ApplyEvent", mock.Anything, "s1", ev).Return(tt.mockReturn, nil)
			} else {
				mockService.On("ApplyEvent", mock.Anything, "s1", ev).Return(nil, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/sessions/s1/events", jsonBody(t, ev))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_AbandonSession(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("AbandonSession", mock.Anything, "s1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_GetUserBookings(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("UserBookings", mock.Anything, "u-1").Return([]models.Booking{{ID: "ELT-ABC123", UserID: "u-1"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/u-1/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []models.Booking
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, "ELT-ABC123", response[0].ID)
}

func TestHandler_DismissNotification(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("DismissNotification", mock.Anything, "n-1").Return(nil)
	mockService.On("DismissNotification", mock.Anything, "n-2").Return(fmt.Errorf("notification n-2: %w", models.ErrNotFound))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/notifications/n-1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/notifications/n-2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetCountdown(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("Countdown", mock.Anything, "ELT-1").Return(&models.Countdown{
		BookingID: "ELT-1", Remaining: 5400, Text: "1h 30m 0s", Label: "1h 30m", Urgency: "soon",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/ELT-1/countdown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response models.Countdown
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "1h 30m 0s", response.Text)
}

func TestHandler_AddFlight(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	newReq := models.NewFlightRequest{
		Airline: "Vistara", Origin: "Mumbai", OriginCode: "BOM", Destination: "Pune", DestinationCode: "PNQ",
		DepartureDate: "2026-05-01", DepartureTime: "06:45", BasePrice: 90, TotalSeats: 120,
	}
	created := &models.Flight{ID: "FL-A1B2C3", Origin: "Mumbai", Destination: "Pune", TotalSeats: 120}
	view := created.View()
	mockService.On("AddFlight", mock.Anything, newReq).Return(&view, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/flights", jsonBody(t, newReq))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_GetCurrency(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("DetectCurrency", mock.Anything, "49.36.0.1").Return(models.CurrencyINR)
	mockService.On("DetectCurrency", mock.Anything, "").Return(models.CurrencyUSD)

	req := httptest.NewRequest(http.MethodGet, "/api/currency", nil)
	req.Header.Set("X-Forwarded-For", "49.36.0.1, 10.0.0.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"currency":"INR"}`, rec.Body.String())

	// loopback peers fall through to the server's own address
	req = httptest.NewRequest(http.MethodGet, "/api/currency", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"currency":"USD"}`, rec.Body.String())
}

func TestHandler_Ask(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	router := setupTestRouter(NewHandler(mockService))

	askReq := models.AssistantRequest{Prompt: "Best time to fly to Dubai?"}
	mockService.On("Ask", mock.Anything, askReq).Return(models.AssistantResponse{Text: "Winter is pleasant."})

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", jsonBody(t, askReq))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/assistant", jsonBody(t, models.AssistantRequest{}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockService.AssertExpectations(t)
}
