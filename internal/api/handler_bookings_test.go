package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-booking-backend/internal/booking"
)

func TestPostBooking(t *testing.T) {
	testCases := []struct {
		name        string
		seed        []booking.Room
		req         PostBookingRequest
		wantStatus  int
		wantOutcome booking.Outcome
		wantTable   string
		wantTables  []string
	}{
		{
			name:        "Rejected room",
			req:         PostBookingRequest{Room: "Room 4", Table: "00"},
			wantStatus:  http.StatusBadRequest,
			wantOutcome: booking.OutcomeRejected,
		},
		{
			name:        "Added",
			seed:        []booking.Room{room("Room 1", "00")},
			req:         PostBookingRequest{Room: "Room 1", Table: "A01"},
			wantStatus:  http.StatusCreated,
			wantOutcome: booking.OutcomeAdded,
			wantTable:   "A01",
			wantTables:  []string{"00", "A01"},
		},
		{
			name:        "Duplicate without a decision asks",
			seed:        []booking.Room{room("Room 1", "00")},
			req:         PostBookingRequest{Room: "Room 1", Table: "00"},
			wantStatus:  http.StatusConflict,
			wantOutcome: booking.OutcomeConfirmationRequired,
			wantTables:  []string{"00"},
		},
		{
			name:        "Duplicate declined",
			seed:        []booking.Room{room("Room 1", "00")},
			req:         PostBookingRequest{Room: "Room 1", Table: "00", AcceptFallback: ptr(false)},
			wantStatus:  http.StatusOK,
			wantOutcome: booking.OutcomeCancelled,
			wantTables:  []string{"00"},
		},
		{
			name:        "Duplicate accepted",
			seed:        []booking.Room{room("Room 1", "00")},
			req:         PostBookingRequest{Room: "Room 1", Table: "00", AcceptFallback: ptr(true), ExpectTable: "01"},
			wantStatus:  http.StatusCreated,
			wantOutcome: booking.OutcomeAddedFallback,
			wantTable:   "01",
			wantTables:  []string{"00", "01"},
		},
		{
			name:        "Accepted but the offer moved on",
			seed:        []booking.Room{room("Room 1", "00", "01")},
			req:         PostBookingRequest{Room: "Room 1", Table: "00", AcceptFallback: ptr(true), ExpectTable: "01"},
			wantStatus:  http.StatusConflict,
			wantOutcome: booking.OutcomeConfirmationRequired,
			wantTables:  []string{"00", "01"},
		},
		{
			name:        "Saturated",
			seed:        []booking.Room{room("Room 1", booking.Candidates()...)},
			req:         PostBookingRequest{Room: "Room 1", Table: "00", AcceptFallback: ptr(true)},
			wantStatus:  http.StatusConflict,
			wantOutcome: booking.OutcomeSaturated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, nil, tc.seed...)
			router := NewRouter(svc, nil, nil, testOptions, nil)

			w := doJSON(t, router, http.MethodPost, "/api/bookings", tc.req)
			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())

			res := decode[booking.Result](t, w)
			assert.Equal(t, tc.wantOutcome, res.Outcome)
			assert.Equal(t, tc.wantTable, res.Table)
			assert.NotEmpty(t, res.Message)

			if tc.wantTables != nil {
				r, ok := svc.Registry().FindRoomByName(tc.req.Room)
				require.True(t, ok)
				assert.Equal(t, tc.wantTables, r.TableNames())
			}
		})
	}
}

func TestPostBooking_InvalidBody(t *testing.T) {
	router := NewRouter(newTestService(t, nil), nil, nil, testOptions, nil)

	w := doJSON(t, router, http.MethodPost, "/api/bookings", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}

func TestFallbackDecision(t *testing.T) {
	offer := booking.Fallback{Suggestion: booking.Suggestion{Room: "Room 1", Table: "02"}}
	ctx := context.Background()

	assert.Equal(t, booking.Defer, fallbackDecision(nil, "").ConfirmFallback(ctx, offer))
	assert.Equal(t, booking.Decline, fallbackDecision(ptr(false), "02").ConfirmFallback(ctx, offer))
	assert.Equal(t, booking.Accept, fallbackDecision(ptr(true), "").ConfirmFallback(ctx, offer))
	assert.Equal(t, booking.Accept, fallbackDecision(ptr(true), "02").ConfirmFallback(ctx, offer))
	assert.Equal(t, booking.Defer, fallbackDecision(ptr(true), "03").ConfirmFallback(ctx, offer))
}

func TestGetBookings(t *testing.T) {
	s := newTestStore(t)
	svc := newTestService(t, s, room("Room 1", "00"))
	router := NewRouter(svc, s, nil, testOptions, nil)

	doJSON(t, router, http.MethodPost, "/api/bookings", PostBookingRequest{Room: "Room 1", Table: "01"})
	doJSON(t, router, http.MethodPost, "/api/bookings", PostBookingRequest{Room: "Room 9", Table: "01"})
	doJSON(t, router, http.MethodPost, "/api/bookings", PostBookingRequest{Room: "Room 1", Table: "00"})

	w := doJSON(t, router, http.MethodGet, "/api/bookings?room=Room%201", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]BookingResponse](t, w)
	require.Len(t, rows, 1, "deferred confirmations are not journalled")
	assert.Equal(t, "added", rows[0].Outcome)
	assert.Equal(t, "01", rows[0].Table)

	w = doJSON(t, router, http.MethodGet, "/api/bookings", nil)
	assert.Len(t, decode[[]BookingResponse](t, w), 2)

	w = doJSON(t, router, http.MethodGet, "/api/bookings?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookings_NoStore(t *testing.T) {
	router := NewRouter(newTestService(t, nil), nil, nil, testOptions, nil)

	w := doJSON(t, router, http.MethodGet, "/api/bookings", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
