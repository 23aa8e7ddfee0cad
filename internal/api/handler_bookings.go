package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/store"
)

// PostBookingRequest is the body of POST /api/bookings. A missing
// AcceptFallback means the user has not been asked yet.
type PostBookingRequest struct {
	Room           string `json:"room"`
	Table          string `json:"table"`
	AcceptFallback *bool  `json:"accept_fallback,omitempty"`
	ExpectTable    string `json:"expect_table,omitempty"`
}

// fallbackDecision answers the fallback offer from the request. An accepted
// offer whose table no longer matches what the user was shown is deferred.
func fallbackDecision(accept *bool, expect string) booking.Confirmer {
	return booking.ConfirmFunc(func(_ context.Context, f booking.Fallback) booking.Decision {
		switch {
		case accept == nil:
			return booking.Defer
		case !*accept:
			return booking.Decline
		case expect != "" && expect != f.Suggestion.Table:
			return booking.Defer
		}
		return booking.Accept
	})
}

func statusFor(o booking.Outcome) int {
	switch o {
	case booking.OutcomeAdded, booking.OutcomeAddedFallback:
		return http.StatusCreated
	case booking.OutcomeRejected:
		return http.StatusBadRequest
	case booking.OutcomeSaturated, booking.OutcomeConfirmationRequired:
		return http.StatusConflict
	}
	return http.StatusOK
}

// PostBooking handles POST /api/bookings.
func (h *Handler) PostBooking(c *gin.Context) {
	var req PostBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.service.AddTable(c.Request.Context(),
		booking.Request{Room: req.Room, Table: req.Table},
		fallbackDecision(req.AcceptFallback, req.ExpectTable))
	if err != nil {
		h.logger.Error("booking failed", zap.String("room", req.Room), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(statusFor(res.Outcome), res)
}

// BookingResponse is one journal row.
type BookingResponse struct {
	ID             string    `json:"id"`
	Room           string    `json:"room"`
	RequestedTable string    `json:"requestedTable"`
	Table          string    `json:"table,omitempty"`
	SuggestedRoom  string    `json:"suggestedRoom,omitempty"`
	SuggestedTable string    `json:"suggestedTable,omitempty"`
	Outcome        string    `json:"outcome"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
}

// GetBookings handles GET /api/bookings?room=&limit=.
func (h *Handler) GetBookings(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	filter := store.BookingFilter{Room: c.Query("room")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = limit
	}

	rows, err := h.store.ListBookings(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}

	responses := make([]BookingResponse, 0, len(rows))
	for _, r := range rows {
		responses = append(responses, BookingResponse{
			ID:             r.ID,
			Room:           r.Room,
			RequestedTable: r.RequestedTable,
			Table:          r.Table,
			SuggestedRoom:  r.SuggestedRoom,
			SuggestedTable: r.SuggestedTable,
			Outcome:        r.Outcome,
			Message:        r.Message,
			CreatedAt:      r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, responses)
}
