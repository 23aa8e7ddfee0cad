package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	service *booking.Service
	store   store.Store
	webpush *webpush.Options
	logger  *zap.Logger
}

// NewHandler creates a new API handler. The store and push options may be
// nil; the endpoints that need them then answer 503.
func NewHandler(svc *booking.Service, s store.Store, webpushOptions *webpush.Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service: svc,
		store:   s,
		webpush: webpushOptions,
		logger:  logger.Named("api"),
	}
}

func (h *Handler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking journal is not configured"})
		return false
	}
	return true
}
