package api

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/mw"
	"table-booking-backend/internal/store"
)

// Options tunes the middleware stack.
type Options struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
}

func (o Options) withDefaults() Options {
	if o.RateLimitPerSec <= 0 {
		o.RateLimitPerSec = 10
	}
	if o.RateLimitBurst <= 0 {
		o.RateLimitBurst = 5
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	return o
}

// NewRouter creates and configures a new Gin router.
func NewRouter(svc *booking.Service, s store.Store, webpushOptions *webpush.Options, opts Options, logger *zap.Logger) *gin.Engine {
	opts = opts.withDefaults()
	r := gin.Default()

	handler := NewHandler(svc, s, webpushOptions, logger)

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst)

	// Cached GETs are flushed by any successful mutation.
	responses := mw.NewResponseCache(opts.CacheTTL)
	caching := responses.Cache()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(rateLimiter, responses.Invalidate())
	{
		api.GET("/rooms", caching, handler.GetRooms)
		api.GET("/rooms/:name", caching, handler.GetRoom)
		api.POST("/rooms", handler.PostRoom)

		api.GET("/tables/free", caching, handler.GetFreeTable)

		api.POST("/bookings", handler.PostBooking)
		api.GET("/bookings", handler.GetBookings)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
