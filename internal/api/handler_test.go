package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/model"
	"table-booking-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gormDB.AutoMigrate(&model.Booking{}, &model.PushSubscription{}, &model.SubscriptionRoom{}))
	return store.NewGormStore(gormDB)
}

func newTestService(t *testing.T, s store.Store, seed ...booking.Room) *booking.Service {
	t.Helper()
	registry := booking.NewRegistry(nil, nil)
	require.NoError(t, registry.Seed(seed))

	var journal booking.Journal
	if s != nil {
		journal = s
	}
	return booking.NewService(registry, journal, nil, nil)
}

func room(name string, tables ...string) booking.Room {
	r := booking.Room{Name: name}
	for _, t := range tables {
		r.Tables = append(r.Tables, booking.Table{FullName: t})
	}
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func ptr[T any](v T) *T {
	return &v
}

// testOptions keeps the rate limiter out of the way.
var testOptions = Options{RateLimitPerSec: 1000, RateLimitBurst: 1000}
