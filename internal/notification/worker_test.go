package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-booking-backend/internal/model"
	"table-booking-backend/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// fakeStore serves subscriptions from memory. Methods the pool does not use
// panic through the nil embedded interface.
type fakeStore struct {
	store.Store

	mu      sync.Mutex
	byRoom  map[string][]model.PushSubscription
	err     error
	deleted chan string
}

func (f *fakeStore) SubscriptionsForRoom(_ context.Context, room string) ([]model.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byRoom[room], f.err
}

func (f *fakeStore) DeleteSubscription(_ context.Context, endpoint string) error {
	f.deleted <- endpoint
	return nil
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, &fakeStore{}, &webpush.Options{}, nil)

	wp.NotifyBooked("Room 1", "A01")

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, Job{Room: "Room 1", Table: "A01"}, job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	wp := NewWorkerPool(1, &fakeStore{}, &webpush.Options{}, nil)

	for i := 0; i < cap(wp.Jobs())+5; i++ {
		wp.Dispatch(Job{Room: "Room 1", Table: "00"})
	}
	assert.Len(t, wp.Jobs(), cap(wp.Jobs()))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	fs := &fakeStore{
		byRoom: map[string][]model.PushSubscription{
			"Room 1": {{Endpoint: "https://example.com/push", P256DH: "test_p256dh", Auth: "test_auth"}},
			"Room 2": {{Endpoint: "https://example.com/expired", P256DH: "p", Auth: "a"}},
		},
		deleted: make(chan string, 1),
	}
	wp := NewWorkerPool(1, fs, &webpush.Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification to room subscribers", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "test_p256dh", sub.Keys.P256dh)
				assert.Equal(t, "Table A01 booked in Room 1.", string(payload))
				return response(http.StatusCreated), nil
			},
		}

		wp.NotifyBooked("Room 1", "A01")
		wg.Wait()
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return response(http.StatusGone), nil
			},
		}

		wp.NotifyBooked("Room 2", "00")

		select {
		case endpoint := <-fs.deleted:
			assert.Equal(t, "https://example.com/expired", endpoint)
		case <-time.After(1 * time.Second):
			t.Fatal("expired subscription was not deleted")
		}
	})
}

func TestWorkerPool_SendNotificationsForRoom(t *testing.T) {
	t.Run("no subscribers sends nothing", func(t *testing.T) {
		wp := NewWorkerPool(1, &fakeStore{}, &webpush.Options{}, nil)
		wp.sender = &mockSender{
			SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
				t.Fatal("unexpected send")
				return nil, nil
			},
		}
		wp.sendNotificationsForRoom(context.Background(), Job{Room: "Room 3", Table: "00"})
	})

	t.Run("store error sends nothing", func(t *testing.T) {
		fs := &fakeStore{err: errors.New("db down")}
		wp := NewWorkerPool(1, fs, &webpush.Options{}, nil)
		wp.sender = &mockSender{
			SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
				t.Fatal("unexpected send")
				return nil, nil
			},
		}
		wp.sendNotificationsForRoom(context.Background(), Job{Room: "Room 1", Table: "00"})
	})

	t.Run("send error is not fatal", func(t *testing.T) {
		fs := &fakeStore{byRoom: map[string][]model.PushSubscription{
			"Room 1": {{Endpoint: "a"}, {Endpoint: "b"}},
		}}
		wp := NewWorkerPool(1, fs, &webpush.Options{}, nil)
		var calls int
		wp.sender = &mockSender{
			SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
				calls++
				return nil, errors.New("unreachable")
			},
		}
		wp.sendNotificationsForRoom(context.Background(), Job{Room: "Room 1", Table: "00"})
		require.Equal(t, 2, calls)
	})
}
