package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/model"
)

var ErrNotFound = errors.New("record not found")

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// BookingFilter narrows ListBookings.
type BookingFilter struct {
	Room  string
	Limit int
}

// Store defines the interface for all journal database operations.
type Store interface {
	RecordBooking(ctx context.Context, res booking.Result) error
	ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error)

	UpsertSubscription(ctx context.Context, sub model.PushSubscription, rooms []string) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForRoom(ctx context.Context, room string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// RecordBooking appends a booking result to the journal.
func (s *gormStore) RecordBooking(ctx context.Context, res booking.Result) error {
	row := model.Booking{
		ID:             uuid.NewString(),
		Room:           res.Room,
		RequestedTable: res.RequestedTable,
		Table:          res.Table,
		Outcome:        string(res.Outcome),
		Message:        res.Message,
		CreatedAt:      s.now(),
	}
	if res.Suggestion != nil {
		row.SuggestedRoom = res.Suggestion.Room
		row.SuggestedTable = res.Suggestion.Table
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record booking for room %q: %w", res.Room, err)
	}
	return nil
}

// ListBookings returns journal rows, newest first.
func (s *gormStore) ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if filter.Room != "" {
		q = q.Where("room = ?", filter.Room)
	}

	var rows []model.Booking
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return rows, nil
}

// UpsertSubscription creates or replaces a subscription and its rooms.
func (s *gormStore) UpsertSubscription(ctx context.Context, sub model.PushSubscription, rooms []string) error {
	sub.Rooms = nil
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return err
		}

		if err := tx.Where("endpoint = ?", sub.Endpoint).Delete(&model.SubscriptionRoom{}).Error; err != nil {
			return err
		}

		if len(rooms) == 0 {
			return nil
		}
		links := make([]model.SubscriptionRoom, 0, len(rooms))
		seen := make(map[string]struct{}, len(rooms))
		for _, room := range rooms {
			if _, dup := seen[room]; dup {
				continue
			}
			seen[room] = struct{}{}
			links = append(links, model.SubscriptionRoom{Endpoint: sub.Endpoint, RoomName: room})
		}
		return tx.Create(&links).Error
	})
}

// GetSubscription loads a subscription with its rooms.
func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Rooms").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sub, ErrNotFound
	}
	return sub, err
}

// DeleteSubscription removes a subscription and its room links.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", endpoint).Delete(&model.SubscriptionRoom{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PushSubscription{Endpoint: endpoint}).Error
	})
}

// SubscriptionsForRoom returns every subscription that follows the room.
func (s *gormStore) SubscriptionsForRoom(ctx context.Context, room string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_rooms sr ON sr.endpoint = push_subscriptions.endpoint").
		Where("sr.room_name = ?", room).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for room %q: %w", room, err)
	}
	return subs, nil
}
