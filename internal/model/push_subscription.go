package model

import "time"

// PushSubscription holds the information for a staff browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Rooms []SubscriptionRoom `gorm:"foreignKey:Endpoint;references:Endpoint;constraint:OnDelete:CASCADE"`
}

// SubscriptionRoom links a subscription to a room it wants bookings for.
type SubscriptionRoom struct {
	Endpoint string `gorm:"primaryKey"`
	RoomName string `gorm:"primaryKey;size:128"`
}
