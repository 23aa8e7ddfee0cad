package model

import "time"

// Booking is one journalled add-table attempt. Columns holding user input are
// unbounded text so that no attempt is lost to a length limit.
type Booking struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Room           string    `gorm:"index;type:text;not null"`
	RequestedTable string    `gorm:"type:text;not null"`
	Table          string    `gorm:"column:booked_table;type:text"` // empty when nothing was appended
	SuggestedRoom  string    `gorm:"type:text"`
	SuggestedTable string    `gorm:"size:64"`
	Outcome        string    `gorm:"index;size:32;not null"`
	Message        string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"index;not null"`
}
