package booking

import "errors"

// DefaultRooms is the allow-list used when no other is configured.
var DefaultRooms = []string{"Room 1", "Room 2", "Room 3"}

var (
	ErrInvalidRoom  = errors.New("invalid room name")
	ErrRoomNotFound = errors.New("room not found")
	ErrNoFreeTable  = errors.New("no available tables in any room")
)

// Table is a bookable unit identified by its full name.
type Table struct {
	FullName string `json:"fullName" yaml:"full_name"`
}

// Room is a named container of tables. Tables keep insertion order.
type Room struct {
	Name   string  `json:"name" yaml:"name"`
	Tables []Table `json:"tables" yaml:"tables"`
}

// TableNames returns the full names of the room's tables in order.
func (r Room) TableNames() []string {
	names := make([]string, len(r.Tables))
	for i, t := range r.Tables {
		names[i] = t.FullName
	}
	return names
}

func (r Room) clone() Room {
	tables := make([]Table, len(r.Tables))
	copy(tables, r.Tables)
	return Room{Name: r.Name, Tables: tables}
}
