package booking

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Registry is the in-memory room/table store. Rooms keep the order in which
// they were added.
type Registry struct {
	mu      *sync.RWMutex
	allowed []string
	rooms   []*Room
	logger  *zap.Logger
}

// NewRegistry creates an empty registry. An empty allow-list falls back to
// DefaultRooms.
func NewRegistry(allowed []string, logger *zap.Logger) *Registry {
	if len(allowed) == 0 {
		allowed = DefaultRooms
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		mu:      &sync.RWMutex{},
		allowed: slices.Clone(allowed),
		logger:  logger.Named("registry"),
	}
}

// AllowedRooms returns the room allow-list.
func (r *Registry) AllowedRooms() []string {
	return slices.Clone(r.allowed)
}

// IsValidRoom reports whether name is on the allow-list.
func (r *Registry) IsValidRoom(name string) bool {
	return slices.Contains(r.allowed, name)
}

// FindRoomByName returns a copy of the first room with the given name.
func (r *Registry) FindRoomByName(name string) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if room := r.find(name); room != nil {
		return room.clone(), true
	}
	return Room{}, false
}

// AddRoom appends an empty room unless one with the same name exists.
// It returns ErrInvalidRoom for names outside the allow-list.
func (r *Registry) AddRoom(name string) (bool, error) {
	if !r.IsValidRoom(name) {
		r.logger.Warn("rejected room", zap.String("room", name), zap.Strings("allowed", r.allowed))
		return false, fmt.Errorf("%w: %q", ErrInvalidRoom, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(name) != nil {
		return false, nil
	}
	r.rooms = append(r.rooms, &Room{Name: name, Tables: []Table{}})
	r.logger.Info("room added", zap.String("room", name))
	return true, nil
}

// AddTableToRoom appends a table to the room. Duplicates are not checked.
func (r *Registry) AddTableToRoom(roomName, fullName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.find(roomName)
	if room == nil {
		return fmt.Errorf("%w: %q", ErrRoomNotFound, roomName)
	}
	room.Tables = append(room.Tables, Table{FullName: fullName})
	r.logger.Debug("table added", zap.String("room", roomName), zap.String("table", fullName))
	return nil
}

// HasTable reports whether the room holds a table with exactly this name.
func (r *Registry) HasTable(roomName, fullName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.find(roomName)
	if room == nil {
		return false
	}
	return slices.ContainsFunc(room.Tables, func(t Table) bool { return t.FullName == fullName })
}

// Rooms returns a deep copy of all rooms in store order.
func (r *Registry) Rooms() []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Room, len(r.rooms))
	for i, room := range r.rooms {
		out[i] = room.clone()
	}
	return out
}

// FirstFreeTable runs the allocator over the current rooms.
func (r *Registry) FirstFreeTable() (Suggestion, bool) {
	return FindFirstFreeTable(r.Rooms())
}

// Seed loads rooms and their tables, typically from configuration at startup.
// Rooms outside the allow-list abort the seed.
func (r *Registry) Seed(rooms []Room) error {
	for _, room := range rooms {
		if _, err := r.AddRoom(room.Name); err != nil {
			return fmt.Errorf("seed room: %w", err)
		}
		for _, t := range room.Tables {
			if err := r.AddTableToRoom(room.Name, t.FullName); err != nil {
				return fmt.Errorf("seed table %q: %w", t.FullName, err)
			}
		}
	}
	return nil
}

func (r *Registry) find(name string) *Room {
	for _, room := range r.rooms {
		if room.Name == name {
			return room
		}
	}
	return nil
}
