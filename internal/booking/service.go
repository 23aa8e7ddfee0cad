package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Outcome is the terminal state of an add-table request.
type Outcome string

const (
	OutcomeRejected      Outcome = "rejected"
	OutcomeAdded         Outcome = "added"
	OutcomeSaturated     Outcome = "saturated"
	OutcomeAddedFallback Outcome = "added_fallback"
	OutcomeCancelled     Outcome = "cancelled"
	// OutcomeConfirmationRequired means the confirmer deferred; nothing was
	// changed and the caller should ask the user and resubmit.
	OutcomeConfirmationRequired Outcome = "confirmation_required"
)

// Mutated reports whether the outcome appended a table.
func (o Outcome) Mutated() bool {
	return o == OutcomeAdded || o == OutcomeAddedFallback
}

// Decision is a confirmer's answer to a fallback offer.
type Decision int

const (
	Defer Decision = iota
	Accept
	Decline
)

// Fallback describes the offer made when the requested table is taken.
type Fallback struct {
	Room           string
	RequestedTable string
	Suggestion     Suggestion
}

// Question renders the offer the way it is put to the user.
func (f Fallback) Question() string {
	return fmt.Sprintf("Table %s already exists in %s. Would you like to book the next available table: %s?",
		f.RequestedTable, f.Room, f.Suggestion.Table)
}

// Confirmer decides whether a fallback table should be booked instead.
type Confirmer interface {
	ConfirmFallback(ctx context.Context, f Fallback) Decision
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, f Fallback) Decision

func (fn ConfirmFunc) ConfirmFallback(ctx context.Context, f Fallback) Decision {
	return fn(ctx, f)
}

// Always returns a confirmer that gives the same answer every time.
func Always(d Decision) Confirmer {
	return ConfirmFunc(func(context.Context, Fallback) Decision { return d })
}

// Journal records finished booking attempts.
type Journal interface {
	RecordBooking(ctx context.Context, res Result) error
}

// Notifier is told about every table that was booked.
type Notifier interface {
	NotifyBooked(room, table string)
}

// Request is a user's add-table input.
type Request struct {
	Room  string `json:"room"`
	Table string `json:"table"`
}

// Result is what the caller reports back to the user.
type Result struct {
	Outcome        Outcome     `json:"outcome"`
	Room           string      `json:"room"`
	RequestedTable string      `json:"requestedTable"`
	Table          string      `json:"table,omitempty"`
	Suggestion     *Suggestion `json:"suggestion,omitempty"`
	Message        string      `json:"message"`
}

// Service runs the add-table flow against a Registry. One flow runs at a time.
type Service struct {
	mu       sync.Mutex
	registry *Registry
	journal  Journal
	notifier Notifier
	logger   *zap.Logger
}

// NewService wires the flow. journal and notifier may be nil.
func NewService(registry *Registry, journal Journal, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry: registry,
		journal:  journal,
		notifier: notifier,
		logger:   logger.Named("booking"),
	}
}

// Registry returns the store the service mutates.
func (s *Service) Registry() *Registry {
	return s.registry
}

// AddTable validates the room, creates it if needed and appends the requested
// table. If the table is already taken, the first free table across all rooms
// is offered through c and, once accepted, appended to the requested room.
func (s *Service) AddTable(ctx context.Context, req Request, c Confirmer) (Result, error) {
	if c == nil {
		c = Always(Defer)
	}
	req.Room = strings.TrimSpace(req.Room)
	req.Table = strings.TrimSpace(req.Table)

	s.mu.Lock()
	res, err := s.addTable(ctx, req, c)
	s.mu.Unlock()
	if err != nil {
		return Result{}, err
	}

	s.finish(ctx, res)
	return res, nil
}

func (s *Service) addTable(ctx context.Context, req Request, c Confirmer) (Result, error) {
	res := Result{Room: req.Room, RequestedTable: req.Table}

	if _, err := s.registry.AddRoom(req.Room); err != nil {
		if errors.Is(err, ErrInvalidRoom) {
			res.Outcome = OutcomeRejected
			res.Message = s.invalidRoomMessage()
			return res, nil
		}
		return Result{}, err
	}

	if !s.registry.HasTable(req.Room, req.Table) {
		if err := s.registry.AddTableToRoom(req.Room, req.Table); err != nil {
			return Result{}, err
		}
		res.Outcome = OutcomeAdded
		res.Table = req.Table
		res.Message = addedMessage(req.Table, req.Room)
		return res, nil
	}

	suggestion, ok := s.registry.FirstFreeTable()
	if !ok {
		res.Outcome = OutcomeSaturated
		res.Message = "No available tables in any room."
		return res, nil
	}
	res.Suggestion = &suggestion

	offer := Fallback{Room: req.Room, RequestedTable: req.Table, Suggestion: suggestion}
	switch c.ConfirmFallback(ctx, offer) {
	case Accept:
		// The suggestion may come from another room; it is booked in the
		// requested one.
		if err := s.registry.AddTableToRoom(req.Room, suggestion.Table); err != nil {
			return Result{}, err
		}
		res.Outcome = OutcomeAddedFallback
		res.Table = suggestion.Table
		res.Message = addedMessage(suggestion.Table, req.Room)
	case Decline:
		res.Outcome = OutcomeCancelled
		res.Message = fmt.Sprintf("Booking of table %s in %s cancelled.", req.Table, req.Room)
	default:
		res.Outcome = OutcomeConfirmationRequired
		res.Message = offer.Question()
	}
	return res, nil
}

func (s *Service) finish(ctx context.Context, res Result) {
	fields := []zap.Field{
		zap.String("outcome", string(res.Outcome)),
		zap.String("room", res.Room),
		zap.String("requested_table", res.RequestedTable),
	}
	if res.Table != "" {
		fields = append(fields, zap.String("table", res.Table))
	}
	if res.Outcome == OutcomeRejected {
		s.logger.Warn(res.Message, fields...)
	} else {
		s.logger.Info(res.Message, fields...)
	}

	if res.Outcome == OutcomeConfirmationRequired {
		return
	}

	if s.journal != nil {
		if err := s.journal.RecordBooking(ctx, res); err != nil {
			s.logger.Error("failed to record booking", append(fields, zap.Error(err))...)
		}
	}
	if s.notifier != nil && res.Outcome.Mutated() {
		s.notifier.NotifyBooked(res.Room, res.Table)
	}
}

func (s *Service) invalidRoomMessage() string {
	return InvalidRoomMessage(s.registry.AllowedRooms())
}

// InvalidRoomMessage tells the user which rooms may be used.
func InvalidRoomMessage(allowed []string) string {
	return "Invalid room name. Please choose one of the existing rooms: " + joinChoices(allowed) + "."
}

func addedMessage(table, room string) string {
	return fmt.Sprintf("Table %s successfully added to %s.", table, room)
}

// joinChoices renders ["a","b","c"] as "a, b, or c".
func joinChoices(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
}
