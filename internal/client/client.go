package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"table-booking-backend/internal/booking"
)

// maxConfirmRounds bounds how often Book re-asks when the offered table keeps
// changing under concurrent bookings.
const maxConfirmRounds = 3

// Table is a table as listed by the server.
type Table struct {
	FullName string `json:"fullName"`
	Kind     string `json:"kind"`
}

// Room is a room as listed by the server.
type Room struct {
	Name   string  `json:"name"`
	Tables []Table `json:"tables"`
}

// BookRequest is the body sent to POST /api/bookings.
type BookRequest struct {
	Room           string `json:"room"`
	Table          string `json:"table"`
	AcceptFallback *bool  `json:"accept_fallback,omitempty"`
	ExpectTable    string `json:"expect_table,omitempty"`
}

// Prompt asks the user a yes/no question.
type Prompt func(question string) (bool, error)

type apiError struct {
	Message string `json:"error"`
}

// Client talks to the booking HTTP API.
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// Rooms lists rooms in store order.
func (c *Client) Rooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	var apiErr apiError
	resp, err := c.http.R().SetContext(ctx).SetResult(&rooms).SetError(&apiErr).Get("/api/rooms")
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list rooms: %s", describe(resp, apiErr))
	}
	return rooms, nil
}

// AddRoom creates a room and returns the server's message.
func (c *Client) AddRoom(ctx context.Context, name string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	var apiErr apiError
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"name": name}).
		SetResult(&out).SetError(&apiErr).
		Post("/api/rooms")
	if err != nil {
		return "", fmt.Errorf("add room: %w", err)
	}
	if resp.IsError() {
		return "", errors.New(describe(resp, apiErr))
	}
	return out.Message, nil
}

// FreeTable asks for the first free table. It returns booking.ErrNoFreeTable
// when every room is full.
func (c *Client) FreeTable(ctx context.Context) (booking.Suggestion, error) {
	var s booking.Suggestion
	var apiErr apiError
	resp, err := c.http.R().SetContext(ctx).SetResult(&s).SetError(&apiErr).Get("/api/tables/free")
	if err != nil {
		return s, fmt.Errorf("free table: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return s, booking.ErrNoFreeTable
	}
	if resp.IsError() {
		return s, fmt.Errorf("free table: %s", describe(resp, apiErr))
	}
	return s, nil
}

// Submit sends one booking request.
func (c *Client) Submit(ctx context.Context, req BookRequest) (booking.Result, error) {
	var res booking.Result
	resp, err := c.http.R().SetContext(ctx).
		SetBody(req).
		SetResult(&res).SetError(&res).
		Post("/api/bookings")
	if err != nil {
		return res, fmt.Errorf("book table: %w", err)
	}
	if res.Outcome == "" {
		return res, fmt.Errorf("book table: unexpected response %d: %s", resp.StatusCode(), resp.String())
	}
	return res, nil
}

// Book submits a booking and, when the table is taken, asks prompt whether
// the offered table should be booked instead.
func (c *Client) Book(ctx context.Context, room, table string, prompt Prompt) (booking.Result, error) {
	res, err := c.Submit(ctx, BookRequest{Room: room, Table: table})
	if err != nil {
		return res, err
	}

	for round := 0; round < maxConfirmRounds && res.Outcome == booking.OutcomeConfirmationRequired; round++ {
		accept, err := prompt(res.Message)
		if err != nil {
			return res, err
		}

		req := BookRequest{Room: room, Table: table, AcceptFallback: &accept}
		if res.Suggestion != nil {
			req.ExpectTable = res.Suggestion.Table
		}
		if res, err = c.Submit(ctx, req); err != nil {
			return res, err
		}
	}
	return res, nil
}

func describe(resp *resty.Response, apiErr apiError) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fmt.Sprintf("unexpected status %d", resp.StatusCode())
}
