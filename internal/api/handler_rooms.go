package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/parse"
)

type tableResponse struct {
	FullName string     `json:"fullName"`
	Kind     parse.Kind `json:"kind"`
}

// RoomResponse represents the API response for a single room.
type RoomResponse struct {
	Name   string          `json:"name"`
	Tables []tableResponse `json:"tables"`
}

func toRoomResponse(room booking.Room) RoomResponse {
	tables := make([]tableResponse, 0, len(room.Tables))
	for _, t := range room.Tables {
		tables = append(tables, tableResponse{FullName: t.FullName, Kind: parse.Classify(t.FullName)})
	}
	return RoomResponse{Name: room.Name, Tables: tables}
}

// GetRooms handles GET /api/rooms.
func (h *Handler) GetRooms(c *gin.Context) {
	rooms := h.service.Registry().Rooms()
	responses := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, toRoomResponse(room))
	}
	c.JSON(http.StatusOK, responses)
}

// GetRoom handles GET /api/rooms/:name.
func (h *Handler) GetRoom(c *gin.Context) {
	room, ok := h.service.Registry().FindRoomByName(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

type postRoomRequest struct {
	Name string `json:"name"`
}

// PostRoom handles POST /api/rooms.
func (h *Handler) PostRoom(c *gin.Context) {
	var req postRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	name := strings.TrimSpace(req.Name)

	registry := h.service.Registry()
	created, err := registry.AddRoom(name)
	if errors.Is(err, booking.ErrInvalidRoom) {
		c.JSON(http.StatusBadRequest, gin.H{"error": booking.InvalidRoomMessage(registry.AllowedRooms())})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	room, _ := registry.FindRoomByName(name)
	if !created {
		c.JSON(http.StatusOK, gin.H{"room": toRoomResponse(room), "message": fmt.Sprintf("Room %s already exists.", name)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room": toRoomResponse(room), "message": fmt.Sprintf("Room %s successfully added.", name)})
}

// GetFreeTable handles GET /api/tables/free.
func (h *Handler) GetFreeTable(c *gin.Context) {
	suggestion, ok := h.service.Registry().FirstFreeTable()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No available tables in any room."})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}
