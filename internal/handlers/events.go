package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// EventHandler exposes event management and registration endpoints.
type EventHandler struct {
	events *services.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(db *gorm.DB) (*EventHandler, error) {
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	events, err := services.NewEventService(db, notifications)
	if err != nil {
		return nil, err
	}
	return &EventHandler{events: events}, nil
}

type createEventPayload struct {
	Title       string    `json:"title" validate:"required,min=3"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at"`
}

// Create records a new event.
func (h *EventHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload createEventPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	event, err := h.events.Create(requestContext(c), principal, services.CreateEventInput{
		Title:       payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
		StartsAt:    payload.StartsAt,
		EndsAt:      payload.EndsAt,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusCreated, event)
}

// List returns events, soonest first. ?upcoming=true hides past events.
func (h *EventHandler) List(c *gin.Context) {
	opts := services.EventListOptions{
		Upcoming: c.Query("upcoming") == "true",
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "per_page", 50),
	}

	events, total, err := h.events.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, events, listMeta(opts.Page, opts.PageSize, total))
}

// Get returns one event with its registrations.
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, event)
}

type updateEventPayload struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// Update edits an event.
func (h *EventHandler) Update(c *gin.Context) {
	var payload updateEventPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	event, err := h.events.Update(requestContext(c), c.Param("id"), services.UpdateEventInput{
		Title:       payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
		StartsAt:    payload.StartsAt,
		EndsAt:      payload.EndsAt,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, event)
}

// Delete removes an event and its registrations.
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type registerPayload struct {
	ProjectID string `json:"project_id"`
	Notes     string `json:"notes"`
}

// Register signs the caller up for the event.
func (h *EventHandler) Register(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload registerPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	entry, err := h.events.Register(requestContext(c), principal, c.Param("id"), payload.ProjectID, payload.Notes)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusCreated, entry)
}

// Entries lists an event's registrations.
func (h *EventHandler) Entries(c *gin.Context) {
	entries, err := h.events.Entries(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, entries)
}
