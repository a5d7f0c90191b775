package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/commonground/community-events-api/internal/models"
	"github.com/commonground/community-events-api/internal/service"
)

type EventHandler struct {
	events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// EventPayload is the wire shape of an event.
type EventPayload struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image" doc:"Relative path, resolved against the server base URL"`
	UserID      uint      `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func eventPayload(e models.Event) EventPayload {
	return EventPayload{
		ID:          e.ID,
		Name:        e.Name,
		Code:        e.Code,
		Date:        e.Date,
		Location:    e.Location,
		Description: e.Description,
		Category:    e.Category,
		Image:       e.Image,
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func eventPayloads(events []models.Event) []EventPayload {
	payloads := make([]EventPayload, 0, len(events))
	for _, e := range events {
		payloads = append(payloads, eventPayload(e))
	}
	return payloads
}

func formValue(form multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// optFormValue treats an absent or empty field as "leave unchanged".
func optFormValue(form multipart.Form, key string) *string {
	if v := formValue(form, key); v != "" {
		return &v
	}
	return nil
}

// parseEventDate accepts RFC 3339 timestamps and plain dates.
func parseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

type CreateEventRequest struct {
	RawBody multipart.Form
}

type CreateEventResponse struct {
	Body struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Event   EventPayload `json:"event"`
	}
}

func (h *EventHandler) HandleCreateEvent(ctx context.Context, input *CreateEventRequest) (*CreateEventResponse, error) {
	form := input.RawBody

	name := formValue(form, "name")
	code := formValue(form, "code")
	dateStr := formValue(form, "date")
	location := formValue(form, "location")
	category := formValue(form, "category")
	userStr := formValue(form, "user")

	if name == "" || code == "" || dateStr == "" || location == "" || category == "" || userStr == "" {
		return nil, huma.Error400BadRequest("All required fields must be provided")
	}

	files := form.File["image"]
	if len(files) == 0 {
		return nil, huma.Error400BadRequest("Event image is required")
	}

	date, err := parseEventDate(dateStr)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid event date format")
	}

	ownerID, err := strconv.ParseUint(userStr, 10, 64)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid user ID")
	}

	file, err := files[0].Open()
	if err != nil {
		return nil, huma.Error400BadRequest("Event image could not be read")
	}
	defer file.Close()

	event, err := h.events.Create(ctx, service.CreateEventParams{
		Name:        name,
		Code:        code,
		Date:        date,
		Location:    location,
		Description: formValue(form, "description"),
		Category:    category,
		OwnerID:     uint(ownerID),
	}, file, files[0].Filename)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &CreateEventResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Event created successfully"
	resp.Body.Event = eventPayload(*event)
	return resp, nil
}

type ListEventsResponse struct {
	Body struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Events  []EventPayload `json:"events"`
	}
}

func (h *EventHandler) HandleListEvents(ctx context.Context, input *struct{}) (*ListEventsResponse, error) {
	events, err := h.events.List(ctx)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &ListEventsResponse{}
	resp.Body.Success = true
	resp.Body.Message = "All events retrieved successfully"
	resp.Body.Events = eventPayloads(events)
	return resp, nil
}

type GetEventRequest struct {
	ID uint `path:"id"`
}

type GetEventResponse struct {
	Body struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Event   EventPayload `json:"event"`
	}
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventRequest) (*GetEventResponse, error) {
	event, err := h.events.GetByID(ctx, input.ID)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &GetEventResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Event retrieved"
	resp.Body.Event = eventPayload(*event)
	return resp, nil
}

type GetEventByCodeRequest struct {
	Code string `path:"code"`
}

func (h *EventHandler) HandleGetEventByCode(ctx context.Context, input *GetEventByCodeRequest) (*GetEventResponse, error) {
	event, err := h.events.GetByCode(ctx, input.Code)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &GetEventResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Event retrieved"
	resp.Body.Event = eventPayload(*event)
	return resp, nil
}

type ListEventsByOwnerRequest struct {
	UserID uint `path:"userid"`
}

func (h *EventHandler) HandleListEventsByOwner(ctx context.Context, input *ListEventsByOwnerRequest) (*ListEventsResponse, error) {
	events, err := h.events.ListByOwner(ctx, input.UserID)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &ListEventsResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Events retrieved"
	resp.Body.Events = eventPayloads(events)
	return resp, nil
}

type UpdateEventRequest struct {
	ID      uint `path:"id"`
	RawBody multipart.Form
}

func (h *EventHandler) HandleUpdateEvent(ctx context.Context, input *UpdateEventRequest) (*GetEventResponse, error) {
	form := input.RawBody

	params := service.UpdateEventParams{
		Name:        optFormValue(form, "name"),
		Location:    optFormValue(form, "location"),
		Description: optFormValue(form, "description"),
		Category:    optFormValue(form, "category"),
	}

	if dateStr := formValue(form, "date"); dateStr != "" {
		date, err := parseEventDate(dateStr)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid event date format")
		}
		params.Date = &date
	}

	var image io.Reader
	var imageName string
	if files := form.File["image"]; len(files) > 0 {
		file, err := files[0].Open()
		if err != nil {
			return nil, huma.Error400BadRequest("Event image could not be read")
		}
		defer file.Close()
		image = file
		imageName = files[0].Filename
	}

	event, err := h.events.Update(ctx, input.ID, params, image, imageName)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &GetEventResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Event updated successfully"
	resp.Body.Event = eventPayload(*event)
	return resp, nil
}

type DeleteEventRequest struct {
	ID uint `path:"id"`
}

type MessageResponse struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
}

func (h *EventHandler) HandleDeleteEvent(ctx context.Context, input *DeleteEventRequest) (*MessageResponse, error) {
	if err := h.events.Delete(ctx, input.ID); err != nil {
		return nil, serviceError(err)
	}

	resp := &MessageResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Event deleted successfully"
	return resp, nil
}
