package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/commonground/community-events-api/internal/models"
	"github.com/commonground/community-events-api/internal/service"
)

type ParticipationHandler struct {
	participation *service.ParticipationService
}

func NewParticipationHandler(participation *service.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participation: participation}
}

type JoinPayload struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user"`
	EventID   uint      `json:"event"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserPayload struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// JoinedEventPayload resolves a join's references. Event is null when the
// event has been deleted since the user joined.
type JoinedEventPayload struct {
	ID        uint          `json:"id"`
	User      UserPayload   `json:"user"`
	Event     *EventPayload `json:"event"`
	CreatedAt time.Time     `json:"createdAt"`
}

type JoinEventRequest struct {
	Body struct {
		// omitempty keeps the schema lenient; the handler reports missing
		// IDs with the message the client expects.
		UserID  uint `json:"userId,omitempty"`
		EventID uint `json:"eventId,omitempty"`
	}
}

type JoinEventResponse struct {
	Body struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Join    JoinPayload `json:"join"`
	}
}

func (h *ParticipationHandler) HandleJoinEvent(ctx context.Context, input *JoinEventRequest) (*JoinEventResponse, error) {
	if input.Body.UserID == 0 || input.Body.EventID == 0 {
		return nil, huma.Error400BadRequest("User ID and Event ID are required")
	}

	join, err := h.participation.Join(ctx, input.Body.UserID, input.Body.EventID)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &JoinEventResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Successfully joined the event"
	resp.Body.Join = JoinPayload{
		ID:        join.ID,
		UserID:    join.UserID,
		EventID:   join.EventID,
		CreatedAt: join.CreatedAt,
	}
	return resp, nil
}

type ForfeitEventRequest struct {
	Body struct {
		UserID  uint `json:"userId,omitempty"`
		EventID uint `json:"eventId,omitempty"`
	}
}

func (h *ParticipationHandler) HandleForfeitEvent(ctx context.Context, input *ForfeitEventRequest) (*MessageResponse, error) {
	if input.Body.UserID == 0 || input.Body.EventID == 0 {
		return nil, huma.Error400BadRequest("User ID and Event ID are required")
	}

	if err := h.participation.Leave(ctx, input.Body.UserID, input.Body.EventID); err != nil {
		return nil, serviceError(err)
	}

	resp := &MessageResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Successfully forfeited from the event"
	return resp, nil
}

type ListJoinedRequest struct {
	UserID uint `path:"userId"`
}

type ListJoinedResponse struct {
	Body struct {
		Success      bool                 `json:"success"`
		Message      string               `json:"message"`
		JoinedEvents []JoinedEventPayload `json:"joinedEvents"`
	}
}

func (h *ParticipationHandler) HandleListJoined(ctx context.Context, input *ListJoinedRequest) (*ListJoinedResponse, error) {
	joins, err := h.participation.ListJoinedByUser(ctx, input.UserID)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &ListJoinedResponse{}
	resp.Body.Success = true
	resp.Body.Message = "Joined events fetched successfully"
	resp.Body.JoinedEvents = joinedEventPayloads(joins)
	return resp, nil
}

func joinedEventPayloads(joins []models.Join) []JoinedEventPayload {
	payloads := make([]JoinedEventPayload, 0, len(joins))
	for _, j := range joins {
		p := JoinedEventPayload{
			ID: j.ID,
			User: UserPayload{
				ID:       j.User.ID,
				Username: j.User.Username,
				Email:    j.User.Email,
				Role:     j.User.Role,
			},
			CreatedAt: j.CreatedAt,
		}
		if j.Event != nil {
			event := eventPayload(*j.Event)
			p.Event = &event
		}
		payloads = append(payloads, p)
	}
	return payloads
}

type CheckJoinedRequest struct {
	UserID  uint `path:"userId"`
	EventID uint `path:"eventId"`
}

type CheckJoinedResponse struct {
	Body struct {
		Success bool `json:"success"`
		Joined  bool `json:"joined"`
	}
}

func (h *ParticipationHandler) HandleCheckJoined(ctx context.Context, input *CheckJoinedRequest) (*CheckJoinedResponse, error) {
	joined, err := h.participation.IsJoined(ctx, input.UserID, input.EventID)
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &CheckJoinedResponse{}
	resp.Body.Success = true
	resp.Body.Joined = joined
	return resp, nil
}
