package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/commonground/community-events-api/internal/models"
	"github.com/commonground/community-events-api/internal/notifier"
	"github.com/commonground/community-events-api/internal/storage"
)

// EventService implements event CRUD including the lifecycle of the
// associated image file.
type EventService struct {
	db        *gorm.DB
	images    *storage.ImageStore
	announcer notifier.Notifier

	// validateDateOnUpdate controls whether updates re-check that the event
	// date lies in the future. Off by default; pending product decision.
	validateDateOnUpdate bool
}

func NewEventService(db *gorm.DB, images *storage.ImageStore, announcer notifier.Notifier, validateDateOnUpdate bool) *EventService {
	return &EventService{
		db:                   db,
		images:               images,
		announcer:            announcer,
		validateDateOnUpdate: validateDateOnUpdate,
	}
}

// CreateEventParams carries the validated-to-be fields for a new event.
type CreateEventParams struct {
	Name        string
	Code        string
	Date        time.Time
	Location    string
	Description string
	Category    string
	OwnerID     uint
}

// UpdateEventParams carries a partial update; nil fields are left unchanged.
type UpdateEventParams struct {
	Name        *string
	Date        *time.Time
	Location    *string
	Description *string
	Category    *string
}

func validateName(name string) error {
	if name == "" {
		return &ValidationError{Message: "Event name is required"}
	}
	if len(name) > 100 {
		return &ValidationError{Message: "Event name cannot exceed 100 characters"}
	}
	return nil
}

func validateCode(code string) error {
	if len(code) != 8 {
		return &ValidationError{Message: "Event code must be 8 characters"}
	}
	return nil
}

func validateLocation(location string) error {
	if location == "" {
		return &ValidationError{Message: "Event location is required"}
	}
	if len(location) > 200 {
		return &ValidationError{Message: "Location cannot exceed 200 characters"}
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > 1000 {
		return &ValidationError{Message: "Description cannot exceed 1000 characters"}
	}
	return nil
}

func validateCategory(category string) error {
	if !models.ValidCategory(category) {
		return &ValidationError{Message: fmt.Sprintf("Invalid category. Must be one of: %s, %s, %s",
			models.Categories[0], models.Categories[1], models.Categories[2])}
	}
	return nil
}

// Create validates the fields, stores the uploaded image, and persists the
// event. The unique index on code backs the existence pre-check, so a
// concurrent create racing past the check still comes back as a conflict.
func (s *EventService) Create(ctx context.Context, p CreateEventParams, image io.Reader, imageName string) (*models.Event, error) {
	if err := validateName(p.Name); err != nil {
		return nil, err
	}
	if err := validateCode(p.Code); err != nil {
		return nil, err
	}
	if err := validateLocation(p.Location); err != nil {
		return nil, err
	}
	if err := validateDescription(p.Description); err != nil {
		return nil, err
	}
	if err := validateCategory(p.Category); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, &ValidationError{Message: "Event image is required"}
	}
	if p.Date.Before(time.Now()) {
		return nil, &ValidationError{Message: "Event date must be in the future"}
	}

	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, p.OwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}

	var existing models.Event
	err := s.db.WithContext(ctx).Where("code = ?", p.Code).First(&existing).Error
	if err == nil {
		return nil, &ConflictError{Message: "Event code already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	imagePath, err := s.images.Save(image, imageName)
	if err != nil {
		return nil, err
	}

	event := models.Event{
		Name:        p.Name,
		Code:        p.Code,
		Date:        p.Date,
		Location:    p.Location,
		Description: p.Description,
		Category:    p.Category,
		Image:       imagePath,
		UserID:      owner.ID,
	}

	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		s.removeImage(event.Image)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "Event code already exists"}
		}
		return nil, err
	}

	if s.announcer != nil {
		if err := s.announcer.AnnounceEvent(event, owner); err != nil {
			log.Warn().Err(err).Uint("event_id", event.ID).Msg("Failed to announce event")
		}
	}

	return &event, nil
}

// List returns all events ordered ascending by date.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Order("date asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Event not found"}
		}
		return nil, err
	}
	return &event, nil
}

func (s *EventService) GetByCode(ctx context.Context, code string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Event not found"}
		}
		return nil, err
	}
	return &event, nil
}

// ListByOwner returns the events a user created, ordered ascending by date.
func (s *EventService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("date asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Update applies the provided fields and, when a new image is supplied,
// replaces the stored file. The previous file is removed best-effort after
// the record is saved. Owner and code are immutable.
func (s *EventService) Update(ctx context.Context, id uint, p UpdateEventParams, image io.Reader, imageName string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Event not found"}
		}
		return nil, err
	}

	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return nil, err
		}
		event.Name = *p.Name
	}
	if p.Date != nil {
		if s.validateDateOnUpdate && p.Date.Before(time.Now()) {
			return nil, &ValidationError{Message: "Event date must be in the future"}
		}
		event.Date = *p.Date
	}
	if p.Location != nil {
		if err := validateLocation(*p.Location); err != nil {
			return nil, err
		}
		event.Location = *p.Location
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return nil, err
		}
		event.Description = *p.Description
	}
	if p.Category != nil {
		if err := validateCategory(*p.Category); err != nil {
			return nil, err
		}
		event.Category = *p.Category
	}

	oldImage := ""
	if image != nil {
		imagePath, err := s.images.Save(image, imageName)
		if err != nil {
			return nil, err
		}
		oldImage = event.Image
		event.Image = imagePath
	}

	if err := s.db.WithContext(ctx).Save(&event).Error; err != nil {
		if oldImage != "" {
			// The new file is the orphan now.
			s.removeImage(event.Image)
		}
		return nil, err
	}

	if oldImage != "" {
		s.removeImage(oldImage)
	}

	return &event, nil
}

// Delete removes the event and its image file. The file removal is
// best-effort: a failure is logged but the delete still succeeds.
func (s *EventService) Delete(ctx context.Context, id uint) error {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Message: "Event not found"}
		}
		return err
	}

	// Hard delete so the code becomes reusable and lookups 404 outright.
	if err := s.db.WithContext(ctx).Unscoped().Delete(&event).Error; err != nil {
		return err
	}

	if event.Image != "" {
		s.removeImage(event.Image)
	}

	return nil
}

func (s *EventService) removeImage(relPath string) {
	if err := s.images.Remove(relPath); err != nil {
		log.Warn().Err(err).Str("image", relPath).Msg("Failed to remove event image file")
	}
}
