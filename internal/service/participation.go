package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/commonground/community-events-api/internal/models"
)

// ParticipationService manages the join relation between users and events.
// A (user, event) pair is either joined or not; there is no intermediate
// state. The composite unique index on joins backs the pre-check so two
// racing join requests cannot both insert.
type ParticipationService struct {
	db *gorm.DB
}

func NewParticipationService(db *gorm.DB) *ParticipationService {
	return &ParticipationService{db: db}
}

// Join creates a participation record after checking that the event and the
// user exist and that no join is already active for the pair.
func (s *ParticipationService) Join(ctx context.Context, userID, eventID uint) (*models.Join, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Event not found"}
		}
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}

	var existing models.Join
	err := s.db.WithContext(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&existing).Error
	if err == nil {
		return nil, &ConflictError{Message: "You have already joined this event"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	join := models.Join{UserID: userID, EventID: eventID}
	if err := s.db.WithContext(ctx).Create(&join).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "You have already joined this event"}
		}
		return nil, err
	}

	return &join, nil
}

// Leave deletes the participation record for the pair.
func (s *ParticipationService) Leave(ctx context.Context, userID, eventID uint) error {
	var join models.Join
	err := s.db.WithContext(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&join).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Message: "You have not joined this event yet"}
		}
		return err
	}

	return s.db.WithContext(ctx).Delete(&join).Error
}

// ListJoinedByUser returns the user's joins with the referenced event and
// user resolved. A join whose event has since been deleted keeps a nil
// Event rather than failing the whole list.
func (s *ParticipationService) ListJoinedByUser(ctx context.Context, userID uint) ([]models.Join, error) {
	var joins []models.Join
	err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Where("user_id = ?", userID).
		Find(&joins).Error
	if err != nil {
		return nil, err
	}
	return joins, nil
}

// IsJoined reports whether the user currently participates in the event.
func (s *ParticipationService) IsJoined(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Join{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
