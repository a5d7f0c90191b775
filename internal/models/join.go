package models

import (
	"time"
)

// Join records one user's active participation in one event. The composite
// unique index enforces at most one join per (user, event) pair at the store
// level. Joins are created and deleted, never updated, and deliberately skip
// gorm's soft delete: a forfeited join must free the index slot so the user
// can join again later.
type Join struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_join_user_event"`
	EventID   uint      `json:"event_id" gorm:"uniqueIndex:idx_join_user_event"`
	User      User      `json:"user" gorm:"foreignKey:UserID"`
	Event     *Event    `json:"event" gorm:"foreignKey:EventID"`
}
