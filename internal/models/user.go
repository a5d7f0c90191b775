package models

import (
	"gorm.io/gorm"
)

// User is the minimal directory entry the events system needs. Account
// management lives in a separate service; this table only backs existence
// checks and the joined-events projection.
type User struct {
	gorm.Model
	Username string `json:"username"`
	Email    string `json:"email" gorm:"uniqueIndex"`
	Role     string `json:"role"`
}
