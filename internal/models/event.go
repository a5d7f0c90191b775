package models

import (
	"time"

	"gorm.io/gorm"
)

// Categories is the fixed set of allowed event categories.
var Categories = []string{"Food Donation", "Tree Planting", "Cleaning"}

// ValidCategory reports whether c is one of the allowed categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Event struct {
	gorm.Model
	Name        string    `json:"name" gorm:"size:100"`
	Code        string    `json:"code" gorm:"size:8;uniqueIndex"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location" gorm:"size:200"`
	Description string    `json:"description" gorm:"size:1000"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	UserID      uint      `json:"user_id"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
}
