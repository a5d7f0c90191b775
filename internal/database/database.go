package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/commonground/community-events-api/internal/config"
	"github.com/commonground/community-events-api/internal/models"
)

func Connect(cfg *config.Config) *gorm.DB {
	// TranslateError turns unique index violations into gorm.ErrDuplicatedKey,
	// which the services rely on as the conflict backstop when two requests
	// race past the existence pre-checks.
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto Migrate
	err = db.AutoMigrate(&models.User{}, &models.Event{}, &models.Join{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate")
	}

	return db
}
