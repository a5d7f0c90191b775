package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/commonground/community-events-api/internal/config"
	"github.com/commonground/community-events-api/internal/database"
	"github.com/commonground/community-events-api/internal/handlers"
	"github.com/commonground/community-events-api/internal/notifier"
	"github.com/commonground/community-events-api/internal/service"
	"github.com/commonground/community-events-api/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Image storage
	images, err := storage.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	// Discord announcements are optional
	var announcer notifier.Notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordAnnounceChannelID)
	if err != nil {
		log.Warn().Err(err).Msg("Discord notifier not initialized")
	} else {
		announcer = discordNotifier
	}

	// Initialize Services and Handlers
	eventService := service.NewEventService(db, images, announcer, cfg.ValidateDateOnUpdate)
	participationService := service.NewParticipationService(db)

	eventHandler := handlers.NewEventHandler(eventService)
	participationHandler := handlers.NewParticipationHandler(participationService)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg.EnableCORS, eventHandler, participationHandler, images.Dir())

	// Start Server
	log.Info().Str("port", cfg.Port).Msg("Starting server")
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
