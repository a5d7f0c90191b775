package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// AddRoutes registers every API operation. Split out from RegisterRoutes so
// tests can register against a humatest API.
func AddRoutes(api huma.API, eventHandler *EventHandler, participationHandler *ParticipationHandler) {
	huma.Post(api, "/event", eventHandler.HandleCreateEvent, func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
	})
	huma.Get(api, "/events", eventHandler.HandleListEvents)
	huma.Get(api, "/events/user/{userid}", eventHandler.HandleListEventsByOwner)
	huma.Get(api, "/events/{id}", eventHandler.HandleGetEvent)
	huma.Get(api, "/event/code/{code}", eventHandler.HandleGetEventByCode)
	huma.Put(api, "/event/{id}", eventHandler.HandleUpdateEvent)
	huma.Delete(api, "/event/{id}", eventHandler.HandleDeleteEvent)

	huma.Post(api, "/join-event", participationHandler.HandleJoinEvent, func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
	})
	huma.Delete(api, "/forfeit-event", participationHandler.HandleForfeitEvent)
	huma.Get(api, "/joined/{userId}/{eventId}", participationHandler.HandleCheckJoined)
	huma.Get(api, "/joined/{userId}", participationHandler.HandleListJoined)
}

func RegisterRoutes(r *chi.Mux, enableCORS bool, eventHandler *EventHandler, participationHandler *ParticipationHandler, imageDir string) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if enableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))
	}

	// Initialize Huma API
	config := huma.DefaultConfig("Community Events API", "1.0.0")
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Uploaded images, referenced by relative path in event records
	r.Handle("/uploads/events/*", http.StripPrefix("/uploads/events/",
		http.FileServer(http.Dir(imageDir))))

	AddRoutes(api, eventHandler, participationHandler)
}
