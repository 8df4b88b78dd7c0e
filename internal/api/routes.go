package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{s.CORSOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	}).Handler)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", s.handleLookupUser)
		r.Post("/users", s.handleUpsertUser)
		r.Get("/users/{id}", s.handleGetUser)
		r.Put("/users/{id}", s.handleUpdateUser)
		r.Delete("/users/{id}", s.handleDeleteUser)
		r.Get("/users/{id}/settings", s.handleGetSettings)
		r.Put("/users/{id}/settings", s.handleUpdateSettings)

		r.Get("/catalog", s.handleCatalog)
		r.Get("/languages", s.handleListLanguages)
		r.Post("/languages", s.handleCreateLanguage)
		r.Put("/languages/{id}", s.handleUpdateLanguage)
		r.Delete("/languages/{id}", s.handleDeleteLanguage)
		r.Get("/languages/{id}/levels", s.handleListLevels)
		r.Post("/levels", s.handleCreateLevel)
		r.Put("/levels/{id}", s.handleUpdateLevel)
		r.Delete("/levels/{id}", s.handleDeleteLevel)
		r.Get("/levels/{id}/chapters", s.handleListChapters)
		r.Post("/chapters", s.handleCreateChapter)
		r.Put("/chapters/{id}", s.handleUpdateChapter)
		r.Delete("/chapters/{id}", s.handleDeleteChapter)
		r.Get("/chapters/{id}/words", s.handleListWords)
		r.Post("/words", s.handleCreateWord)
		r.Put("/words/{id}", s.handleUpdateWord)
		r.Delete("/words/{id}", s.handleDeleteWord)

		r.Post("/chapters/{id}/import", s.handleImportChapter)
		r.Post("/levels/{id}/import", s.handleImportLevel)

		r.Get("/session-words", s.handleSessionWords)
		r.Post("/answers", s.handleRecordAnswer)
		r.Post("/answers/batch", s.handleRecordAnswers)
		r.Post("/sessions/complete", s.handleCompleteSession)
		r.Get("/stats", s.handleStats)
		r.Post("/words/clear", s.handleClearProgress)

		r.Post("/audio/backfill", s.handleAudioBackfill)
	})

	return r
}
