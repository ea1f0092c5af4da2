package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(c.encryptionMw)

	r.Get("/", c.Root)
	r.Get("/health", c.Health)
	r.Get("/stats", c.Stats)

	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", c.CreateRoom)

		r.Route("/{room-code}", func(r chi.Router) {
			r.Get("/", c.GetRoom)
			r.Delete("/", c.DeleteRoom)

			r.Post("/queue", c.AddToQueue)
			r.Delete("/queue/{queue-id}", c.RemoveFromQueue)

			r.Get("/sync", c.GetSyncState)
			r.Get("/stream", c.GetStreamInfo)
			r.Post("/skip", c.SkipCurrent)
			r.Post("/pause", c.TogglePause)

			r.Get("/suggestions", c.GetRoomSuggestions)

			r.Post("/join", c.JoinRoom)
			r.Post("/leave", c.LeaveRoom)
		})
	})

	r.Route("/search", func(r chi.Router) {
		r.Get("/songs", c.SearchSongs)
		r.Get("/songs/{song-id}", c.GetSongDetails)
		r.Get("/songs/{song-id}/suggestions", c.GetSongSuggestions)
	})

	return r
}
