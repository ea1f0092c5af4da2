package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vibesync/server/pkg/rest"
)

func (c controller) SearchSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		c.writeError(w, http.StatusBadRequest, "query param is required")
		return
	}

	songs, err := c.catalogService.SearchSongs(r.Context(), query, limitParam(r, 10))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success": true,
		"query":   query,
		"results": songs,
	})
}

func (c controller) GetSongDetails(w http.ResponseWriter, r *http.Request) {
	song, err := c.catalogService.GetSongDetails(r.Context(), chi.URLParam(r, "song-id"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success": true,
		"song":    song,
	})
}

func (c controller) GetSongSuggestions(w http.ResponseWriter, r *http.Request) {
	songId := chi.URLParam(r, "song-id")
	suggestions := c.catalogService.GetSuggestions(r.Context(), songId, limitParam(r, 10))

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success":      true,
		"seed_song_id": songId,
		"suggestions":  suggestions,
	})
}
