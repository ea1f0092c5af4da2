package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vibesync/server/internal/service/room"
	"github.com/vibesync/server/pkg/rest"
	"github.com/vibesync/server/pkg/saavn"
)

type createRoomRequest struct {
	UserId   string `json:"user_id" validate:"required,max=64"`
	Username string `json:"username" validate:"required,max=32"`
}

func (c controller) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		c.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.writeValidationErrors(w, validationErrors)
		return
	}

	resp, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		UserId:   req.UserId,
		Username: req.Username,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{
		"success":   true,
		"message":   "room created",
		"room_code": resp.RoomCode,
		"room":      resp.State,
	})
}

func (c controller) GetRoom(w http.ResponseWriter, r *http.Request) {
	state, err := c.roomService.GetRoomState(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success": true,
		"room":    state,
	})
}

func (c controller) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	deleted, err := c.roomService.DeleteRoom(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if !deleted {
		c.writeError(w, http.StatusNotFound, room.ErrRoomNotFound.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success": true,
		"message": "room deleted",
	})
}

type addToQueueRequest struct {
	SongId   string `json:"song_id" validate:"required"`
	UserId   string `json:"user_id" validate:"required,max=64"`
	Username string `json:"username" validate:"required,max=32"`
}

func (c controller) AddToQueue(w http.ResponseWriter, r *http.Request) {
	var req addToQueueRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		c.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.writeValidationErrors(w, validationErrors)
		return
	}

	song, err := c.catalogService.GetSongDetails(r.Context(), req.SongId)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	resp, err := c.roomService.AddToQueue(r.Context(), &room.AddToQueueParams{
		RoomCode: chi.URLParam(r, "room-code"),
		Song:     song,
		UserId:   req.UserId,
		Username: req.Username,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{
		"success":        true,
		"message":        "song added to queue",
		"song":           resp.Song,
		"queue_position": resp.Position,
	})
}

func (c controller) RemoveFromQueue(w http.ResponseWriter, r *http.Request) {
	removed, err := c.roomService.RemoveFromQueue(r.Context(), &room.RemoveFromQueueParams{
		RoomCode:         chi.URLParam(r, "room-code"),
		QueueId:          chi.URLParam(r, "queue-id"),
		RequestingUserId: r.URL.Query().Get("requesting_user_id"),
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success":      true,
		"message":      "song removed from queue",
		"removed_song": removed,
	})
}

func (c controller) GetSyncState(w http.ResponseWriter, r *http.Request) {
	state, err := c.roomService.GetSyncState(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success": true,
		"sync":    state,
	})
}

func (c controller) GetStreamInfo(w http.ResponseWriter, r *http.Request) {
	state, err := c.roomService.GetSyncState(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	var streamURL *string
	var allStreamURLs []saavn.SongQuality
	if state.CurrentSong != nil {
		streamURL = state.CurrentSong.DownloadURL
		allStreamURLs = state.CurrentSong.DownloadURLs
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success":               true,
		"stream_url":            streamURL,
		"all_stream_urls":       allStreamURLs,
		"current_song":          state.CurrentSong,
		"seek_position_seconds": state.SeekPositionSeconds,
		"is_paused":             state.IsPaused,
		"next_songs":            state.NextSongs,
	})
}

func (c controller) SkipCurrent(w http.ResponseWriter, r *http.Request) {
	next, err := c.roomService.SkipCurrent(r.Context(), &room.SkipCurrentParams{
		RoomCode:         chi.URLParam(r, "room-code"),
		RequestingUserId: r.URL.Query().Get("requesting_user_id"),
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success":      true,
		"message":      "song skipped",
		"current_song": next,
	})
}

func (c controller) TogglePause(w http.ResponseWriter, r *http.Request) {
	isPaused, err := c.roomService.TogglePause(r.Context(), &room.TogglePauseParams{
		RoomCode:         chi.URLParam(r, "room-code"),
		RequestingUserId: r.URL.Query().Get("requesting_user_id"),
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	message := "playback resumed"
	if isPaused {
		message = "playback paused"
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success":   true,
		"message":   message,
		"is_paused": isPaused,
	})
}

func (c controller) GetRoomSuggestions(w http.ResponseWriter, r *http.Request) {
	seed, err := c.roomService.GetSuggestionSeed(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	suggestions := []saavn.Song{}
	if seed != "" {
		suggestions = c.catalogService.GetSuggestions(r.Context(), seed, limitParam(r, 10))
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success":      true,
		"seed_song_id": seed,
		"suggestions":  suggestions,
	})
}

type joinRoomRequest struct {
	UserId   string `json:"user_id" validate:"required,max=64"`
	Username string `json:"username" validate:"required,max=32"`
}

func (c controller) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		c.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.writeValidationErrors(w, validationErrors)
		return
	}

	state, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomCode: chi.URLParam(r, "room-code"),
		UserId:   req.UserId,
		Username: req.Username,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	syncState, err := c.roomService.GetSyncState(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success": true,
		"message": "joined room",
		"room":    state,
		"sync":    syncState,
	})
}

func (c controller) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	left, err := c.roomService.LeaveRoom(r.Context(), &room.LeaveRoomParams{
		RoomCode: chi.URLParam(r, "room-code"),
		UserId:   r.URL.Query().Get("requesting_user_id"),
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	message := "left room"
	if !left {
		message = "user was not in the room"
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success": true,
		"message": message,
	})
}

// limitParam reads the limit query param, clamped to [1, 50].
func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if limit < 1 {
		return 1
	}
	if limit > 50 {
		return 50
	}

	return limit
}
