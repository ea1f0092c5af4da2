package controller

import (
	"net/http"
	"time"

	"github.com/vibesync/server/pkg/rest"
)

func (c controller) Root(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"name":    c.appName,
		"version": c.appVersion,
		"status":  "running",
	})
}

func (c controller) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"status":      "healthy",
		"server_time": time.Now().UTC(),
	})
}

func (c controller) Stats(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"success":      true,
		"active_rooms": c.roomService.ActiveRoomsCount(r.Context()),
		"room_codes":   c.roomService.RoomCodes(r.Context()),
	})
}
