package controller

import (
	"errors"
	"net/http"

	"github.com/vibesync/server/internal/service/catalog"
	"github.com/vibesync/server/internal/service/room"
	"github.com/vibesync/server/pkg/rest"
	"github.com/vibesync/server/pkg/validator"
)

func (c controller) writeError(w http.ResponseWriter, status int, message string) {
	rest.WriteJSON(w, status, rest.Envelope{
		"success":     false,
		"error":       message,
		"status_code": status,
	})
}

func (c controller) writeValidationErrors(w http.ResponseWriter, errs []validator.ValidationError) {
	rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{
		"success":     false,
		"error":       "validation failed",
		"status_code": http.StatusUnprocessableEntity,
		"details":     errs,
	})
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func (c controller) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, room.ErrSongNotFound),
		errors.Is(err, catalog.ErrSongNotFound):
		status = http.StatusNotFound
	case errors.Is(err, room.ErrPermissionDenied),
		errors.Is(err, room.ErrDefaultRoomProtected):
		status = http.StatusForbidden
	case errors.Is(err, room.ErrQueueFull),
		errors.Is(err, room.ErrQueueEmpty),
		errors.Is(err, room.ErrUserQuotaExceeded),
		errors.Is(err, room.ErrSongTooLong),
		errors.Is(err, room.ErrDuplicateSong):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrExternalService):
		c.logger.WarnContext(r.Context(), "catalog upstream error", "error", err)
		c.writeError(w, http.StatusBadGateway, catalog.ErrExternalService.Error())
		return
	default:
		c.logger.ErrorContext(r.Context(), "unexpected service error", "error", err)
		c.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	c.writeError(w, status, err.Error())
}
