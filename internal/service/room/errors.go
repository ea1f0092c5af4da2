package room

import "errors"

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrSongNotFound         = errors.New("song not found in queue")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrQueueFull            = errors.New("queue is full")
	ErrQueueEmpty           = errors.New("queue is empty")
	ErrUserQuotaExceeded    = errors.New("user quota exceeded")
	ErrSongTooLong          = errors.New("song too long")
	ErrDuplicateSong        = errors.New("song is already in the queue")
	ErrDefaultRoomProtected = errors.New("the default room cannot be deleted")
)
