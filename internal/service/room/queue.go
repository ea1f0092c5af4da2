package room

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vibesync/server/internal/repository/room"
	"github.com/vibesync/server/pkg/saavn"
)

type AddToQueueParams struct {
	RoomCode string
	Song     saavn.Song
	UserId   string
	Username string
}

type AddToQueueResponse struct {
	Song     QueuedSong
	Position int
}

// AddToQueue runs the admission checks in a fixed order, short-circuiting at
// the first failure, and mutates nothing until all of them pass. The whole
// check-then-commit sequence runs under the room lock.
func (s service) AddToQueue(ctx context.Context, params *AddToQueueParams) (AddToQueueResponse, error) {
	rm, err := s.getRoom(params.RoomCode)
	if err != nil {
		return AddToQueueResponse{}, err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	if len(rm.Queue) >= s.cfg.QueueLimit {
		return AddToQueueResponse{}, ErrQueueFull
	}

	if rm.UserPendingCounts[params.UserId] >= s.cfg.UserSongQuota {
		return AddToQueueResponse{}, ErrUserQuotaExceeded
	}

	if params.Song.Duration > s.cfg.MaxSongDuration {
		return AddToQueueResponse{}, ErrSongTooLong
	}

	if rm.CurrentSong != nil && songsSimilar(rm.CurrentSong.Song, params.Song) {
		return AddToQueueResponse{}, ErrDuplicateSong
	}
	for _, queued := range rm.Queue {
		if songsSimilar(queued.Song, params.Song) {
			return AddToQueueResponse{}, ErrDuplicateSong
		}
	}

	queued := room.QueuedSong{
		Song:            params.Song,
		QueueId:         generateQueueId(),
		AddedByUserId:   params.UserId,
		AddedByUsername: params.Username,
		AddedAt:         s.now(),
	}

	rm.Queue = append(rm.Queue, queued)
	position := len(rm.Queue)
	rm.UserPendingCounts[params.UserId]++

	// First song into an idle room starts playback immediately so the room
	// is never idle with a non-empty queue.
	if rm.CurrentSong == nil && len(rm.Queue) == 1 {
		s.startNextSong(ctx, rm)
	}

	s.logger.InfoContext(ctx, "song added to queue",
		"room_code", rm.RoomCode,
		"song", params.Song.Name,
		"user", params.Username,
		"pending", rm.UserPendingCounts[params.UserId],
	)

	return AddToQueueResponse{
		Song:     queued,
		Position: position,
	}, nil
}

type RemoveFromQueueParams struct {
	RoomCode         string
	QueueId          string
	RequestingUserId string
}

// RemoveFromQueue removes an entry by its queue id. Only the user who added
// the song or the room host may remove it.
func (s service) RemoveFromQueue(ctx context.Context, params *RemoveFromQueueParams) (QueuedSong, error) {
	rm, err := s.getRoom(params.RoomCode)
	if err != nil {
		return QueuedSong{}, err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	idx := -1
	for i, queued := range rm.Queue {
		if queued.QueueId == params.QueueId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return QueuedSong{}, ErrSongNotFound
	}

	removed := rm.Queue[idx]
	if removed.AddedByUserId != params.RequestingUserId && rm.HostUserId != params.RequestingUserId {
		return QueuedSong{}, ErrPermissionDenied
	}

	rm.Queue = append(rm.Queue[:idx], rm.Queue[idx+1:]...)
	decrementPendingCount(rm, removed.AddedByUserId)

	s.logger.InfoContext(ctx, "song removed from queue",
		"room_code", rm.RoomCode,
		"song", removed.Name,
		"requested_by", params.RequestingUserId,
	)

	return removed, nil
}

// songsSimilar is the duplicate rule: identical catalog ids, or equal
// name+artists after normalization. Intentionally fuzzy so the same track
// surfaced with slightly different metadata is still caught.
func songsSimilar(a, b saavn.Song) bool {
	if a.Id == b.Id {
		return true
	}

	return normalize(a.Name) == normalize(b.Name) && normalize(a.Artists) == normalize(b.Artists)
}

func normalize(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(text)), " ", "")
}

func decrementPendingCount(rm *room.Room, userId string) {
	count, ok := rm.UserPendingCounts[userId]
	if !ok {
		return
	}

	if count <= 1 {
		delete(rm.UserPendingCounts, userId)
		return
	}

	rm.UserPendingCounts[userId] = count - 1
}

func generateQueueId() string {
	return uuid.NewString()[:8]
}
