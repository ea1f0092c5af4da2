package room

import (
	"sync"
	"time"

	"github.com/vibesync/server/pkg/saavn"
)

// QueuedSong is a catalog song placed into a room's queue. QueueId identifies
// the queue entry, not the catalog song: the same song may be queued several
// times, each with its own entry. Entries are never mutated after creation.
type QueuedSong struct {
	saavn.Song

	QueueId         string    `json:"queue_id"`
	AddedByUserId   string    `json:"added_by_user_id"`
	AddedByUsername string    `json:"added_by_username"`
	AddedAt         time.Time `json:"added_at"`
}

// Room is the aggregate root for one listening session. Mu serializes all
// mutating operations on the room: the service holds it for the duration of a
// whole logical operation so check-then-act sequences stay atomic.
type Room struct {
	Mu sync.Mutex `json:"-"`

	RoomCode     string    `json:"room_code"`
	HostUserId   string    `json:"host_user_id"`
	HostUsername string    `json:"host_username"`
	CreatedAt    time.Time `json:"created_at"`

	CurrentSong   *QueuedSong `json:"current_song"`
	SongStartTime *time.Time  `json:"song_start_time"`
	IsPaused      bool        `json:"is_paused"`
	// PausePosition is only meaningful while IsPaused is true.
	PausePosition float64 `json:"pause_position"`

	Queue          []QueuedSong `json:"queue"`
	Members        map[string]string
	RecentlyPlayed []QueuedSong
	// UserPendingCounts tracks queued (not playing) entries per user.
	// Zero counts are deleted, never stored.
	UserPendingCounts map[string]int
}

func NewRoom(roomCode, hostUserId, hostUsername string, createdAt time.Time) *Room {
	return &Room{
		RoomCode:          roomCode,
		HostUserId:        hostUserId,
		HostUsername:      hostUsername,
		CreatedAt:         createdAt,
		Queue:             make([]QueuedSong, 0),
		Members:           map[string]string{hostUserId: hostUsername},
		RecentlyPlayed:    make([]QueuedSong, 0),
		UserPendingCounts: make(map[string]int),
	}
}
