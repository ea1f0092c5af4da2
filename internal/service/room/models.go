package room

import (
	"time"

	"github.com/vibesync/server/internal/repository/room"
)

// QueuedSong is re-exported so callers depend on the service package only.
type QueuedSong = room.QueuedSong

// RoomState is a point-in-time snapshot of a room, safe to serialize after
// the call returns.
type RoomState struct {
	RoomCode     string    `json:"room_code"`
	HostUserId   string    `json:"host_user_id"`
	HostUsername string    `json:"host_username"`
	CreatedAt    time.Time `json:"created_at"`

	CurrentSong   *QueuedSong `json:"current_song"`
	SongStartTime *time.Time  `json:"song_start_time"`
	IsPaused      bool        `json:"is_paused"`

	Queue       []QueuedSong `json:"queue"`
	QueueLength int          `json:"queue_length"`
	MemberCount int          `json:"member_count"`
}

// SyncState is what polling clients consume to stay in sync. Reading it may
// advance the room (see GetSyncState).
type SyncState struct {
	CurrentSong   *QueuedSong `json:"current_song"`
	ServerTime    time.Time   `json:"server_time"`
	SongStartTime *time.Time  `json:"song_start_time"`
	IsPaused      bool        `json:"is_paused"`

	SeekPositionSeconds float64 `json:"seek_position_seconds"`

	NextSongs   []QueuedSong `json:"next_songs"`
	QueueLength int          `json:"queue_length"`
	MemberCount int          `json:"member_count"`
}

// snapshot builds a RoomState from a room. Caller must hold the room lock.
func snapshotRoom(rm *room.Room) RoomState {
	state := RoomState{
		RoomCode:     rm.RoomCode,
		HostUserId:   rm.HostUserId,
		HostUsername: rm.HostUsername,
		CreatedAt:    rm.CreatedAt,
		IsPaused:     rm.IsPaused,
		Queue:        copyQueue(rm.Queue),
		QueueLength:  len(rm.Queue),
		MemberCount:  len(rm.Members),
	}

	if rm.CurrentSong != nil {
		cs := *rm.CurrentSong
		state.CurrentSong = &cs
	}
	if rm.SongStartTime != nil {
		st := *rm.SongStartTime
		state.SongStartTime = &st
	}

	return state
}

// copyQueue copies the queue container. Entries are immutable once created,
// so a shallow copy is a safe snapshot.
func copyQueue(queue []room.QueuedSong) []QueuedSong {
	out := make([]QueuedSong, len(queue))
	copy(out, queue)
	return out
}
