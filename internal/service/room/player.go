package room

import (
	"context"
	"time"

	"github.com/vibesync/server/internal/repository/room"
)

// startNextSong finishes the current song (into history) and promotes the
// queue head. Caller must hold the room lock. Returns false when the queue
// was empty and the room fell idle.
//
// A song stops counting toward its adder's pending quota the moment it
// leaves the queue, so the decrement happens on promotion, keeping
// user_pending_counts equal to the user's queued entries at all times.
func (s service) startNextSong(ctx context.Context, rm *room.Room) bool {
	if rm.CurrentSong != nil {
		s.addToHistory(rm, *rm.CurrentSong)
		s.logger.InfoContext(ctx, "song completed", "room_code", rm.RoomCode, "song", rm.CurrentSong.Name)
	}

	if len(rm.Queue) == 0 {
		rm.CurrentSong = nil
		rm.SongStartTime = nil
		rm.IsPaused = false
		rm.PausePosition = 0
		return false
	}

	next := rm.Queue[0]
	rm.Queue = rm.Queue[1:]
	decrementPendingCount(rm, next.AddedByUserId)

	rm.CurrentSong = &next
	startTime := s.now()
	rm.SongStartTime = &startTime
	rm.IsPaused = false
	rm.PausePosition = 0

	s.logger.InfoContext(ctx, "now playing", "room_code", rm.RoomCode, "song", next.Name)
	return true
}

func (s service) addToHistory(rm *room.Room, song room.QueuedSong) {
	rm.RecentlyPlayed = append(rm.RecentlyPlayed, song)
	if len(rm.RecentlyPlayed) > s.cfg.HistoryLimit {
		rm.RecentlyPlayed = rm.RecentlyPlayed[1:]
	}
}

// seekPosition computes the elapsed playback position in seconds. Caller
// must hold the room lock. A duration of 0 means unknown, so the position is
// not clamped and never triggers auto-advance.
func (s service) seekPosition(rm *room.Room) float64 {
	if rm.IsPaused {
		return rm.PausePosition
	}

	if rm.SongStartTime == nil || rm.CurrentSong == nil {
		return 0
	}

	elapsed := s.now().Sub(*rm.SongStartTime).Seconds()

	if d := rm.CurrentSong.Duration; d > 0 && elapsed > float64(d) {
		elapsed = float64(d)
	}
	if elapsed < 0 {
		elapsed = 0
	}

	return elapsed
}

type SkipCurrentParams struct {
	RoomCode         string
	RequestingUserId string
}

// SkipCurrent forces completion of the current song regardless of elapsed
// time. Host only.
func (s service) SkipCurrent(ctx context.Context, params *SkipCurrentParams) (*QueuedSong, error) {
	rm, err := s.getRoom(params.RoomCode)
	if err != nil {
		return nil, err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	if rm.HostUserId != params.RequestingUserId {
		return nil, ErrPermissionDenied
	}

	s.startNextSong(ctx, rm)

	if rm.CurrentSong == nil {
		return nil, nil
	}

	current := *rm.CurrentSong
	return &current, nil
}

type TogglePauseParams struct {
	RoomCode         string
	RequestingUserId string
}

// TogglePause pauses a playing room or resumes a paused one. Host only.
// Pausing freezes the seek position; resuming re-anchors the start time so
// the clock continues from the frozen offset.
func (s service) TogglePause(ctx context.Context, params *TogglePauseParams) (bool, error) {
	rm, err := s.getRoom(params.RoomCode)
	if err != nil {
		return false, err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	if rm.HostUserId != params.RequestingUserId {
		return false, ErrPermissionDenied
	}

	if rm.CurrentSong == nil {
		return false, ErrQueueEmpty
	}

	if rm.IsPaused {
		startTime := s.now().Add(-time.Duration(rm.PausePosition * float64(time.Second)))
		rm.SongStartTime = &startTime
		rm.IsPaused = false
		rm.PausePosition = 0
	} else {
		rm.PausePosition = s.seekPosition(rm)
		rm.IsPaused = true
	}

	s.logger.InfoContext(ctx, "pause toggled", "room_code", rm.RoomCode, "is_paused", rm.IsPaused)
	return rm.IsPaused, nil
}

// GetSyncState is the read path that drives auto-advance: when the current
// song's elapsed time has reached its duration, this call performs the
// advance before reporting, so every poll is both an observation and a
// potential state transition.
func (s service) GetSyncState(ctx context.Context, roomCode string) (SyncState, error) {
	rm, err := s.getRoom(roomCode)
	if err != nil {
		return SyncState{}, err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	if rm.CurrentSong != nil && !rm.IsPaused {
		if d := rm.CurrentSong.Duration; d > 0 && s.seekPosition(rm) >= float64(d) {
			s.startNextSong(ctx, rm)
		}
	}

	state := SyncState{
		ServerTime:          s.now(),
		IsPaused:            rm.IsPaused,
		SeekPositionSeconds: s.seekPosition(rm),
		NextSongs:           copyQueue(rm.Queue),
		QueueLength:         len(rm.Queue),
		MemberCount:         len(rm.Members),
	}

	if rm.CurrentSong != nil {
		cs := *rm.CurrentSong
		state.CurrentSong = &cs
	}
	if rm.SongStartTime != nil {
		st := *rm.SongStartTime
		state.SongStartTime = &st
	}

	return state, nil
}
