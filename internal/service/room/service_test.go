package room

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibesync/server/internal/repository/room/inmemory"
	"github.com/vibesync/server/pkg/saavn"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testConfig() *Config {
	return &Config{
		QueueLimit:          100,
		UserSongQuota:       3,
		MaxSongDuration:     480,
		HistoryLimit:        10,
		RoomCodeLength:      6,
		DefaultRoomCode:     "DEFAULT",
		DefaultRoomHostId:   "system",
		DefaultRoomHostName: "VibeSync Radio",
	}
}

func newTestService(t *testing.T, cfg *Config) (*service, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewService(inmemory.NewRepo(), logger, cfg)
	s.now = clock.Now

	return s, clock
}

func testSong(id, name, artists string, duration int) saavn.Song {
	return saavn.Song{
		Id:       id,
		Name:     name,
		Artists:  artists,
		Album:    "Test Album",
		Duration: duration,
	}
}

func addSong(t *testing.T, s *service, roomCode string, song saavn.Song, userId, username string) AddToQueueResponse {
	t.Helper()

	resp, err := s.AddToQueue(context.Background(), &AddToQueueParams{
		RoomCode: roomCode,
		Song:     song,
		UserId:   userId,
		Username: username,
	})
	require.NoError(t, err)

	return resp
}

func createRoom(t *testing.T, s *service) CreateRoomResponse {
	t.Helper()

	resp, err := s.CreateRoom(context.Background(), &CreateRoomParams{
		UserId:   "host-1",
		Username: "host",
	})
	require.NoError(t, err)

	return resp
}

func TestCreateRoom(t *testing.T) {
	s, _ := newTestService(t, testConfig())

	resp := createRoom(t, s)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), resp.RoomCode)
	assert.Equal(t, "host-1", resp.State.HostUserId)
	assert.Equal(t, "host", resp.State.HostUsername)
	assert.Equal(t, 1, resp.State.MemberCount)
	assert.Nil(t, resp.State.CurrentSong)
	assert.Empty(t, resp.State.Queue)

	assert.True(t, s.RoomExists(context.Background(), resp.RoomCode))
}

func TestDefaultRoomExistsAtStartup(t *testing.T) {
	s, _ := newTestService(t, testConfig())

	state, err := s.GetRoomState(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT", state.RoomCode)
	assert.Equal(t, "system", state.HostUserId)
}

func TestDeleteDefaultRoomProtected(t *testing.T) {
	s, _ := newTestService(t, testConfig())

	for _, code := range []string{"DEFAULT", "default", "Default"} {
		_, err := s.DeleteRoom(context.Background(), code)
		assert.ErrorIs(t, err, ErrDefaultRoomProtected)
	}

	// still retrievable afterwards
	_, err := s.GetRoomState(context.Background(), "DEFAULT")
	assert.NoError(t, err)
}

func TestDeleteRoom(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)

	deleted, err := s.DeleteRoom(context.Background(), resp.RoomCode)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteRoom(context.Background(), resp.RoomCode)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.GetRoomState(context.Background(), resp.RoomCode)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetRoomStateNotFound(t *testing.T) {
	s, _ := newTestService(t, testConfig())

	_, err := s.GetRoomState(context.Background(), "NOPE42")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAddToQueueAutoStartsIdleRoom(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)

	added := addSong(t, s, resp.RoomCode, testSong("song-a", "Song A", "Artist", 200), "user-1", "alice")
	assert.Equal(t, 1, added.Position)
	assert.NotEmpty(t, added.Song.QueueId)
	assert.Equal(t, "alice", added.Song.AddedByUsername)

	state, err := s.GetRoomState(context.Background(), resp.RoomCode)
	require.NoError(t, err)
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, "song-a", state.CurrentSong.Id)
	assert.NotNil(t, state.SongStartTime)
	assert.False(t, state.IsPaused)
	assert.Empty(t, state.Queue)
}

func TestQueueCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.QueueLimit = 2
	s, _ := newTestService(t, cfg)
	resp := createRoom(t, s)

	// first song starts playing, next two fill the queue
	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u2", "u2")
	queued := addSong(t, s, resp.RoomCode, testSong("s3", "Three", "C", 100), "u3", "u3")

	_, err := s.AddToQueue(context.Background(), &AddToQueueParams{
		RoomCode: resp.RoomCode,
		Song:     testSong("s4", "Four", "D", 100),
		UserId:   "u4",
		Username: "u4",
	})
	assert.ErrorIs(t, err, ErrQueueFull)

	state, err := s.GetRoomState(context.Background(), resp.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, 2, state.QueueLength)

	// removing a queued entry frees a slot
	_, err = s.RemoveFromQueue(context.Background(), &RemoveFromQueueParams{
		RoomCode:         resp.RoomCode,
		QueueId:          queued.Song.QueueId,
		RequestingUserId: "u3",
	})
	require.NoError(t, err)

	addSong(t, s, resp.RoomCode, testSong("s4", "Four", "D", 100), "u4", "u4")
}

func TestUserQuota(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)

	// the auto-started song no longer counts toward the quota
	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s3", "Three", "C", 100), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s4", "Four", "D", 100), "u1", "u1")

	_, err := s.AddToQueue(context.Background(), &AddToQueueParams{
		RoomCode: resp.RoomCode,
		Song:     testSong("s5", "Five", "E", 100),
		UserId:   "u1",
		Username: "u1",
	})
	assert.ErrorIs(t, err, ErrUserQuotaExceeded)

	// other users are unaffected
	addSong(t, s, resp.RoomCode, testSong("s6", "Six", "F", 100), "u2", "u2")

	state, err := s.GetRoomState(context.Background(), resp.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, 4, state.QueueLength)
}

func TestSongTooLong(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)

	_, err := s.AddToQueue(context.Background(), &AddToQueueParams{
		RoomCode: resp.RoomCode,
		Song:     testSong("long", "Long Song", "A", 481),
		UserId:   "u1",
		Username: "u1",
	})
	assert.ErrorIs(t, err, ErrSongTooLong)

	state, err := s.GetRoomState(context.Background(), resp.RoomCode)
	require.NoError(t, err)
	assert.Nil(t, state.CurrentSong)
	assert.Equal(t, 0, state.QueueLength)
}

func TestAdmissionCheckOrder(t *testing.T) {
	cfg := testConfig()
	cfg.QueueLimit = 1
	s, _ := newTestService(t, cfg)
	resp := createRoom(t, s)

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u1", "u1")

	// queue full and song too long: capacity is checked first
	_, err := s.AddToQueue(context.Background(), &AddToQueueParams{
		RoomCode: resp.RoomCode,
		Song:     testSong("s3", "Three", "C", 999),
		UserId:   "u1",
		Username: "u1",
	})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestDuplicateByCatalogId(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u1", "u1")

	_, err := s.AddToQueue(context.Background(), &AddToQueueParams{
		RoomCode: resp.RoomCode,
		Song:     testSong("s2", "Completely Different Name", "X", 100),
		UserId:   "u2",
		Username: "u2",
	})
	assert.ErrorIs(t, err, ErrDuplicateSong)
}

func TestDuplicateByNormalizedMetadata(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s2", " Some Song ", "The Band", 100), "u1", "u1")

	_, err := s.AddToQueue(context.Background(), &AddToQueueParams{
		RoomCode: resp.RoomCode,
		Song:     testSong("other-id", "some song", "theband", 100),
		UserId:   "u2",
		Username: "u2",
	})
	assert.ErrorIs(t, err, ErrDuplicateSong)
}

func TestReAddAfterCompletion(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")

	// history does not block re-adding
	_, err := s.SkipCurrent(ctx, &SkipCurrentParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	require.NoError(t, err)

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
}

func TestRemoveFromQueuePermissions(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	queued := addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u1", "u1")

	_, err := s.RemoveFromQueue(ctx, &RemoveFromQueueParams{
		RoomCode:         resp.RoomCode,
		QueueId:          queued.Song.QueueId,
		RequestingUserId: "u2",
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = s.RemoveFromQueue(ctx, &RemoveFromQueueParams{
		RoomCode:         resp.RoomCode,
		QueueId:          "missing",
		RequestingUserId: "u1",
	})
	assert.ErrorIs(t, err, ErrSongNotFound)

	// the host may remove anyone's song
	removed, err := s.RemoveFromQueue(ctx, &RemoveFromQueueParams{
		RoomCode:         resp.RoomCode,
		QueueId:          queued.Song.QueueId,
		RequestingUserId: "host-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "s2", removed.Id)

	state, err := s.GetRoomState(ctx, resp.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, 0, state.QueueLength)
}

func TestRemovePreservesQueueOrder(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s0", "Zero", "Z", 100), "u0", "u0")
	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	mid := addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u2", "u2")
	addSong(t, s, resp.RoomCode, testSong("s3", "Three", "C", 100), "u3", "u3")

	_, err := s.RemoveFromQueue(ctx, &RemoveFromQueueParams{
		RoomCode:         resp.RoomCode,
		QueueId:          mid.Song.QueueId,
		RequestingUserId: "u2",
	})
	require.NoError(t, err)

	state, err := s.GetRoomState(ctx, resp.RoomCode)
	require.NoError(t, err)
	require.Len(t, state.Queue, 2)
	assert.Equal(t, "s1", state.Queue[0].Id)
	assert.Equal(t, "s3", state.Queue[1].Id)
}

func TestSkipPermissionAndAdvance(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 200), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 200), "u2", "u2")

	_, err := s.SkipCurrent(ctx, &SkipCurrentParams{RoomCode: resp.RoomCode, RequestingUserId: "u1"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	next, err := s.SkipCurrent(ctx, &SkipCurrentParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "s2", next.Id)

	next, err = s.SkipCurrent(ctx, &SkipCurrentParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	require.NoError(t, err)
	assert.Nil(t, next)

	state, err := s.GetRoomState(ctx, resp.RoomCode)
	require.NoError(t, err)
	assert.Nil(t, state.CurrentSong)
	assert.Nil(t, state.SongStartTime)
}

func TestTogglePauseGuards(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	_, err := s.TogglePause(ctx, &TogglePauseParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	assert.ErrorIs(t, err, ErrQueueEmpty)

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 200), "u1", "u1")

	_, err = s.TogglePause(ctx, &TogglePauseParams{RoomCode: resp.RoomCode, RequestingUserId: "u1"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestPauseResumeOffset(t *testing.T) {
	s, clock := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 200), "u1", "u1")

	clock.Advance(30 * time.Second)

	isPaused, err := s.TogglePause(ctx, &TogglePauseParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	require.NoError(t, err)
	assert.True(t, isPaused)

	// time passing while paused does not move the position
	clock.Advance(100 * time.Second)

	sync, err := s.GetSyncState(ctx, resp.RoomCode)
	require.NoError(t, err)
	assert.True(t, sync.IsPaused)
	assert.InDelta(t, 30, sync.SeekPositionSeconds, 0.001)

	isPaused, err = s.TogglePause(ctx, &TogglePauseParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	require.NoError(t, err)
	assert.False(t, isPaused)

	clock.Advance(10 * time.Second)

	sync, err = s.GetSyncState(ctx, resp.RoomCode)
	require.NoError(t, err)
	assert.InDelta(t, 40, sync.SeekPositionSeconds, 0.001)
}

func TestSeekMonotonicAndAutoAdvance(t *testing.T) {
	s, clock := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 200), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 300), "u2", "u2")

	last := float64(0)
	for _, step := range []time.Duration{50 * time.Second, 100 * time.Second} {
		clock.Advance(step)
		sync, err := s.GetSyncState(ctx, resp.RoomCode)
		require.NoError(t, err)
		require.NotNil(t, sync.CurrentSong)
		assert.Equal(t, "s1", sync.CurrentSong.Id)
		assert.GreaterOrEqual(t, sync.SeekPositionSeconds, last)
		last = sync.SeekPositionSeconds
	}

	// crossing the duration advances to the next song as a side effect of
	// the read, with the position re-anchored at 0
	clock.Advance(60 * time.Second)
	sync, err := s.GetSyncState(ctx, resp.RoomCode)
	require.NoError(t, err)
	require.NotNil(t, sync.CurrentSong)
	assert.Equal(t, "s2", sync.CurrentSong.Id)
	assert.InDelta(t, 0, sync.SeekPositionSeconds, 0.001)
	assert.Equal(t, 0, sync.QueueLength)

	// the finished song is in history, so it can be added again
	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 200), "u3", "u3")
}

func TestAutoAdvanceToIdle(t *testing.T) {
	s, clock := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")

	clock.Advance(101 * time.Second)
	sync, err := s.GetSyncState(ctx, resp.RoomCode)
	require.NoError(t, err)
	assert.Nil(t, sync.CurrentSong)
	assert.Nil(t, sync.SongStartTime)
	assert.False(t, sync.IsPaused)
	assert.InDelta(t, 0, sync.SeekPositionSeconds, 0.001)
}

func TestZeroDurationNeverAutoAdvances(t *testing.T) {
	s, clock := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s1", "Endless", "A", 0), "u1", "u1")

	clock.Advance(24 * time.Hour)
	sync, err := s.GetSyncState(ctx, resp.RoomCode)
	require.NoError(t, err)
	require.NotNil(t, sync.CurrentSong)
	assert.Equal(t, "s1", sync.CurrentSong.Id)
}

func TestPausedRoomNeverAutoAdvances(t *testing.T) {
	s, clock := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")

	clock.Advance(50 * time.Second)
	_, err := s.TogglePause(ctx, &TogglePauseParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	require.NoError(t, err)

	clock.Advance(500 * time.Second)
	sync, err := s.GetSyncState(ctx, resp.RoomCode)
	require.NoError(t, err)
	require.NotNil(t, sync.CurrentSong)
	assert.Equal(t, "s1", sync.CurrentSong.Id)
	assert.InDelta(t, 50, sync.SeekPositionSeconds, 0.001)
}

func TestHistoryBounded(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryLimit = 3
	s, _ := newTestService(t, cfg)
	resp := createRoom(t, s)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		addSong(t, s, resp.RoomCode, testSong(fmt.Sprintf("s%d", i), fmt.Sprintf("Song %d", i), "A", 100), fmt.Sprintf("u%d", i), "u")
		_, err := s.SkipCurrent(ctx, &SkipCurrentParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
		require.NoError(t, err)
	}

	rm, err := s.getRoom(resp.RoomCode)
	require.NoError(t, err)
	rm.Mu.Lock()
	defer rm.Mu.Unlock()
	require.Len(t, rm.RecentlyPlayed, 3)
	// oldest entries evicted first
	assert.Equal(t, "s3", rm.RecentlyPlayed[0].Id)
	assert.Equal(t, "s5", rm.RecentlyPlayed[2].Id)
}

func TestPendingCountsTrackQueueOnly(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u1", "u1")

	rm, err := s.getRoom(resp.RoomCode)
	require.NoError(t, err)

	rm.Mu.Lock()
	// s1 is playing, only s2 is pending
	assert.Equal(t, 1, rm.UserPendingCounts["u1"])
	rm.Mu.Unlock()

	_, err = s.SkipCurrent(context.Background(), &SkipCurrentParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	require.NoError(t, err)

	rm.Mu.Lock()
	// s2 promoted to current: zero entries are removed, not stored
	_, ok := rm.UserPendingCounts["u1"]
	assert.False(t, ok)
	rm.Mu.Unlock()
}

func TestJoinAndLeave(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	state, err := s.JoinRoom(ctx, &JoinRoomParams{RoomCode: resp.RoomCode, UserId: "u1", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, state.MemberCount)

	// re-joining with a new name is an upsert, not an error
	state, err = s.JoinRoom(ctx, &JoinRoomParams{RoomCode: resp.RoomCode, UserId: "u1", Username: "alice2"})
	require.NoError(t, err)
	assert.Equal(t, 2, state.MemberCount)

	left, err := s.LeaveRoom(ctx, &LeaveRoomParams{RoomCode: resp.RoomCode, UserId: "u1"})
	require.NoError(t, err)
	assert.True(t, left)

	left, err = s.LeaveRoom(ctx, &LeaveRoomParams{RoomCode: resp.RoomCode, UserId: "u1"})
	require.NoError(t, err)
	assert.False(t, left)
}

func TestLeaveKeepsQueueEntries(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	s.JoinRoom(ctx, &JoinRoomParams{RoomCode: resp.RoomCode, UserId: "u1", Username: "alice"})
	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "alice")
	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u1", "alice")

	_, err := s.LeaveRoom(ctx, &LeaveRoomParams{RoomCode: resp.RoomCode, UserId: "u1"})
	require.NoError(t, err)

	state, err := s.GetRoomState(ctx, resp.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, 1, state.QueueLength)
	require.NotNil(t, state.CurrentSong)
}

func TestGetSuggestionSeed(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	seed, err := s.GetSuggestionSeed(ctx, resp.RoomCode)
	require.NoError(t, err)
	assert.Empty(t, seed)

	addSong(t, s, resp.RoomCode, testSong("s1", "One", "A", 100), "u1", "u1")
	seed, err = s.GetSuggestionSeed(ctx, resp.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, "s1", seed)

	addSong(t, s, resp.RoomCode, testSong("s2", "Two", "B", 100), "u2", "u2")
	seed, err = s.GetSuggestionSeed(ctx, resp.RoomCode)
	require.NoError(t, err)
	// current song wins over the queue tail
	assert.Equal(t, "s1", seed)
}

func TestConcurrentAddsRespectCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.QueueLimit = 5
	s, _ := newTestService(t, cfg)
	resp := createRoom(t, s)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AddToQueue(context.Background(), &AddToQueueParams{
				RoomCode: resp.RoomCode,
				Song:     testSong(fmt.Sprintf("s%d", i), fmt.Sprintf("Song %d", i), fmt.Sprintf("Artist %d", i), 100),
				UserId:   fmt.Sprintf("u%d", i),
				Username: fmt.Sprintf("u%d", i),
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	state, err := s.GetRoomState(context.Background(), resp.RoomCode)
	require.NoError(t, err)
	assert.LessOrEqual(t, state.QueueLength, 5)
	require.NotNil(t, state.CurrentSong)
	// exactly one add auto-started playback, the rest filled the queue
	assert.Equal(t, state.QueueLength+1, successes)
}

func TestScenarioHostControlsRoom(t *testing.T) {
	s, _ := newTestService(t, testConfig())
	resp := createRoom(t, s)
	ctx := context.Background()

	songA := testSong("song-a", "Song A", "The Band", 200)

	addSong(t, s, resp.RoomCode, songA, "u1", "alice")

	state, err := s.GetRoomState(ctx, resp.RoomCode)
	require.NoError(t, err)
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, "song-a", state.CurrentSong.Id)
	assert.Empty(t, state.Queue)

	_, err = s.AddToQueue(ctx, &AddToQueueParams{
		RoomCode: resp.RoomCode,
		Song:     songA,
		UserId:   "u2",
		Username: "bob",
	})
	assert.ErrorIs(t, err, ErrDuplicateSong)

	_, err = s.SkipCurrent(ctx, &SkipCurrentParams{RoomCode: resp.RoomCode, RequestingUserId: "u2"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	next, err := s.SkipCurrent(ctx, &SkipCurrentParams{RoomCode: resp.RoomCode, RequestingUserId: "host-1"})
	require.NoError(t, err)
	assert.Nil(t, next)

	rm, err := s.getRoom(resp.RoomCode)
	require.NoError(t, err)
	rm.Mu.Lock()
	defer rm.Mu.Unlock()
	require.Len(t, rm.RecentlyPlayed, 1)
	assert.Equal(t, "song-a", rm.RecentlyPlayed[0].Id)
	assert.Nil(t, rm.CurrentSong)
}
