package room

import (
	"log/slog"
	"time"

	"github.com/vibesync/server/internal/repository/room"
	"github.com/vibesync/server/pkg/randstr"
)

type iRoomRepo interface {
	Insert(*room.Room) error
	Get(string) (*room.Room, error)
	Remove(string) bool
	Exists(string) bool
	Codes() []string
	Len() int
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	QueueLimit          int
	UserSongQuota       int
	MaxSongDuration     int
	HistoryLimit        int
	RoomCodeLength      int
	DefaultRoomCode     string
	DefaultRoomHostId   string
	DefaultRoomHostName string
}

type service struct {
	roomRepo  iRoomRepo
	generator iGenerator
	logger    *slog.Logger
	cfg       Config

	// now is the playback clock, swapped out in tests.
	now func() time.Time
}

func NewService(roomRepo iRoomRepo, logger *slog.Logger, cfg *Config) *service {
	letterBytes := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

	s := service{
		roomRepo:  roomRepo,
		generator: randstr.New(letterBytes),
		logger:    logger,
		cfg:       *cfg,
		now:       time.Now,
	}

	s.createDefaultRoom()

	return &s
}

// createDefaultRoom seeds the community room that exists for the lifetime of
// the process. DeleteRoom refuses to remove it.
func (s service) createDefaultRoom() {
	rm := room.NewRoom(s.cfg.DefaultRoomCode, s.cfg.DefaultRoomHostId, s.cfg.DefaultRoomHostName, s.now())
	if err := s.roomRepo.Insert(rm); err != nil {
		s.logger.Error("failed to create default room", "error", err)
		return
	}

	s.logger.Info("default room created", "room_code", s.cfg.DefaultRoomCode)
}

func (s service) getRoom(roomCode string) (*room.Room, error) {
	rm, err := s.roomRepo.Get(roomCode)
	if err != nil {
		return nil, ErrRoomNotFound
	}

	return rm, nil
}
