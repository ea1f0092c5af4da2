package controller

import (
	"context"
	"log/slog"

	"github.com/vibesync/server/internal/service/room"
	"github.com/vibesync/server/pkg/aescbc"
	"github.com/vibesync/server/pkg/saavn"
	"github.com/vibesync/server/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (room.CreateRoomResponse, error)
	GetRoomState(context.Context, string) (room.RoomState, error)
	DeleteRoom(context.Context, string) (bool, error)
	AddToQueue(context.Context, *room.AddToQueueParams) (room.AddToQueueResponse, error)
	RemoveFromQueue(context.Context, *room.RemoveFromQueueParams) (room.QueuedSong, error)
	SkipCurrent(context.Context, *room.SkipCurrentParams) (*room.QueuedSong, error)
	TogglePause(context.Context, *room.TogglePauseParams) (bool, error)
	GetSyncState(context.Context, string) (room.SyncState, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.RoomState, error)
	LeaveRoom(context.Context, *room.LeaveRoomParams) (bool, error)
	GetSuggestionSeed(context.Context, string) (string, error)
	ActiveRoomsCount(context.Context) int
	RoomCodes(context.Context) []string
}

type iCatalogService interface {
	SearchSongs(ctx context.Context, query string, limit int) ([]saavn.Song, error)
	GetSongDetails(ctx context.Context, songId string) (saavn.Song, error)
	GetSuggestions(ctx context.Context, songId string, limit int) []saavn.Song
}

type controller struct {
	roomService    iRoomService
	catalogService iCatalogService
	validate       *validator.Validator
	codec          *aescbc.Codec
	logger         *slog.Logger
	appName        string
	appVersion     string
}

func NewController(roomService iRoomService, catalogService iCatalogService, codec *aescbc.Codec, logger *slog.Logger, appName, appVersion string) *controller {
	return &controller{
		roomService:    roomService,
		catalogService: catalogService,
		validate:       validator.NewValidator(),
		codec:          codec,
		logger:         logger,
		appName:        appName,
		appVersion:     appVersion,
	}
}
