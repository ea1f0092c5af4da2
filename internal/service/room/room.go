package room

import (
	"context"
	"errors"
	"strings"

	"github.com/vibesync/server/internal/repository/room"
)

type CreateRoomParams struct {
	UserId   string
	Username string
}

type CreateRoomResponse struct {
	RoomCode string
	State    RoomState
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	// Codes are unique among live rooms: the repo rejects collisions, so on
	// the rare clash we just roll again.
	for {
		roomCode := s.generator.GenerateRandomString(s.cfg.RoomCodeLength)

		rm := room.NewRoom(roomCode, params.UserId, params.Username, s.now())
		if err := s.roomRepo.Insert(rm); err != nil {
			if errors.Is(err, room.ErrRoomAlreadyExists) {
				continue
			}
			return CreateRoomResponse{}, err
		}

		s.logger.InfoContext(ctx, "room created", "room_code", roomCode, "host", params.Username)

		rm.Mu.Lock()
		state := snapshotRoom(rm)
		rm.Mu.Unlock()

		return CreateRoomResponse{
			RoomCode: roomCode,
			State:    state,
		}, nil
	}
}

func (s service) GetRoomState(ctx context.Context, roomCode string) (RoomState, error) {
	rm, err := s.getRoom(roomCode)
	if err != nil {
		return RoomState{}, err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	return snapshotRoom(rm), nil
}

// DeleteRoom removes the room and reports whether it existed. The default
// room is protected regardless of whether the caller got the casing right.
func (s service) DeleteRoom(ctx context.Context, roomCode string) (bool, error) {
	if strings.EqualFold(roomCode, s.cfg.DefaultRoomCode) {
		return false, ErrDefaultRoomProtected
	}

	deleted := s.roomRepo.Remove(roomCode)
	if deleted {
		s.logger.InfoContext(ctx, "room deleted", "room_code", strings.ToUpper(roomCode))
	}

	return deleted, nil
}

func (s service) RoomExists(ctx context.Context, roomCode string) bool {
	return s.roomRepo.Exists(roomCode)
}

func (s service) ActiveRoomsCount(ctx context.Context) int {
	return s.roomRepo.Len()
}

func (s service) RoomCodes(ctx context.Context) []string {
	return s.roomRepo.Codes()
}

// GetSuggestionSeed returns the catalog id suggestions should be based on:
// the current song if one is playing, otherwise the most recently queued
// song. Empty when the room is silent.
func (s service) GetSuggestionSeed(ctx context.Context, roomCode string) (string, error) {
	rm, err := s.getRoom(roomCode)
	if err != nil {
		return "", err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	if rm.CurrentSong != nil {
		return rm.CurrentSong.Id, nil
	}
	if len(rm.Queue) > 0 {
		return rm.Queue[len(rm.Queue)-1].Id, nil
	}

	return "", nil
}
