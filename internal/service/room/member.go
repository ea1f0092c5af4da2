package room

import "context"

type JoinRoomParams struct {
	RoomCode string
	UserId   string
	Username string
}

// JoinRoom upserts the member. Re-joining with a new username just updates
// the display name.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (RoomState, error) {
	rm, err := s.getRoom(params.RoomCode)
	if err != nil {
		return RoomState{}, err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	rm.Members[params.UserId] = params.Username

	s.logger.InfoContext(ctx, "member joined", "room_code", rm.RoomCode, "user", params.Username)

	return snapshotRoom(rm), nil
}

type LeaveRoomParams struct {
	RoomCode string
	UserId   string
}

// LeaveRoom removes the member and reports whether they were present.
// Queue entries and pending counts the user already has stay in flight.
func (s service) LeaveRoom(ctx context.Context, params *LeaveRoomParams) (bool, error) {
	rm, err := s.getRoom(params.RoomCode)
	if err != nil {
		return false, err
	}

	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	if _, ok := rm.Members[params.UserId]; !ok {
		return false, nil
	}

	delete(rm.Members, params.UserId)

	s.logger.InfoContext(ctx, "member left", "room_code", rm.RoomCode, "user_id", params.UserId)
	return true, nil
}
