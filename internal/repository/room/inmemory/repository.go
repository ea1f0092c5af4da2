// Package inmemory stores live rooms in process memory. All state is lost on
// restart, which matches the persistence contract of the server.
package inmemory

import (
	"strings"
	"sync"

	"github.com/vibesync/server/internal/repository/room"
)

type repo struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room
}

func NewRepo() *repo {
	return &repo{
		rooms: make(map[string]*room.Room),
	}
}

func (r *repo) canonical(roomCode string) string {
	return strings.ToUpper(roomCode)
}

// Insert adds a room under its code. The existence check and the insert are
// one critical section, so code uniqueness holds under concurrent creates.
func (r *repo) Insert(rm *room.Room) error {
	code := r.canonical(rm.RoomCode)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[code]; ok {
		return room.ErrRoomAlreadyExists
	}

	r.rooms[code] = rm
	return nil
}

func (r *repo) Get(roomCode string) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[r.canonical(roomCode)]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	return rm, nil
}

// Remove deletes the room if present and reports whether it existed.
func (r *repo) Remove(roomCode string) bool {
	code := r.canonical(roomCode)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[code]; !ok {
		return false
	}

	delete(r.rooms, code)
	return true
}

func (r *repo) Exists(roomCode string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[r.canonical(roomCode)]
	return ok
}

func (r *repo) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}

	return codes
}

func (r *repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}
