package game

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/quackhq/quackbox/internal/images"
	"github.com/quackhq/quackbox/internal/roomcode"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrNameTaken        = errors.New("name already taken")
	ErrNotHost          = errors.New("not host")
	ErrWrongPhase       = errors.New("wrong phase for action")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrSelfVote         = errors.New("can't vote for yourself")
	ErrAlreadySubmitted = errors.New("already submitted this round")
	ErrNoPlayers        = errors.New("no players in room")
)

// Registry coordinates all caption contest rooms. A single mutex serializes
// every operation, mirroring the one-event-at-a-time execution model the
// games assume; rooms therefore carry no locks of their own.
type Registry struct {
	mu     sync.Mutex
	store  Store
	picker images.Picker
}

func NewRegistry(store Store, picker images.Picker) *Registry {
	return &Registry{store: store, picker: picker}
}

// CreateRoom allocates a room owned by the given connection. The creator is
// the host and is not part of the player list.
func (reg *Registry) CreateRoom(hostConnID string) (RoomView, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code, err := roomcode.Generate(reg.store.Has)
	if err != nil {
		return RoomView{}, err
	}
	r := &Room{
		Code:       code,
		HostConnID: hostConnID,
		Phase:      PhaseLobby,
		Votes:      make(map[string]string),
		Scores:     make(map[string]int),
		CreatedAt:  time.Now().UTC(),
	}
	reg.store.Put(r)
	return r.view(), nil
}

// RejoinHost rebinds the host connection after a reload. Possession of the
// room code is the only credential; the previous host connection is simply
// replaced. Calling it twice with the same code is harmless.
func (reg *Registry) RejoinHost(code, connID string) (RoomView, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.store.Get(normalize(code))
	if !ok {
		return RoomView{}, ErrRoomNotFound
	}
	r.HostConnID = connID
	return r.view(), nil
}

// Join adds a player to a lobby. Names must be unique within the room,
// compared case-sensitively.
func (reg *Registry) Join(code, connID, name string) (RoomView, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.store.Get(normalize(code))
	if !ok {
		return RoomView{}, ErrRoomNotFound
	}
	for _, p := range r.Players {
		if p.Name == name {
			return RoomView{}, ErrNameTaken
		}
	}
	r.Players = append(r.Players, &Player{
		ID:     connID,
		Name:   name,
		IsHost: connID == r.HostConnID,
	})
	r.Scores[connID] = 0
	return r.view(), nil
}

// LeaveResult reports what happened to the room a departing connection was
// part of, so the caller knows whether to broadcast an update or a closure.
type LeaveResult struct {
	Found  bool
	Closed bool
	Code   string
	Room   RoomView
}

// Leave removes the connection from whichever room holds it. The room is
// deleted outright when its last player leaves or when the departing
// connection is the host.
func (reg *Registry) Leave(connID string) LeaveResult {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var res LeaveResult
	reg.store.Each(func(r *Room) bool {
		idx := -1
		for i, p := range r.Players {
			if p.ID == connID {
				idx = i
				break
			}
		}
		if idx == -1 && r.HostConnID != connID {
			return true
		}
		if idx != -1 {
			r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
			delete(r.Scores, connID)
		}
		res.Found = true
		res.Code = r.Code
		if len(r.Players) == 0 || connID == r.HostConnID {
			res.Closed = true
		} else {
			res.Room = r.view()
		}
		return false
	})
	if res.Closed {
		reg.store.Delete(res.Code)
	}
	return res
}

// Has reports whether a live room exists for the code.
func (reg *Registry) Has(code string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.store.Has(normalize(code))
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
