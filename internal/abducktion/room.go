package abducktion

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quackhq/quackbox/internal/roomcode"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNameTaken     = errors.New("name already taken")
	ErrNotHost       = errors.New("not host")
	ErrWrongPhase    = errors.New("wrong phase for action")
	ErrUnknownPlayer = errors.New("unknown player")
)

type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseResults Phase = "results"
)

type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Player in a puzzle race. ID is a stable identity issued at join time;
// connID is the transient socket binding and is swapped on reconnect.
type Player struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Position  Point   `json:"position"`
	HasWon    bool    `json:"hasWon"`
	MoveCount int     `json:"moveCount"`
	Board     [][]int `json:"board"`

	connID    string
	finishSeq int
}

// Room is a single Abducktion session. Board holds the level's canonical
// layout; each player races on their own deep copy, since jumping over a
// block consumes it for that player only.
type Room struct {
	Code           string
	HostConnID     string
	Players        []*Player
	Phase          Phase
	CurrentLevel   int
	Board          [][]int
	TargetPosition Point
	Winner         *Player
	CreatedAt      time.Time

	finishCounter int
}

type RoomView struct {
	Code           string   `json:"code"`
	Players        []Player `json:"players"`
	GameState      Phase    `json:"gameState"`
	CurrentLevel   int      `json:"currentLevel"`
	Board          [][]int  `json:"board"`
	TargetPosition Point    `json:"targetPosition"`
	Winner         *Player  `json:"winner,omitempty"`
}

// Registry coordinates all Abducktion rooms behind a single lock, same model
// as the caption contest registry.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

func (reg *Registry) CreateRoom(hostConnID string) (RoomView, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code, err := roomcode.Generate(func(c string) bool {
		_, ok := reg.rooms[c]
		return ok
	})
	if err != nil {
		return RoomView{}, err
	}
	r := &Room{
		Code:         code,
		HostConnID:   hostConnID,
		Phase:        PhaseLobby,
		CurrentLevel: 1,
		CreatedAt:    time.Now().UTC(),
	}
	reg.rooms[code] = r
	return r.view(), nil
}

// RejoinHost rebinds the host connection by possession of the room code.
func (reg *Registry) RejoinHost(code, connID string) (RoomView, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[normalize(code)]
	if !ok {
		return RoomView{}, ErrRoomNotFound
	}
	r.HostConnID = connID
	return r.view(), nil
}

// Join adds a player with a freshly issued stable ID. Someone joining a room
// already mid-level starts from (0,0) on a fresh copy of the canonical board.
func (reg *Registry) Join(code, connID, name string) (RoomView, string, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[normalize(code)]
	if !ok {
		return RoomView{}, "", ErrRoomNotFound
	}
	for _, p := range r.Players {
		if p.Name == name {
			return RoomView{}, "", ErrNameTaken
		}
	}
	p := &Player{
		ID:     uuid.NewString(),
		Name:   name,
		connID: connID,
	}
	if r.Board != nil {
		p.Board = copyBoard(r.Board)
	}
	r.Players = append(r.Players, p)
	return r.view(), p.ID, nil
}

// Rebind points an existing player at a new connection, preserving position,
// move count, win state and the player's own board.
func (reg *Registry) Rebind(code, playerID, connID string) (RoomView, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[normalize(code)]
	if !ok {
		return RoomView{}, ErrRoomNotFound
	}
	for _, p := range r.Players {
		if p.ID == playerID {
			p.connID = connID
			return r.view(), nil
		}
	}
	return RoomView{}, ErrUnknownPlayer
}

// LeaveResult mirrors game.LeaveResult for the puzzle race variant.
type LeaveResult struct {
	Found  bool
	Closed bool
	Code   string
	Room   RoomView
}

// Leave handles a dropped connection. A host disconnect closes the room.
// A player disconnect removes them only while the room is still in the
// lobby; once a level is running the record is kept so the player can rebind
// after a reload without losing their run.
func (reg *Registry) Leave(connID string) LeaveResult {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var res LeaveResult
	for code, r := range reg.rooms {
		if r.HostConnID == connID {
			res = LeaveResult{Found: true, Closed: true, Code: code}
			break
		}
		idx := -1
		for i, p := range r.Players {
			if p.connID == connID {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}
		if r.Phase != PhaseLobby {
			// keep the record for rebind
			res = LeaveResult{Found: true, Code: code, Room: r.view()}
			break
		}
		r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
		if len(r.Players) == 0 {
			res = LeaveResult{Found: true, Closed: true, Code: code}
		} else {
			res = LeaveResult{Found: true, Code: code, Room: r.view()}
		}
		break
	}
	if res.Closed {
		delete(reg.rooms, res.Code)
	}
	return res
}

// StartGame generates the first level and puts everyone at the start cell.
// Host-only, lobby-only.
func (reg *Registry) StartGame(code, connID string) (*RoomView, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[normalize(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if connID != r.HostConnID {
		return nil, ErrNotHost
	}
	if r.Phase != PhaseLobby {
		return nil, ErrWrongPhase
	}
	r.resetLevel()
	v := r.view()
	return &v, nil
}

// NextLevel advances to a bigger board and resets every player. Host-only.
func (reg *Registry) NextLevel(code, connID string) (*RoomView, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[normalize(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if connID != r.HostConnID {
		return nil, ErrNotHost
	}
	r.CurrentLevel++
	r.resetLevel()
	v := r.view()
	return &v, nil
}

// MoveOutcome reports an accepted move. Ended is set when the move resolved
// the round and the room is now showing results.
type MoveOutcome struct {
	Room  RoomView
	Ended bool
}

// Move resolves one step for the player bound to connID. Out-of-bounds moves
// and moves from players who already finished are dropped without error or
// side effect. Stepping onto a block in the player's own board copy succeeds
// and consumes that block for this player only.
func (reg *Registry) Move(code, connID string, dir Direction) (*MoveOutcome, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[normalize(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.Phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	var p *Player
	for _, cand := range r.Players {
		if cand.connID == connID {
			p = cand
			break
		}
	}
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if p.HasWon {
		return nil, nil
	}

	x, y := p.Position.X, p.Position.Y
	switch dir {
	case DirUp:
		y--
	case DirDown:
		y++
	case DirLeft:
		x--
	case DirRight:
		x++
	default:
		return nil, nil
	}
	size := len(p.Board)
	if x < 0 || x >= size || y < 0 || y >= size {
		return nil, nil
	}

	if p.Board[y][x] == 1 {
		p.Board[y][x] = 0
	}
	p.Position = Point{X: x, Y: y}
	p.MoveCount++

	ended := false
	if p.Position == r.TargetPosition {
		p.HasWon = true
		r.finishCounter++
		p.finishSeq = r.finishCounter
		if r.allWon() {
			r.Phase = PhaseResults
			r.Winner = r.pickWinner()
			ended = true
		}
	}

	return &MoveOutcome{Room: r.view(), Ended: ended}, nil
}

func (r *Room) resetLevel() {
	board, target := GenerateBoard(r.CurrentLevel)
	r.Board = board
	r.TargetPosition = target
	r.Winner = nil
	r.Phase = PhasePlaying
	r.finishCounter = 0
	for _, p := range r.Players {
		p.Position = Point{}
		p.HasWon = false
		p.MoveCount = 0
		p.Board = copyBoard(board)
		p.finishSeq = 0
	}
}

func (r *Room) allWon() bool {
	for _, p := range r.Players {
		if !p.HasWon {
			return false
		}
	}
	return len(r.Players) > 0
}

// pickWinner takes the fewest moves among finishers; ties go to whoever
// reached the target first.
func (r *Room) pickWinner() *Player {
	var best *Player
	for _, p := range r.Players {
		if !p.HasWon {
			continue
		}
		if best == nil || p.MoveCount < best.MoveCount ||
			(p.MoveCount == best.MoveCount && p.finishSeq < best.finishSeq) {
			best = p
		}
	}
	return best
}

func (r *Room) view() RoomView {
	players := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		cp := *p
		cp.Board = copyBoard(p.Board)
		players = append(players, cp)
	}
	v := RoomView{
		Code:           r.Code,
		Players:        players,
		GameState:      r.Phase,
		CurrentLevel:   r.CurrentLevel,
		Board:          copyBoard(r.Board),
		TargetPosition: r.TargetPosition,
	}
	if r.Winner != nil {
		w := *r.Winner
		w.Board = nil
		v.Winner = &w
	}
	return v
}

// Has reports whether a live room exists for the code.
func (reg *Registry) Has(code string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	_, ok := reg.rooms[normalize(code)]
	return ok
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
