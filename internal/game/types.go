package game

import (
	"time"
)

type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseSubmitting Phase = "submitting"
	PhaseVoting     Phase = "voting"
	PhaseResults    Phase = "results"
)

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	IsHost bool   `json:"isHost"`
}

type Submission struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Caption    string `json:"caption"`
}

// Room is a single caption contest session. All fields are guarded by the
// owning Registry's lock; callers outside this package only ever see
// RoomView snapshots.
type Room struct {
	Code         string
	HostConnID   string
	Players      []*Player
	Phase        Phase
	CurrentRound int
	CurrentImage string
	Submissions  []Submission
	Votes        map[string]string // voter conn id -> voted-for conn id
	Scores       map[string]int    // player conn id -> cumulative score
	CreatedAt    time.Time
}

// RoomView is the snapshot broadcast to clients on lobby and membership
// changes.
type RoomView struct {
	Code         string   `json:"code"`
	Players      []Player `json:"players"`
	GameState    Phase    `json:"gameState"`
	CurrentRound int      `json:"currentRound"`
	CurrentImage string   `json:"currentImage,omitempty"`
}

// RoundStart announces the submitting phase of a new round.
type RoundStart struct {
	GameState    Phase  `json:"gameState"`
	CurrentImage string `json:"currentImage"`
	Round        int    `json:"round"`
}

// SubmissionProgress is the lightweight intra-phase counter broadcast after
// each accepted caption.
type SubmissionProgress struct {
	PlayerName       string `json:"playerName"`
	TotalSubmissions int    `json:"totalSubmissions"`
	TotalPlayers     int    `json:"totalPlayers"`
}

type VotingEntry struct {
	Caption  string `json:"caption"`
	PlayerID string `json:"playerId"`
}

// VotingStart announces the voting phase with the round's captions.
type VotingStart struct {
	GameState   Phase         `json:"gameState"`
	Submissions []VotingEntry `json:"submissions"`
}

type VoteProgress struct {
	VotesReceived int `json:"votesReceived"`
	TotalPlayers  int `json:"totalPlayers"`
}

type ScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type VoteCount struct {
	PlayerName string `json:"playerName"`
	Caption    string `json:"caption"`
	Votes      int    `json:"votes"`
}

// RoundResults carries the reveal payload once every player has voted.
// Round is for server-side consumers (results export) and stays off the wire.
type RoundResults struct {
	Round          int          `json:"-"`
	GameState      Phase        `json:"gameState"`
	Winner         *Player      `json:"winner"`
	WinningCaption string       `json:"winningCaption"`
	AllScores      []ScoreEntry `json:"allScores"`
	VoteCounts     []VoteCount  `json:"voteCounts"`
}

func (r *Room) view() RoomView {
	players := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, *p)
	}
	return RoomView{
		Code:         r.Code,
		Players:      players,
		GameState:    r.Phase,
		CurrentRound: r.CurrentRound,
		CurrentImage: r.CurrentImage,
	}
}

func (r *Room) playerByConn(connID string) *Player {
	for _, p := range r.Players {
		if p.ID == connID {
			return p
		}
	}
	return nil
}
