package game

import (
	"fmt"
	"testing"
)

type stubPicker struct{}

func (stubPicker) RoundImage(code string, round int) string {
	return fmt.Sprintf("img://%s/%d", code, round)
}

func newTestRegistry() *Registry {
	return NewRegistry(NewMemoryStore(), stubPicker{})
}

func TestCreateRoom(t *testing.T) {
	reg := newTestRegistry()
	room, err := reg.CreateRoom("host-1")
	if err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}
	if len(room.Code) != 4 {
		t.Fatalf("expected 4-character code, got %q", room.Code)
	}
	for _, r := range room.Code {
		if r < 'A' || r > 'Z' {
			t.Fatalf("expected uppercase code, got %q", room.Code)
		}
	}
	if room.GameState != PhaseLobby {
		t.Fatalf("expected lobby phase, got %s", room.GameState)
	}
	if len(room.Players) != 0 {
		t.Fatalf("expected empty player list, got %d", len(room.Players))
	}
	if room.CurrentRound != 0 {
		t.Fatalf("expected round 0, got %d", room.CurrentRound)
	}
	if !reg.Has(room.Code) {
		t.Fatal("registry should know the new room")
	}
}

func TestJoinRoom(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.CreateRoom("host-1")

	updated, err := reg.Join(room.Code, "conn-a", "Alice")
	if err != nil {
		t.Fatalf("should be able to join: %v", err)
	}
	if len(updated.Players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(updated.Players))
	}
	p := updated.Players[0]
	if p.Name != "Alice" || p.ID != "conn-a" || p.Score != 0 {
		t.Fatalf("unexpected player: %+v", p)
	}
	if p.IsHost {
		t.Fatal("joining player should not be host")
	}

	// lowercase codes resolve to the same room
	updated, err = reg.Join(stringsToLower(room.Code), "conn-b", "Bob")
	if err != nil {
		t.Fatalf("lowercase code should resolve: %v", err)
	}
	if len(updated.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(updated.Players))
	}
}

func stringsToLower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

func TestJoinUnknownRoom(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join("ZZZZ", "conn-a", "Alice")
	if err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestJoinNameTaken(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.CreateRoom("host-1")
	if _, err := reg.Join(room.Code, "conn-a", "Alice"); err != nil {
		t.Fatalf("first join should succeed: %v", err)
	}
	if _, err := reg.Join(room.Code, "conn-b", "Alice"); err != ErrNameTaken {
		t.Fatalf("expected ErrNameTaken for exact match, got %v", err)
	}
	// uniqueness is case-sensitive: a differently-cased name is a new name
	if _, err := reg.Join(room.Code, "conn-c", "alice"); err != nil {
		t.Fatalf("differently-cased name should be accepted: %v", err)
	}
}

func TestRejoinHost(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.CreateRoom("host-1")

	rejoined, err := reg.RejoinHost(room.Code, "host-2")
	if err != nil {
		t.Fatalf("rejoin should succeed: %v", err)
	}
	if rejoined.Code != room.Code {
		t.Fatalf("expected same room %s, got %s", room.Code, rejoined.Code)
	}

	// rejoining twice rebinds again without creating a duplicate room
	if _, err := reg.RejoinHost(room.Code, "host-3"); err != nil {
		t.Fatalf("second rejoin should succeed: %v", err)
	}
	count := 0
	reg.store.Each(func(*Room) bool { count++; return true })
	if count != 1 {
		t.Fatalf("expected exactly 1 room, got %d", count)
	}

	if _, err := reg.RejoinHost("ZZZZ", "host-2"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestLeavePlayer(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.CreateRoom("host-1")
	reg.Join(room.Code, "conn-a", "Alice")
	reg.Join(room.Code, "conn-b", "Bob")

	res := reg.Leave("conn-a")
	if !res.Found {
		t.Fatal("leave should find the player")
	}
	if res.Closed {
		t.Fatal("room with a remaining player should stay open")
	}
	if len(res.Room.Players) != 1 || res.Room.Players[0].Name != "Bob" {
		t.Fatalf("expected only Bob to remain, got %+v", res.Room.Players)
	}
}

func TestLeaveLastPlayerClosesRoom(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.CreateRoom("host-1")
	reg.Join(room.Code, "conn-a", "Alice")

	res := reg.Leave("conn-a")
	if !res.Found || !res.Closed {
		t.Fatalf("expected room closure, got %+v", res)
	}
	if reg.Has(room.Code) {
		t.Fatal("room should be deleted")
	}
}

func TestHostDisconnectClosesRoom(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.CreateRoom("host-1")
	reg.Join(room.Code, "conn-a", "Alice")
	reg.Join(room.Code, "conn-b", "Bob")

	res := reg.Leave("host-1")
	if !res.Found || !res.Closed {
		t.Fatalf("host disconnect should close the room, got %+v", res)
	}
	if res.Code != room.Code {
		t.Fatalf("expected code %s, got %s", room.Code, res.Code)
	}
	if reg.Has(room.Code) {
		t.Fatal("room should be deleted after host left")
	}
}

func TestLeaveUnknownConnection(t *testing.T) {
	reg := newTestRegistry()
	reg.CreateRoom("host-1")
	if res := reg.Leave("nobody"); res.Found {
		t.Fatalf("unknown connection should not match any room: %+v", res)
	}
}
