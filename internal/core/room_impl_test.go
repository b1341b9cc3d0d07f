package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dkeye/Tabletop/internal/domain"
)

// sequence returns a generator that replays codes and then repeats the last.
func sequence(codes ...domain.RoomCode) CodeGenerator {
	i := 0
	return func() domain.RoomCode {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c
	}
}

func delta(t *testing.T, raw string) domain.GameState {
	t.Helper()
	s, err := domain.ParseGameState([]byte(raw))
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return s
}

func TestCreateRoom(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 0)
	code, err := reg.CreateRoom("host")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if code != "AB12CD" {
		t.Fatalf("expected AB12CD, got %s", code)
	}
	if !reg.IsMember(code, "host") {
		t.Fatal("host must be a member of its room")
	}
	state, _ := reg.State(code)
	if len(state) != 0 {
		t.Fatalf("expected empty state, got %v", state)
	}
}

func TestCreateRoomRegeneratesOnCollision(t *testing.T) {
	reg := NewRoomRegistry(sequence("AAAAAA", "AAAAAA", "BBBBBB"), 0)
	first, _ := reg.CreateRoom("h1")
	second, err := reg.CreateRoom("h2")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if first == second {
		t.Fatalf("two live rooms share code %s", first)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 rooms, got %d", reg.Len())
	}
}

func TestCreateRoomExhausted(t *testing.T) {
	reg := NewRoomRegistry(sequence("AAAAAA"), 0)
	if _, err := reg.CreateRoom("h1"); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := reg.CreateRoom("h2"); !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected ErrCodeExhausted, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("failed create must not insert, got %d rooms", reg.Len())
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 0)
	code, _ := reg.CreateRoom("host")

	if _, err := reg.JoinRoom("ZZZZZZ", "peer"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if reg.Len() != 1 || len(reg.Members(code)) != 1 {
		t.Fatal("failed join mutated the registry")
	}
}

func TestJoinReturnsSnapshot(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 0)
	code, _ := reg.CreateRoom("host")
	reg.MergeState(code, "host", delta(t, `{"map":"tavern"}`))

	snap, err := reg.JoinRoom(code, "peer")
	if err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if !reg.IsMember(code, "peer") {
		t.Fatal("peer must be a member after join")
	}
	if snap.RoomCode != code || string(snap.GameState["map"]) != `"tavern"` {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	reg.MergeState(code, "host", delta(t, `{"map":"crypt"}`))
	if string(snap.GameState["map"]) != `"tavern"` {
		t.Fatal("snapshot aliases live state")
	}
}

func TestJoinTwiceKeepsSetSemantics(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 0)
	code, _ := reg.CreateRoom("host")
	reg.JoinRoom(code, "peer")
	reg.JoinRoom(code, "peer")
	if got := len(reg.Members(code)); got != 2 {
		t.Fatalf("expected 2 members, got %d", got)
	}
}

func TestJoinFullRoom(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 2)
	code, _ := reg.CreateRoom("host")
	if _, err := reg.JoinRoom(code, "p1"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if _, err := reg.JoinRoom(code, "p2"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if _, err := reg.JoinRoom(code, "p1"); err != nil {
		t.Fatalf("existing member re-join must succeed: %v", err)
	}
}

func TestMergeStateCrossSender(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 0)
	code, _ := reg.CreateRoom("id")
	reg.JoinRoom(code, "id2")

	reg.MergeState(code, "id", delta(t, `{"a":1}`))
	reg.MergeState(code, "id2", delta(t, `{"b":2}`))
	assertState(t, reg, code, `{"a":1,"b":2}`)

	out, ok := reg.MergeState(code, "id", delta(t, `{"a":3}`))
	if !ok || string(out["a"]) != "3" || len(out) != 1 {
		t.Fatalf("MergeState must return the delta, got %v %v", out, ok)
	}
	assertState(t, reg, code, `{"a":3,"b":2}`)
}

func TestMergeStateMissingRoom(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 0)
	if _, ok := reg.MergeState("AB12CD", "id", delta(t, `{"a":1}`)); ok {
		t.Fatal("merge into a missing room must report false")
	}
	if reg.Len() != 0 {
		t.Fatal("merge must not create rooms")
	}
}

func TestRemoveMemberLifecycle(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 0)
	code, _ := reg.CreateRoom("A")
	reg.JoinRoom(code, "B")

	remaining, deleted := reg.RemoveMember(code, "A")
	if deleted || len(remaining) != 1 || remaining[0] != "B" {
		t.Fatalf("expected room alive with {B}, got %v deleted=%v", remaining, deleted)
	}

	remaining, deleted = reg.RemoveMember(code, "B")
	if !deleted || len(remaining) != 0 {
		t.Fatalf("expected room deleted, got %v deleted=%v", remaining, deleted)
	}
	if reg.Has(code) {
		t.Fatal("empty room still registered")
	}
	if _, err := reg.JoinRoom(code, "C"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound after deletion, got %v", err)
	}
}

func TestRemoveMemberIdempotent(t *testing.T) {
	reg := NewRoomRegistry(sequence("AB12CD"), 0)
	code, _ := reg.CreateRoom("A")
	reg.JoinRoom(code, "B")

	reg.RemoveMember(code, "ghost")
	if got := len(reg.Members(code)); got != 2 {
		t.Fatalf("removing an absent member changed the room: %d", got)
	}
	if _, deleted := reg.RemoveMember("NOPE00", "A"); deleted {
		t.Fatal("removing from an absent room must be a no-op")
	}
}

func TestIndependentRegistries(t *testing.T) {
	a := NewRoomRegistry(sequence("AB12CD"), 0)
	b := NewRoomRegistry(sequence("AB12CD"), 0)
	code, _ := a.CreateRoom("host")
	if b.Has(code) {
		t.Fatal("registries share state")
	}
}

func TestList(t *testing.T) {
	reg := NewRoomRegistry(sequence("BBBBBB", "AAAAAA"), 0)
	reg.CreateRoom("h1")
	code, _ := reg.CreateRoom("h2")
	reg.JoinRoom(code, "p")

	rooms := reg.List()
	if len(rooms) != 2 || rooms[0].Code != "AAAAAA" || rooms[0].MemberCount != 2 {
		t.Fatalf("unexpected listing %+v", rooms)
	}
	for _, info := range rooms {
		if info.CreatedAt.IsZero() {
			t.Fatalf("room %s listed without creation time", info.Code)
		}
	}
}

func assertState(t *testing.T, reg *RoomRegistry, code domain.RoomCode, want string) {
	t.Helper()
	state, ok := reg.State(code)
	if !ok {
		t.Fatalf("room %s missing", code)
	}
	got, _ := json.Marshal(state)
	var g, w map[string]any
	_ = json.Unmarshal(got, &g)
	_ = json.Unmarshal([]byte(want), &w)
	gb, _ := json.Marshal(g)
	wb, _ := json.Marshal(w)
	if string(gb) != string(wb) {
		t.Fatalf("expected state %s, got %s", wb, gb)
	}
}
