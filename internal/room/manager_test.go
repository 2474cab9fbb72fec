package room

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flaviengibs/chess-sub000/internal/board"
)

type fakeConn struct{ name string }

func (f *fakeConn) Send(event string, payload any) error { return nil }

func TestCreateAllocatesDistinctCodes(t *testing.T) {
	m := NewManager()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		r, err := m.Create(fmt.Sprintf("p%d", i), "Player", 1200, &fakeConn{})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if len(r.Code) != codeLength {
			t.Fatalf("code %q has length %d", r.Code, len(r.Code))
		}
		if seen[r.Code] {
			t.Fatalf("duplicate code %q", r.Code)
		}
		seen[r.Code] = true
		if r.Status != StatusAwaitingOpponent || r.Board != nil {
			t.Fatalf("new room: status=%s board=%v", r.Status, r.Board)
		}
	}
}

func TestJoinActivatesRoom(t *testing.T) {
	m := NewManager()
	r, err := m.Create("alice", "Alice", 1300, &fakeConn{name: "a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	joined, err := m.Join(r.Code, "bob", "Bob", 1100, &fakeConn{name: "b"})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.Status != StatusActive {
		t.Fatalf("status = %s, want active", joined.Status)
	}
	if joined.Board == nil || joined.Board.Turn != board.White {
		t.Fatalf("board not initialized to white to move")
	}
	if joined.White.ID != "alice" || joined.Black.ID != "bob" {
		t.Fatalf("seats = %s/%s", joined.White.ID, joined.Black.ID)
	}
}

func TestJoinRejections(t *testing.T) {
	m := NewManager()
	r, _ := m.Create("alice", "Alice", 1200, &fakeConn{})

	if _, err := m.Join("NOSUCH", "bob", "Bob", 1200, &fakeConn{}); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("unknown code: err = %v, want %v", err, ErrRoomNotFound)
	}
	if _, err := m.Join(r.Code, "alice", "Alice", 1200, &fakeConn{}); !errors.Is(err, ErrSelfJoin) {
		t.Fatalf("self join: err = %v, want %v", err, ErrSelfJoin)
	}
	if _, err := m.Join(r.Code, "bob", "Bob", 1200, &fakeConn{}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Join(r.Code, "carol", "Carol", 1200, &fakeConn{}); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("third player: err = %v, want %v", err, ErrRoomFull)
	}

	r.Lock()
	r.Status = StatusEnded
	r.Unlock()
	if _, err := m.Join(r.Code, "dave", "Dave", 1200, &fakeConn{}); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("ended room: err = %v, want %v", err, ErrRoomNotFound)
	}
}

func TestQueuePairsOldestFirst(t *testing.T) {
	m := NewManager()
	for i := 0; i < 5; i++ {
		m.Enqueue(&Ticket{ID: fmt.Sprintf("p%d", i), Name: "P", Rating: 1200, Conn: &fakeConn{}})
	}
	r1, ok := m.FindMatch()
	if !ok {
		t.Fatalf("first match not found")
	}
	if r1.White.ID != "p0" || r1.Black.ID != "p1" {
		t.Fatalf("first pair = %s/%s, want p0/p1", r1.White.ID, r1.Black.ID)
	}
	if r1.Status != StatusActive || r1.Board == nil {
		t.Fatalf("matched room not active")
	}
	r2, ok := m.FindMatch()
	if !ok || r2.White.ID != "p2" || r2.Black.ID != "p3" {
		t.Fatalf("second pair wrong")
	}
	if _, ok := m.FindMatch(); ok {
		t.Fatalf("lone waiter was paired")
	}
	if n := m.QueueLen(); n != 1 {
		t.Fatalf("queue len = %d, want 1", n)
	}
}

func TestEnqueueUpsertsInPlace(t *testing.T) {
	m := NewManager()
	m.Enqueue(&Ticket{ID: "a", Rating: 1200, Conn: &fakeConn{name: "a1"}})
	m.Enqueue(&Ticket{ID: "b", Rating: 1200, Conn: &fakeConn{}})
	fresh := &fakeConn{name: "a2"}
	m.Enqueue(&Ticket{ID: "a", Rating: 1250, Conn: fresh})

	if n := m.QueueLen(); n != 2 {
		t.Fatalf("queue len = %d, want 2", n)
	}
	r, ok := m.FindMatch()
	if !ok {
		t.Fatalf("match not found")
	}
	// "a" kept its FIFO position and got the updated ticket
	if r.White.ID != "a" || r.White.Rating != 1250 || r.White.Conn != fresh {
		t.Fatalf("upsert did not replace the ticket in place")
	}
}

func TestUnqueue(t *testing.T) {
	m := NewManager()
	m.Enqueue(&Ticket{ID: "a", Conn: &fakeConn{}})
	if !m.Unqueue("a") {
		t.Fatalf("unqueue reported absent ticket")
	}
	if m.Unqueue("a") {
		t.Fatalf("double unqueue reported success")
	}
	if n := m.QueueLen(); n != 0 {
		t.Fatalf("queue len = %d, want 0", n)
	}
}

func TestSeatLookupRequiresActiveRoom(t *testing.T) {
	m := NewManager()
	r, _ := m.Create("alice", "Alice", 1200, &fakeConn{})
	// a lobby seat never justifies a disconnection grace window
	if _, _, ok := m.SeatLookup("alice"); ok {
		t.Fatalf("lookup found a seat in an awaiting-opponent room")
	}
	if _, err := m.Join(r.Code, "bob", "Bob", 1200, &fakeConn{}); err != nil {
		t.Fatalf("join: %v", err)
	}
	code, color, ok := m.SeatLookup("bob")
	if !ok || code != r.Code || color != board.Black {
		t.Fatalf("bob lookup = %s/%s/%v", code, color, ok)
	}
	if _, _, ok := m.SeatLookup("alice"); !ok {
		t.Fatalf("creator not found once the room is active")
	}

	r.Lock()
	r.Status = StatusEnded
	r.Unlock()
	if _, _, ok := m.SeatLookup("bob"); ok {
		t.Fatalf("lookup found a seat in an ended room")
	}
}

func TestCreateAbandonsAwaitingLobby(t *testing.T) {
	m := NewManager()
	first, _ := m.Create("alice", "Alice", 1200, &fakeConn{})
	second, err := m.Create("alice", "Alice", 1200, &fakeConn{})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if _, ok := m.Get(first.Code); ok {
		t.Fatalf("abandoned lobby still present")
	}
	if _, err := m.Join(second.Code, "bob", "Bob", 1200, &fakeConn{}); err != nil {
		t.Fatalf("join second room: %v", err)
	}
	code, _, ok := m.SeatLookup("alice")
	if !ok || code != second.Code {
		t.Fatalf("alice resolves to %q, want %q", code, second.Code)
	}
}

func TestActiveSeatBlocksNewMembership(t *testing.T) {
	m := NewManager()
	r, _ := m.Create("alice", "Alice", 1200, &fakeConn{})
	if _, err := m.Join(r.Code, "bob", "Bob", 1200, &fakeConn{}); err != nil {
		t.Fatalf("join: %v", err)
	}
	lobby, _ := m.Create("carol", "Carol", 1200, &fakeConn{})

	if _, err := m.Create("alice", "Alice", 1200, &fakeConn{}); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("create while active: err = %v, want %v", err, ErrAlreadyInRoom)
	}
	if _, err := m.Join(lobby.Code, "bob", "Bob", 1200, &fakeConn{}); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("join while active: err = %v, want %v", err, ErrAlreadyInRoom)
	}
	if err := m.Enqueue(&Ticket{ID: "alice", Conn: &fakeConn{}}); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("enqueue while active: err = %v, want %v", err, ErrAlreadyInRoom)
	}
	// the active room is untouched by the rejected attempts
	if _, _, ok := m.SeatLookup("alice"); !ok {
		t.Fatalf("alice lost the active seat")
	}
}

func TestCreateDropsQueueTicket(t *testing.T) {
	m := NewManager()
	if err := m.Enqueue(&Ticket{ID: "alice", Conn: &fakeConn{}}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := m.Create("alice", "Alice", 1200, &fakeConn{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if n := m.QueueLen(); n != 0 {
		t.Fatalf("queue len = %d, want 0 after create", n)
	}
}

func TestReseatRequiresActiveRoom(t *testing.T) {
	m := NewManager()
	r, _ := m.Create("alice", "Alice", 1200, &fakeConn{})
	if m.Reseat(r.Code, board.White, &fakeConn{}) {
		t.Fatalf("reseat succeeded in an awaiting room")
	}
	if _, err := m.Join(r.Code, "bob", "Bob", 1200, &fakeConn{}); err != nil {
		t.Fatalf("join: %v", err)
	}
	fresh := &fakeConn{name: "fresh"}
	if !m.Reseat(r.Code, board.White, fresh) {
		t.Fatalf("reseat failed in an active room")
	}
	if r.Seat(board.White).Conn != fresh {
		t.Fatalf("seat connection not replaced")
	}
	m.ClearSeatConn(r.Code, board.White)
	if r.Seat(board.White).Conn != nil {
		t.Fatalf("seat connection not cleared")
	}
}

func TestRemoveForgetsRoomAndIndex(t *testing.T) {
	m := NewManager()
	r, _ := m.Create("alice", "Alice", 1200, &fakeConn{})
	m.Remove(r.Code)
	if _, ok := m.Get(r.Code); ok {
		t.Fatalf("room still present after Remove")
	}
	if _, _, ok := m.SeatLookup("alice"); ok {
		t.Fatalf("seat index survived Remove")
	}
}
