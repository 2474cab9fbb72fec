package room

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flaviengibs/chess-sub000/internal/board"
	"github.com/flaviengibs/chess-sub000/internal/connmgr"
	"github.com/flaviengibs/chess-sub000/internal/obslog"
)

const (
	codeLetters     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength      = 6
	codeLengthWide  = 8
	codeMaxAttempts = 5
)

// Manager owns the live rooms and the matchmaking queue. Its mutex guards the
// maps and the queue only; per-room state is guarded by each Room's own lock
// so one room's slow client never delays another room's events.
type Manager struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	byPlayer map[string]string // identity -> room code
	queue    []*Ticket
}

func NewManager() *Manager {
	return &Manager{
		rooms:    make(map[string]*Room),
		byPlayer: make(map[string]string),
	}
}

// Create allocates a room with the creator in the white slot and no board
// yet. Code collisions against currently-live codes are retried transparently:
// a handful of attempts at the normal length, then a widened code before
// giving up. A creator who still owns an empty lobby abandons it; a creator
// seated in an active game is rejected.
func (m *Manager) Create(id, name string, rating int, conn connmgr.Conn) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.detachLive(id); err != nil {
		return nil, err
	}
	m.dropTicket(id)

	code, err := m.allocateCode()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	r := &Room{
		Code:         code,
		GameID:       uuid.NewString(),
		White:        &Seat{ID: id, Name: name, Rating: rating, Conn: conn},
		Status:       StatusAwaitingOpponent,
		CreatedAt:    now,
		LastActivity: now,
	}
	m.rooms[code] = r
	m.byPlayer[id] = code
	obslog.L().Info("room_create", zap.String("code", code), zap.String("white_id", id))
	return r, nil
}

func (m *Manager) allocateCode() (string, error) {
	for _, length := range [2]int{codeLength, codeLengthWide} {
		for i := 0; i < codeMaxAttempts; i++ {
			code, err := generateCode(length)
			if err != nil {
				return "", err
			}
			if _, taken := m.rooms[code]; !taken {
				return code, nil
			}
		}
	}
	return "", ErrCodeSpace
}

func generateCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeLetters[int(b[i])%len(codeLetters)]
	}
	return string(b), nil
}

// Join fills the black slot, installs a fresh starting board and activates
// the room. A full room and a self-join are rejected without any mutation;
// a joiner's own empty lobby is abandoned, an active seat elsewhere rejects.
func (m *Manager) Join(code, id, name string, rating int, conn connmgr.Conn) (*Room, error) {
	m.mu.Lock()
	r, ok := m.rooms[code]
	if !ok {
		m.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	// self-join of one's own lobby must surface as ErrSelfJoin, not detach it
	if own, seated := m.byPlayer[id]; !seated || own != code {
		if err := m.detachLive(id); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	}
	m.dropTicket(id)
	m.mu.Unlock()

	r.Lock()
	if r.Status == StatusEnded {
		r.Unlock()
		return nil, ErrRoomNotFound
	}
	if r.White != nil && r.White.ID == id {
		r.Unlock()
		return nil, ErrSelfJoin
	}
	if r.Black != nil {
		r.Unlock()
		return nil, ErrRoomFull
	}
	r.Black = &Seat{ID: id, Name: name, Rating: rating, Conn: conn}
	r.Board = board.New()
	r.Status = StatusActive
	r.LastActivity = time.Now()
	r.Unlock()

	// lock order is always manager before room; re-acquire for the index
	m.mu.Lock()
	m.byPlayer[id] = code
	m.mu.Unlock()

	obslog.L().Info("room_join", zap.String("code", code), zap.String("black_id", id))
	return r, nil
}

// detachLive enforces one live room membership per identity. A stale index
// entry is dropped, an awaiting-opponent lobby the identity created is
// abandoned, and an active seat rejects with ErrAlreadyInRoom. Caller holds
// m.mu.
func (m *Manager) detachLive(id string) error {
	code, ok := m.byPlayer[id]
	if !ok {
		return nil
	}
	r := m.rooms[code]
	if r == nil {
		delete(m.byPlayer, id)
		return nil
	}
	r.Lock()
	status := r.Status
	_, _, seated := r.SeatOf(id)
	r.Unlock()
	if !seated || status == StatusEnded {
		delete(m.byPlayer, id)
		return nil
	}
	if status == StatusActive {
		return ErrAlreadyInRoom
	}
	delete(m.rooms, code)
	delete(m.byPlayer, id)
	obslog.L().Info("room_abandoned", zap.String("code", code), zap.String("by", id))
	return nil
}

// dropTicket removes any queue entry for id. Caller holds m.mu.
func (m *Manager) dropTicket(id string) {
	for i, cur := range m.queue {
		if cur.ID == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}

// Get returns the live room by code.
func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	return r, ok
}

// Remove forgets a room and its seat index entries. Callers end the game
// first; removal is only bookkeeping.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	if !ok {
		return
	}
	delete(m.rooms, code)
	r.Lock()
	white, black := r.White, r.Black
	r.Unlock()
	if white != nil && m.byPlayer[white.ID] == code {
		delete(m.byPlayer, white.ID)
	}
	if black != nil && m.byPlayer[black.ID] == code {
		delete(m.byPlayer, black.ID)
	}
}

// SeatLookup resolves an identity to its seat in an active room. Lobby and
// ended rooms do not count: only an active game justifies a disconnection
// grace window.
func (m *Manager) SeatLookup(identity string) (string, board.Color, bool) {
	m.mu.Lock()
	code, ok := m.byPlayer[identity]
	r := m.rooms[code]
	m.mu.Unlock()
	if !ok || r == nil {
		return "", "", false
	}
	r.Lock()
	defer r.Unlock()
	if r.Status != StatusActive {
		return "", "", false
	}
	if _, color, seated := r.SeatOf(identity); seated {
		return code, color, true
	}
	return "", "", false
}

// ClearSeatConn drops the live connection reference from a seat, leaving the
// seat occupied (the player keeps the seat through the grace window).
func (m *Manager) ClearSeatConn(code string, c board.Color) {
	r, ok := m.Get(code)
	if !ok {
		return
	}
	r.Lock()
	defer r.Unlock()
	if s := r.Seat(c); s != nil {
		s.Conn = nil
	}
}

// Reseat writes a restored connection into the seat. False when the room is
// gone or already ended.
func (m *Manager) Reseat(code string, c board.Color, conn connmgr.Conn) bool {
	r, ok := m.Get(code)
	if !ok {
		return false
	}
	r.Lock()
	defer r.Unlock()
	if r.Status != StatusActive {
		return false
	}
	s := r.Seat(c)
	if s == nil {
		return false
	}
	s.Conn = conn
	r.LastActivity = time.Now()
	return true
}

// Enqueue upserts a matchmaking ticket. A re-enqueue replaces the existing
// entry in place, keeping its FIFO position. An identity seated in an active
// room is rejected; an abandoned lobby of theirs is dropped first.
func (m *Manager) Enqueue(t *Ticket) error {
	if t == nil || t.ID == "" {
		return nil
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.detachLive(t.ID); err != nil {
		return err
	}
	for i, cur := range m.queue {
		if cur.ID == t.ID {
			t.EnqueuedAt = cur.EnqueuedAt
			m.queue[i] = t
			return nil
		}
	}
	m.queue = append(m.queue, t)
	return nil
}

// Unqueue removes an identity's ticket, reporting whether one was present.
func (m *Manager) Unqueue(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.queue {
		if cur.ID == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return true
		}
	}
	return false
}

// QueueLen reports the current queue size.
func (m *Manager) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// FindMatch pairs the two oldest tickets into a new active room, first in as
// white. With fewer than two entries it returns nothing and changes nothing;
// a successful match never leaves a player half-dequeued.
func (m *Manager) FindMatch() (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) < 2 {
		return nil, false
	}
	white, black := m.queue[0], m.queue[1]
	m.queue = m.queue[2:]

	code, err := m.allocateCode()
	if err != nil {
		// put both back at the front; the next attempt retries the pairing
		m.queue = append([]*Ticket{white, black}, m.queue...)
		obslog.L().Error("match_code_alloc_failed", zap.Error(err))
		return nil, false
	}
	now := time.Now()
	r := &Room{
		Code:         code,
		GameID:       uuid.NewString(),
		White:        &Seat{ID: white.ID, Name: white.Name, Rating: white.Rating, Conn: white.Conn},
		Black:        &Seat{ID: black.ID, Name: black.Name, Rating: black.Rating, Conn: black.Conn},
		Board:        board.New(),
		Status:       StatusActive,
		CreatedAt:    now,
		LastActivity: now,
	}
	m.rooms[code] = r
	m.byPlayer[white.ID] = code
	m.byPlayer[black.ID] = code
	obslog.L().Info("match_found",
		zap.String("code", code),
		zap.String("white_id", white.ID),
		zap.String("black_id", black.ID),
	)
	return r, true
}
