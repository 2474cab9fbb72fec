package connmgr

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/flaviengibs/chess-sub000/internal/board"
	"github.com/flaviengibs/chess-sub000/internal/obslog"
)

// DefaultGrace is the reconnection window after a mid-game disconnect.
const DefaultGrace = 60 * time.Second

// Options wires the manager to the room layer without importing it, keeping
// the lock order one-way (room code runs outside this manager's mutex).
type Options struct {
	Grace     time.Duration
	Seated    SeatedFunc
	Unqueue   UnqueueFunc
	ClearSeat ClearSeatFunc
	Reseat    ReseatFunc
}

// Manager owns the identity↔connection mapping and every disconnection
// record. No other component creates or cancels grace timers.
type Manager struct {
	mu     sync.Mutex
	links  map[string]*link
	idents map[Conn]string

	grace     time.Duration
	seated    SeatedFunc
	unqueue   UnqueueFunc
	clearSeat ClearSeatFunc
	reseat    ReseatFunc
}

func NewManager(opts Options) *Manager {
	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}
	return &Manager{
		links:     make(map[string]*link),
		idents:    make(map[Conn]string),
		grace:     opts.Grace,
		seated:    opts.Seated,
		unqueue:   opts.Unqueue,
		clearSeat: opts.ClearSeat,
		reseat:    opts.Reseat,
	}
}

// Bind associates identity with conn. The mapping is bijective: rebinding
// either side evicts the stale counterpart on both sides. A pending
// disconnection record rejects the bind with ErrPendingReconnect; restoring
// a session goes through HandleReconnection, not Bind.
func (m *Manager) Bind(identity string, conn Conn) error {
	if identity == "" || conn == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if l := m.links[identity]; l != nil && l.state == stateDisconnected {
		return ErrPendingReconnect
	}
	if prev, ok := m.idents[conn]; ok && prev != identity {
		if l := m.links[prev]; l != nil && l.state == stateConnected && l.conn == conn {
			delete(m.links, prev)
		}
		delete(m.idents, conn)
	}
	if l := m.links[identity]; l != nil && l.conn != nil && l.conn != conn {
		delete(m.idents, l.conn)
	}
	m.links[identity] = &link{state: stateConnected, conn: conn}
	m.idents[conn] = identity
	return nil
}

// Identity resolves a connection back to its bound identity.
func (m *Manager) Identity(conn Conn) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.idents[conn]
	return id, ok
}

// HandleDisconnection resolves the dropped connection and either clears the
// mapping outright (no active room) or converts the link into a disconnection
// record with a grace timer. onTimeout runs at most once, after the grace
// period, unless HandleReconnection cancels it first.
func (m *Manager) HandleDisconnection(conn Conn, onTimeout TimeoutFunc) {
	m.mu.Lock()
	identity, ok := m.idents[conn]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.idents, conn)
	l := m.links[identity]
	if l == nil || l.state != stateConnected || l.conn != conn {
		m.mu.Unlock()
		return
	}
	delete(m.links, identity)
	m.mu.Unlock()

	roomCode, color, seated := "", board.Color(""), false
	if m.seated != nil {
		roomCode, color, seated = m.seated(identity)
	}
	if !seated {
		if m.unqueue != nil {
			m.unqueue(identity)
		}
		obslog.L().Info("conn_dropped_idle", zap.String("identity", identity))
		return
	}

	if m.clearSeat != nil {
		m.clearSeat(roomCode, color)
	}

	m.mu.Lock()
	if _, rebound := m.links[identity]; rebound {
		// the identity came back on a new connection before we got here
		m.mu.Unlock()
		return
	}
	rec := &link{state: stateDisconnected, roomCode: roomCode, color: color}
	rec.timer = newGraceTimer(m.grace, func() {
		m.expire(identity, rec, onTimeout)
	})
	m.links[identity] = rec
	m.mu.Unlock()

	obslog.L().Info("conn_grace_started",
		zap.String("identity", identity),
		zap.String("room", roomCode),
		zap.String("color", string(color)),
		zap.Duration("grace", m.grace),
	)
}

// expire is the grace-timer body. The record check under the lock makes the
// fire/cancel race safe: whichever of expire and HandleReconnection removes
// the record first wins, the other becomes a no-op.
func (m *Manager) expire(identity string, rec *link, onTimeout TimeoutFunc) {
	m.mu.Lock()
	cur := m.links[identity]
	if cur != rec {
		m.mu.Unlock()
		return
	}
	delete(m.links, identity)
	m.mu.Unlock()

	obslog.L().Info("conn_grace_expired",
		zap.String("identity", identity),
		zap.String("room", rec.roomCode),
	)
	if onTimeout != nil {
		onTimeout(rec.roomCode, identity, rec.color)
	}
}

// HandleReconnection restores a disconnected identity onto a new connection.
// It requires an un-expired disconnection record and a still-live room; on
// success the timer is permanently cancelled, the identity is re-associated
// and the seat gets the new connection.
func (m *Manager) HandleReconnection(conn Conn, identity string) (string, board.Color, error) {
	m.mu.Lock()
	l := m.links[identity]
	if l == nil || l.state != stateDisconnected {
		m.mu.Unlock()
		return "", "", ErrNoActiveSession
	}
	roomCode, color, rec := l.roomCode, l.color, l
	m.mu.Unlock()

	if m.reseat == nil || !m.reseat(roomCode, color, conn) {
		return "", "", ErrSessionGone
	}

	m.mu.Lock()
	if m.links[identity] != rec {
		// the timer fired while we were reseating
		m.mu.Unlock()
		return "", "", ErrNoActiveSession
	}
	rec.timer.Cancel()
	if prev, ok := m.idents[conn]; ok && prev != identity {
		if pl := m.links[prev]; pl != nil && pl.state == stateConnected && pl.conn == conn {
			delete(m.links, prev)
		}
	}
	m.links[identity] = &link{state: stateConnected, conn: conn}
	m.idents[conn] = identity
	m.mu.Unlock()

	obslog.L().Info("conn_restored",
		zap.String("identity", identity),
		zap.String("room", roomCode),
		zap.String("color", string(color)),
	)
	return roomCode, color, nil
}

// Release drops every record for the identity: live binding, disconnection
// record and timer alike. Used by the end-game sequence.
func (m *Manager) Release(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.links[identity]
	if l == nil {
		return
	}
	if l.timer != nil {
		l.timer.Cancel()
	}
	if l.conn != nil {
		delete(m.idents, l.conn)
	}
	delete(m.links, identity)
}
