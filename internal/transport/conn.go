package transport

import (
	"context"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
)

var (
	errConnClosed     = staticErr("connection closed")
	errSendBufferFull = staticErr("send buffer full")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }

// wsConn adapts one websocket to the connection interface the session layer
// speaks. Sends are queued to a dedicated writer goroutine so a slow client
// never blocks a room lock.
type wsConn struct {
	sock   *websocket.Conn
	egress chan chessdto.Envelope

	closed    chan struct{}
	closeOnce sync.Once
}

func newWSConn(sock *websocket.Conn) *wsConn {
	c := &wsConn{
		sock:   sock,
		egress: make(chan chessdto.Envelope, sendBuffer),
		closed: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// Send queues one outbound event. It never blocks: a full buffer or a closed
// socket is reported as an error and the event is dropped.
func (c *wsConn) Send(event string, payload any) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}
	select {
	case c.egress <- chessdto.Envelope{Type: event, Data: payload}:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *wsConn) writeLoop() {
	for {
		select {
		case <-c.closed:
			return
		case env := <-c.egress:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := wsjson.Write(ctx, c.sock, env)
			cancel()
			if err != nil {
				c.close(websocket.StatusAbnormalClosure)
				return
			}
		}
	}
}

func (c *wsConn) close(code websocket.StatusCode) {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.sock.Close(code, "")
	})
}
