package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/flaviengibs/chess-sub000/internal/config"
	"github.com/flaviengibs/chess-sub000/internal/msgcat"
	"github.com/flaviengibs/chess-sub000/internal/profile"
	"github.com/flaviengibs/chess-sub000/internal/session"
	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	orch := session.New(session.Options{Profiles: profile.NewMemory(), Catalog: cat})
	cfg := &config.AppConfig{
		ListenAddr: ":0",
		EventRate:  100,
		EventBurst: 100,
	}
	ts := httptest.NewServer(NewServer(cfg, orch).Router())
	t.Cleanup(ts.Close)
	return ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func readEvent(t *testing.T, c *websocket.Conn, want string) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		var env struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, c, &env); err != nil {
			t.Fatalf("read waiting for %q: %v", want, err)
		}
		if env.Type == want {
			return env.Data
		}
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestCreateAndJoinOverWebsocket(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	alice := dialWS(t, ts)
	err := wsjson.Write(ctx, alice, chessdto.Envelope{
		Type: chessdto.EvCreateRoom,
		Data: chessdto.CreateRoomRequest{Identity: "alice", Profile: chessdto.Profile{DisplayName: "Alice"}},
	})
	if err != nil {
		t.Fatalf("write create-room: %v", err)
	}
	var created chessdto.RoomCreated
	if err := json.Unmarshal(readEvent(t, alice, chessdto.EvRoomCreated), &created); err != nil {
		t.Fatalf("decode room-created: %v", err)
	}
	if created.Code == "" {
		t.Fatalf("empty room code")
	}

	bob := dialWS(t, ts)
	err = wsjson.Write(ctx, bob, chessdto.Envelope{
		Type: chessdto.EvJoinRoom,
		Data: chessdto.JoinRoomRequest{Code: created.Code, Identity: "bob", Profile: chessdto.Profile{DisplayName: "Bob"}},
	})
	if err != nil {
		t.Fatalf("write join-room: %v", err)
	}

	var aStart, bStart chessdto.GameStarted
	if err := json.Unmarshal(readEvent(t, alice, chessdto.EvGameStarted), &aStart); err != nil {
		t.Fatalf("decode alice game-started: %v", err)
	}
	if err := json.Unmarshal(readEvent(t, bob, chessdto.EvGameStarted), &bStart); err != nil {
		t.Fatalf("decode bob game-started: %v", err)
	}
	if aStart.Color != "white" || bStart.Color != "black" {
		t.Fatalf("colors = %s/%s", aStart.Color, bStart.Color)
	}

	// one move over the wire reaches both sides
	err = wsjson.Write(ctx, alice, chessdto.Envelope{
		Type: chessdto.EvMakeMove,
		Data: chessdto.MoveRequest{
			Room: created.Code,
			From: chessdto.Square{Rank: 6, File: 4},
			To:   chessdto.Square{Rank: 4, File: 4},
		},
	})
	if err != nil {
		t.Fatalf("write make-move: %v", err)
	}
	var made chessdto.MoveMade
	if err := json.Unmarshal(readEvent(t, bob, chessdto.EvMoveMade), &made); err != nil {
		t.Fatalf("decode move-made: %v", err)
	}
	if made.State == nil || made.State.Turn != "black" {
		t.Fatalf("state after e4 = %+v", made.State)
	}
}

func TestUnknownEventType(t *testing.T) {
	ts := newTestServer(t)
	c := dialWS(t, ts)
	if err := wsjson.Write(context.Background(), c, chessdto.Envelope{Type: "no-such-event"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var derr chessdto.DomainError
	if err := json.Unmarshal(readEvent(t, c, chessdto.EvError), &derr); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if derr.Code != "bad_request" {
		t.Fatalf("code = %q, want bad_request", derr.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	orch := session.New(session.Options{Profiles: profile.NewMemory(), Catalog: cat})
	cfg := &config.AppConfig{ListenAddr: ":0", EventRate: 1, EventBurst: 2}
	ts := httptest.NewServer(NewServer(cfg, orch).Router())
	t.Cleanup(ts.Close)

	c := dialWS(t, ts)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := wsjson.Write(ctx, c, chessdto.Envelope{
			Type: chessdto.EvLeaveQueue,
			Data: chessdto.LeaveQueueRequest{Identity: "a"},
		}); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	var derr chessdto.DomainError
	if err := json.Unmarshal(readEvent(t, c, chessdto.EvError), &derr); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if derr.Code != "rate_limited" {
		t.Fatalf("code = %q, want rate_limited", derr.Code)
	}
}
