package chessdto

// Piece mirrors the engine's tagged piece for rendering clients.
type Piece struct {
	Kind  string `json:"kind"`
	Color string `json:"color"`
}

// GameState is the authoritative position snapshot broadcast with every
// accepted move and sent whole on reconnection.
type GameState struct {
	Grid     [8][8]*Piece `json:"grid"`
	Turn     string       `json:"turn"`
	FEN      string       `json:"fen"`
	MovesUCI []string     `json:"moves_uci"`
	Status   string       `json:"status"`
}

type RoomCreated struct {
	Code string `json:"code"`
}

type GameStarted struct {
	Room         string     `json:"room"`
	Color        string     `json:"color"`
	Opponent     Profile    `json:"opponent"`
	InitialState *GameState `json:"initial_state"`
}

type MoveMade struct {
	Move  Move       `json:"move"`
	State *GameState `json:"state"`
}

type MoveInvalid struct {
	Error string `json:"error"`
}

type ChatMessage struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// EloPair carries a per-color integer pair (deltas or resulting ratings).
type EloPair struct {
	White int `json:"white"`
	Black int `json:"black"`
}

type GameEnded struct {
	Reason     string  `json:"reason"`
	Winner     string  `json:"winner"` // "white", "black" or "none"
	EloChanges EloPair `json:"elo_changes"`
	NewElos    EloPair `json:"new_elos"`
}

// Reconnected restores a returning seat without replaying missed broadcasts.
type Reconnected struct {
	Room  string     `json:"room"`
	Color string     `json:"color"`
	State *GameState `json:"state"`
}
