package chessdto

// Square addresses the board as (rank, file), rank 0 = black's back rank.
type Square struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

// Move is the wire form of a move intent or an accepted move.
type Move struct {
	From      Square `json:"from"`
	To        Square `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type CreateRoomRequest struct {
	Identity string  `json:"identity"`
	Profile  Profile `json:"profile"`
}

type JoinRoomRequest struct {
	Code     string  `json:"code"`
	Identity string  `json:"identity"`
	Profile  Profile `json:"profile"`
}

type EnqueueRequest struct {
	Identity string  `json:"identity"`
	Profile  Profile `json:"profile"`
}

type LeaveQueueRequest struct {
	Identity string `json:"identity"`
}

type MoveRequest struct {
	Room      string `json:"room"`
	From      Square `json:"from"`
	To        Square `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type ChatRequest struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

type DrawOfferRequest struct {
	Room string `json:"room"`
}

type DrawResponseRequest struct {
	Room   string `json:"room"`
	Accept bool   `json:"accept"`
}

type ResignRequest struct {
	Room string `json:"room"`
}

type ReconnectRequest struct {
	Identity string `json:"identity"`
}
