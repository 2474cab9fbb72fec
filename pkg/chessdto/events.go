package chessdto

// Inbound event names.
const (
	EvCreateRoom  = "create-room"
	EvJoinRoom    = "join-room"
	EvEnqueue     = "enqueue-matchmaking"
	EvLeaveQueue  = "leave-matchmaking"
	EvMakeMove    = "make-move"
	EvChat        = "chat"
	EvOfferDraw   = "offer-draw"
	EvRespondDraw = "respond-draw"
	EvResign      = "resign"
	EvReconnect   = "reconnect"
)

// Outbound event names.
const (
	EvRoomCreated  = "room-created"
	EvGameStarted  = "game-started"
	EvMoveMade     = "move-made"
	EvMoveInvalid  = "move-invalid"
	EvError        = "error"
	EvChatMessage  = "chat"
	EvDrawOffered  = "draw-offered"
	EvDrawDeclined = "draw-declined"
	EvGameEnded    = "game-ended"
	EvReconnected  = "reconnected"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}
