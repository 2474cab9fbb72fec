package session

import (
	"github.com/flaviengibs/chess-sub000/internal/board"
	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

// Game-end reasons. All five run the same end-game sequence.
const (
	ReasonCheckmate   = "checkmate"
	ReasonStalemate   = "stalemate"
	ReasonDraw        = "draw"
	ReasonResignation = "resignation"
	ReasonTimeout     = "timeout"
)

// WinnerNone marks drawn and stalemated games in the game-ended payload.
const WinnerNone = "none"

func stateDTO(b *board.Board, status board.Status) *chessdto.GameState {
	if b == nil {
		return nil
	}
	s := &chessdto.GameState{
		Turn:   string(b.Turn),
		FEN:    b.FEN(),
		Status: string(status),
	}
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if p := b.Grid[r][f]; p != nil {
				s.Grid[r][f] = &chessdto.Piece{Kind: string(p.Kind), Color: string(p.Color)}
			}
		}
	}
	s.MovesUCI = make([]string, 0, len(b.History))
	for _, rec := range b.History {
		s.MovesUCI = append(s.MovesUCI, rec.Move.UCI())
	}
	return s
}

func moveDTO(m board.Move) chessdto.Move {
	return chessdto.Move{
		From:      chessdto.Square{Rank: m.From.Rank, File: m.From.File},
		To:        chessdto.Square{Rank: m.To.Rank, File: m.To.File},
		Promotion: string(m.Promotion),
	}
}

func boardMove(req chessdto.MoveRequest) (board.Square, board.Square, board.Kind) {
	return board.Square{Rank: req.From.Rank, File: req.From.File},
		board.Square{Rank: req.To.Rank, File: req.To.File},
		board.Kind(req.Promotion)
}
