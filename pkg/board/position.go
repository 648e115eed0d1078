package board

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// StartFEN is the standard starting position
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Move is the packed move representation used throughout the engine
type Move = dragon.Move

// NoMove is the zero move, used as a sentinel everywhere a move may be absent
const NoMove Move = 0

// Position wraps the bitboard state with the hash history needed for
// repetition detection. It is mutated in place via Apply and the undo
// closures it returns, in strict LIFO order.
type Position struct {
	board   dragon.Board
	history []uint64
}

// FromFEN builds a Position from a FEN string
func FromFEN(fen string) *Position {
	return &Position{board: dragon.ParseFen(fen), history: make([]uint64, 0, 64)}
}

// Starting returns the standard starting Position
func Starting() *Position {
	return FromFEN(StartFEN)
}

// Copy returns an independent copy that shares no state with the receiver
func (p *Position) Copy() *Position {
	np := &Position{board: p.board}
	np.history = append(np.history, p.history...)
	return np
}

// Apply plays the move on the board and returns the matching undo function.
// The undo must run before any sibling move is applied.
func (p *Position) Apply(m Move) func() {
	p.history = append(p.history, p.board.Hash())
	unapply := p.board.Apply(m)
	return func() {
		unapply()
		p.history = p.history[:len(p.history)-1]
	}
}

// Hash returns the Zobrist fingerprint of the current position
func (p *Position) Hash() uint64 {
	return p.board.Hash()
}

// FEN returns the FEN encoding of the current position
func (p *Position) FEN() string {
	return p.board.ToFen()
}

// WhiteToMove reports whether it is white's turn
func (p *Position) WhiteToMove() bool {
	return p.board.Wtomove
}

// InCheck reports whether the side to move is in check
func (p *Position) InCheck() bool {
	return p.board.OurKingInCheck()
}

// LegalMoves returns every legal move in the current position
func (p *Position) LegalMoves() []Move {
	return p.board.GenerateLegalMoves()
}

// NonQuietMoves returns the tactically forcing subset of the legal moves,
// captures and promotions, for the quiescence search
func (p *Position) NonQuietMoves() []Move {
	all := p.board.GenerateLegalMoves()
	forcing := all[:0]
	for _, m := range all {
		if p.IsCapture(m) || p.IsPromotion(m) {
			forcing = append(forcing, m)
		}
	}
	return forcing
}

// IsCapture reports whether the move takes an enemy piece. En passant
// captures land on an empty square, so diagonal pawn moves count too.
func (p *Position) IsCapture(m Move) bool {
	them := &p.board.Black
	if !p.board.Wtomove {
		them = &p.board.White
	}
	toBit := uint64(1) << m.To()
	if them.All&toBit != 0 {
		return true
	}
	us := &p.board.White
	if !p.board.Wtomove {
		us = &p.board.Black
	}
	fromBit := uint64(1) << m.From()
	return us.Pawns&fromBit != 0 && m.From()%8 != m.To()%8
}

// IsPromotion reports whether the move promotes a pawn
func (p *Position) IsPromotion(m Move) bool {
	return m.Promote() != dragon.Nothing
}

// PieceOn returns the type of the piece on the square, or Nothing
func (p *Position) PieceOn(sq uint8) dragon.Piece {
	bit := uint64(1) << sq
	for _, bb := range []*dragon.Bitboards{&p.board.White, &p.board.Black} {
		if bb.All&bit == 0 {
			continue
		}
		switch {
		case bb.Pawns&bit != 0:
			return dragon.Pawn
		case bb.Knights&bit != 0:
			return dragon.Knight
		case bb.Bishops&bit != 0:
			return dragon.Bishop
		case bb.Rooks&bit != 0:
			return dragon.Rook
		case bb.Queens&bit != 0:
			return dragon.Queen
		case bb.Kings&bit != 0:
			return dragon.King
		}
	}
	return dragon.Nothing
}

// IsFiftyMoveDraw reports whether the halfmove clock has expired
func (p *Position) IsFiftyMoveDraw() bool {
	return p.board.Halfmoveclock >= 100
}

// IsRepetitionDraw reports whether the current position has already
// occurred at least twice before
func (p *Position) IsRepetitionDraw() bool {
	hash := p.board.Hash()
	seen := 0
	for _, h := range p.history {
		if h == hash {
			seen++
			if seen >= 2 {
				return true
			}
		}
	}
	return false
}

// IsMaterialDraw reports whether neither side can possibly deliver mate.
// Covers K vs K and positions where each side has at most one minor piece.
func (p *Position) IsMaterialDraw() bool {
	w, b := &p.board.White, &p.board.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	return popcount(w.Knights|w.Bishops) <= 1 && popcount(b.Knights|b.Bishops) <= 1
}
