package board

import (
	"math/bits"

	dragon "github.com/dylhunn/dragontoothmg"
)

// pieceValues holds the material value of each piece type in centipawns,
// indexed by dragon.Piece
var pieceValues = [7]int16{
	0,     // Nothing
	100,   // Pawn
	300,   // Knight
	310,   // Bishop
	500,   // Rook
	900,   // Queen
	20000, // King
}

// PieceValue returns the material value of a piece type in centipawns
func PieceValue(pc dragon.Piece) int16 {
	return pieceValues[pc]
}

// Positional tables are indexed from white's point of view with a1 = 0;
// black squares are mirrored with sq^56.
var pawnPositional = [64]int16{
	0, 0, 0, 0, 0, 0, 0, 0,
	2, 2, 2, -4, -4, 2, 2, 2,
	3, 3, 4, 8, 8, 4, 3, 3,
	5, 5, 10, 16, 16, 10, 5, 5,
	8, 8, 14, 20, 20, 14, 8, 8,
	16, 16, 20, 24, 24, 20, 16, 16,
	24, 24, 28, 32, 32, 28, 24, 24,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var piecePositional = [64]int16{
	-10, -6, -4, -4, -4, -4, -6, -10,
	-6, 0, 2, 4, 4, 2, 0, -6,
	-4, 2, 6, 8, 8, 6, 2, -4,
	-4, 4, 8, 12, 12, 8, 4, -4,
	-4, 4, 8, 12, 12, 8, 4, -4,
	-4, 2, 6, 8, 8, 6, 2, -4,
	-6, 0, 2, 4, 4, 2, 0, -6,
	-10, -6, -4, -4, -4, -4, -6, -10,
}

// Evaluate scores the position from the perspective of the side to move,
// material plus positional tables. Pure and deterministic.
func Evaluate(p *Position) int16 {
	w, b := &p.board.White, &p.board.Black

	score := sideMaterial(w) - sideMaterial(b)
	score += tableScore(w.Pawns, &pawnPositional, false) - tableScore(b.Pawns, &pawnPositional, true)
	minorsW := w.Knights | w.Bishops
	minorsB := b.Knights | b.Bishops
	score += tableScore(minorsW, &piecePositional, false) - tableScore(minorsB, &piecePositional, true)

	if !p.board.Wtomove {
		return -score
	}
	return score
}

func sideMaterial(bb *dragon.Bitboards) int16 {
	var total int16
	total += int16(popcount(bb.Pawns)) * pieceValues[dragon.Pawn]
	total += int16(popcount(bb.Knights)) * pieceValues[dragon.Knight]
	total += int16(popcount(bb.Bishops)) * pieceValues[dragon.Bishop]
	total += int16(popcount(bb.Rooks)) * pieceValues[dragon.Rook]
	total += int16(popcount(bb.Queens)) * pieceValues[dragon.Queen]
	return total
}

func tableScore(pieces uint64, table *[64]int16, mirror bool) int16 {
	var total int16
	for pieces != 0 {
		sq := bits.TrailingZeros64(pieces)
		pieces &= pieces - 1
		if mirror {
			sq ^= 56
		}
		total += table[sq]
	}
	return total
}

// CaptureValue ranks a capture for move ordering, most valuable victim
// first, least valuable attacker as tie-break
func CaptureValue(p *Position, m Move) int32 {
	victim := p.PieceOn(uint8(m.To()))
	if victim == dragon.Nothing {
		// en passant
		victim = dragon.Pawn
	}
	attacker := p.PieceOn(uint8(m.From()))
	return int32(pieceValues[victim])*8 - int32(pieceValues[attacker])
}

func popcount(bb uint64) int {
	return bits.OnesCount64(bb)
}
