package engine

import (
	"sort"

	"ratatosk/pkg/board"
)

// Ordering tiers. Every capture outranks every killer, every killer
// outranks history-ranked quiets.
const (
	orderHashMove  int32 = 1 << 30
	orderPromotion int32 = 1 << 28
	orderCapture   int32 = 1 << 26
	orderKiller    int32 = 1 << 24
)

type rankedMove struct {
	move  board.Move
	score int32
}

// rankMoves produces the ordered move sequence for one node: the table
// hint move first, then promotions, captures by MVV-LVA, killers for
// this ply and finally quiets by history credit. With quietsToo false
// only the forcing moves are generated, for the quiescence search.
func (sd *searchData) rankMoves(pos *board.Position, hint board.Move, ply int, quietsToo bool) []rankedMove {
	var moves []board.Move
	if quietsToo {
		moves = pos.LegalMoves()
	} else {
		moves = pos.NonQuietMoves()
	}

	ranked := make([]rankedMove, 0, len(moves))
	for _, m := range moves {
		var score int32
		switch {
		case m == hint:
			score = orderHashMove
		case pos.IsPromotion(m):
			score = orderPromotion + int32(board.PieceValue(m.Promote()))
		case pos.IsCapture(m):
			score = orderCapture + board.CaptureValue(pos, m)
		case sd.isKiller(ply, m):
			score = orderKiller
		default:
			score = sd.historyScore(pos.WhiteToMove(), m)
		}
		ranked = append(ranked, rankedMove{move: m, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}
