package engine

import (
	"ratatosk/pkg/board"
	"ratatosk/pkg/transposition"
)

// nodeType classifies how aggressively late moves are searched
type nodeType uint8

const (
	nodeRoot nodeType = iota
	nodePV
	nodeNonPV
)

// pvSearch is the negamax alpha-beta recursion with principal variation
// search: after the first move of a PV node, later moves are verified
// with a zero-width window and only re-searched on the full window when
// the verification suggests they could beat the current best. Scores
// are always from the perspective of the side to move.
func (e *Engine) pvSearch(sd *searchData, alpha, beta int16, depth, ply int, pv *[]board.Move, nt nodeType) int16 {
	if depth <= 0 {
		return e.qSearch(sd, alpha, beta, ply, pv)
	}

	// Convert an exceeded limit into an abort, then honor the abort.
	// The sentinel return must never be trusted by callers without
	// checking the abort flag first.
	if nt != nodeRoot {
		if sd.shouldStop() {
			e.Stop()
		}
		if e.aborted.Load() {
			return -ScoreInfinite
		}
	}

	pos := sd.position

	if pos.IsFiftyMoveDraw() || pos.IsMaterialDraw() || pos.IsRepetitionDraw() {
		return e.drawScore(sd)
	}

	if ply >= MaxPly {
		return e.Evaluate(pos)
	}

	inCheck := pos.InCheck()

	// Transposition table probe. A deep-enough entry whose bound is
	// consistent with the window cuts off non-PV nodes outright;
	// otherwise the stored move still seeds the ordering.
	hashMove := board.NoMove
	if e.tt != nil {
		if entry, ok := e.tt.Probe(pos.Hash()); ok {
			hashMove = entry.Move
			if nt == nodeNonPV && int(entry.Depth) >= depth && entry.Score != ScoreNone {
				score := scoreFromTT(entry.Score, ply)
				if boundAllowsCutoff(entry.Bound, score, alpha, beta) {
					return score
				}
			}
		}
	}

	*pv = (*pv)[:0]
	childPV := make([]board.Move, 0, 16)

	bestScore := -ScoreInfinite
	bestMove := board.NoMove
	alphaOrig := alpha
	nbMoves := 0

	for _, rm := range sd.rankMoves(pos, hashMove, ply, true) {
		move := rm.move

		// Honor a restricted root move set
		if nt == nodeRoot && !sd.limits.allowsRootMove(move) {
			continue
		}

		nbMoves++
		sd.nodes++

		undo := pos.Apply(move)
		// A child that cuts off early never writes its line; stale
		// sibling moves must not leak into this node's pv
		childPV = childPV[:0]
		var score int16
		if nbMoves == 1 || nt == nodeNonPV {
			childNT := nodePV
			if nt == nodeNonPV {
				childNT = nodeNonPV
			}
			score = -e.pvSearch(sd, -beta, -alpha, depth-1, ply+1, &childPV, childNT)
		} else {
			// Zero-width verification first, full re-search only
			// if the move might actually beat alpha
			score = -e.pvSearch(sd, -alpha-1, -alpha, depth-1, ply+1, &childPV, nodeNonPV)
			if score > alpha && (nt == nodeRoot || score < beta) {
				score = -e.pvSearch(sd, -beta, -alpha, depth-1, ply+1, &childPV, nodePV)
			}
		}
		undo()

		if e.aborted.Load() {
			// Provisional; the driver discards aborted iterations
			return bestScore
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				updatePV(pv, move, childPV)

				if alpha >= beta {
					if !pos.IsCapture(move) && !pos.IsPromotion(move) {
						sd.storeKiller(ply, move)
						sd.bumpHistory(pos.WhiteToMove(), move, depth)
					}
					break
				}
			}
		}
	}

	// Checkmate / stalemate detection
	if nbMoves == 0 {
		if inCheck {
			return matedIn(ply)
		}
		return ScoreDraw
	}

	if e.tt != nil && !e.aborted.Load() {
		bound := transposition.BoundExact
		if bestScore >= beta {
			bound = transposition.BoundLower
		} else if nt == nodeNonPV && bestScore <= alphaOrig {
			bound = transposition.BoundUpper
		}
		e.tt.Store(pos.Hash(), int8(depth), bound, bestMove, ScoreNone, scoreToTT(bestScore, ply))
	}

	return bestScore
}

// qSearch resolves tactical sequences at the horizon: only forcing
// moves are searched, and the side to move may always stand pat on the
// static evaluation when not in check.
func (e *Engine) qSearch(sd *searchData, alpha, beta int16, ply int, pv *[]board.Move) int16 {
	if sd.shouldStop() {
		e.Stop()
	}
	if e.aborted.Load() {
		return -ScoreInfinite
	}

	if ply > sd.selDepth {
		sd.selDepth = ply
	}

	pos := sd.position

	if pos.IsFiftyMoveDraw() || pos.IsMaterialDraw() || pos.IsRepetitionDraw() {
		return e.drawScore(sd)
	}

	if ply >= MaxPly {
		return e.Evaluate(pos)
	}

	inCheck := pos.InCheck()

	// Default keeps mate detection working when standing pat is skipped
	bestScore := matedIn(ply)
	alphaOrig := alpha
	staticEval := ScoreNone

	if !inCheck {
		staticEval = e.Evaluate(pos)
		if staticEval >= beta {
			return staticEval
		}
		if staticEval > alpha {
			alpha = staticEval
		}
		bestScore = staticEval
	}

	// The table is consulted for ordering hints only here; depth-based
	// cutoffs do not apply at the horizon
	hashMove := board.NoMove
	if e.tt != nil {
		if entry, ok := e.tt.Probe(pos.Hash()); ok {
			hashMove = entry.Move
		}
	}

	*pv = (*pv)[:0]
	childPV := make([]board.Move, 0, 8)

	bestMove := board.NoMove
	for _, rm := range sd.rankMoves(pos, hashMove, ply, false) {
		sd.nodes++

		undo := pos.Apply(rm.move)
		childPV = childPV[:0]
		score := -e.qSearch(sd, -beta, -alpha, ply+1, &childPV)
		undo()

		if e.aborted.Load() {
			return bestScore
		}

		if score > bestScore {
			bestScore = score
			bestMove = rm.move

			if score > alpha {
				alpha = score
				updatePV(pv, rm.move, childPV)

				if alpha >= beta {
					break
				}
			}
		}
	}

	if e.tt != nil && !e.aborted.Load() {
		// inCheck stands in for depth: checked nodes count as one
		// ply deeper than quiet horizon nodes
		ttDepth := int8(0)
		if inCheck {
			ttDepth = 1
		}
		bound := transposition.BoundExact
		if bestScore >= beta {
			bound = transposition.BoundLower
		} else if bestScore <= alphaOrig {
			bound = transposition.BoundUpper
		}
		e.tt.Store(pos.Hash(), ttDepth, bound, bestMove, staticEval, scoreToTT(bestScore, ply))
	}

	return bestScore
}

// drawScore is ScoreDraw, or with DrawNoise a tiny dither around it to
// avoid repeated blindness to threefold repetitions
func (e *Engine) drawScore(sd *searchData) int16 {
	if e.DrawNoise {
		return 1 - int16(sd.nodes&2)
	}
	return ScoreDraw
}

func boundAllowsCutoff(bound transposition.Bound, score, alpha, beta int16) bool {
	switch bound {
	case transposition.BoundExact:
		return true
	case transposition.BoundLower:
		return score >= beta
	case transposition.BoundUpper:
		return score <= alpha
	}
	return false
}
