package engine

import (
	"ratatosk/pkg/board"
)

// updatePV rebuilds pv as move followed by the child's line. Only called
// when the move raised alpha; non-improving moves leave pv untouched.
func updatePV(pv *[]board.Move, move board.Move, childPV []board.Move) {
	*pv = append((*pv)[:0], move)
	*pv = append(*pv, childPV...)
}

// clonePV returns an independent copy of a principal variation
func clonePV(pv []board.Move) []board.Move {
	return append(make([]board.Move, 0, len(pv)), pv...)
}
