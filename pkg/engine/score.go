package engine

import "fmt"

// MaxPly is the hard ceiling on search depth, the safety valve against
// unbounded recursion
const MaxPly = 128

// Score space. Ordinary evaluations live well inside (-ScoreMate+MaxPly,
// ScoreMate-MaxPly); mate-in-N scores are encoded as ScoreMate minus the
// ply distance so shallower mates always compare higher.
const (
	ScoreInfinite int16 = 31000
	ScoreMate     int16 = 30000
	ScoreDraw     int16 = 0
	ScoreNone     int16 = 32000
)

const (
	mateInMaxPly  = ScoreMate - MaxPly
	matedInMaxPly = -ScoreMate + MaxPly
)

// mateIn is the score for delivering mate in ply halfmoves
func mateIn(ply int) int16 {
	return ScoreMate - int16(ply)
}

// matedIn is the score for being mated in ply halfmoves
func matedIn(ply int) int16 {
	return -ScoreMate + int16(ply)
}

// IsMateScore reports whether the score encodes a forced mate
func IsMateScore(score int16) bool {
	return score >= mateInMaxPly || score <= matedInMaxPly
}

// MovesToMate converts a mate score into full moves, negative when the
// side to move is the one being mated
func MovesToMate(score int16) int {
	if score > 0 {
		return int(ScoreMate-score+1) / 2
	}
	return -int(ScoreMate+score+1) / 2
}

// FormatScore renders a score the way chess interfaces expect, either
// centipawns or distance to mate
func FormatScore(score int16) string {
	if IsMateScore(score) {
		return fmt.Sprintf("mate %d", MovesToMate(score))
	}
	return fmt.Sprintf("cp %d", score)
}

// scoreToTT makes a mate score ply-relative to the stored node rather
// than the root, so it stays correct when retrieved at another ply
func scoreToTT(score int16, ply int) int16 {
	if score >= mateInMaxPly {
		return score + int16(ply)
	}
	if score <= matedInMaxPly {
		return score - int16(ply)
	}
	return score
}

// scoreFromTT reverses the scoreToTT adjustment for the probing node
func scoreFromTT(score int16, ply int) int16 {
	if score >= mateInMaxPly {
		return score - int16(ply)
	}
	if score <= matedInMaxPly {
		return score + int16(ply)
	}
	return score
}
