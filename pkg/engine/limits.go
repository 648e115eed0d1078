package engine

import (
	"time"

	"ratatosk/pkg/board"
)

// Side indexes the per-side limit arrays
const (
	White = 0
	Black = 1
)

// SearchLimits is the caller-supplied configuration for one search
// request. It is copied into the search and never mutated afterwards.
type SearchLimits struct {
	// Remaining clock and per-move bonus, indexed by White/Black.
	// Both zero means no tournament clock is running.
	TimeLeft  [2]time.Duration
	Increment [2]time.Duration

	// Moves until the next time control; 0 means unset and defaults
	// to 40 for time allocation.
	MovesToGo int

	// Hard caps; 0 means unset
	MaxDepth int
	MaxNodes uint64
	MaxTime  time.Duration

	// SearchMoves restricts the moves considered at the root; empty
	// means all legal moves
	SearchMoves []board.Move
}

func (l *SearchLimits) allowsRootMove(m board.Move) bool {
	if len(l.SearchMoves) == 0 {
		return true
	}
	for _, sm := range l.SearchMoves {
		if sm == m {
			return true
		}
	}
	return false
}

func (l *SearchLimits) useTournamentTime() bool {
	return l.TimeLeft[White]|l.TimeLeft[Black] != 0
}

// searchData is the per-search mutable context. It is owned exclusively
// by the goroutine running the search.
type searchData struct {
	position *board.Position
	limits   SearchLimits

	nodes    uint64
	selDepth int

	startTime     time.Time
	allocatedTime time.Duration

	killers [MaxPly + 1][2]board.Move
	history [2][64][64]int32
}

func newSearchData(pos *board.Position, limits SearchLimits) *searchData {
	sd := &searchData{position: pos, limits: limits, startTime: time.Now()}
	sd.initAllocatedTime()
	return sd
}

// initAllocatedTime computes the time budget for this search: an even
// split of the remaining clock over the moves to go, plus the increment
func (sd *searchData) initAllocatedTime() {
	moves := time.Duration(40)
	if sd.limits.MovesToGo > 0 {
		moves = time.Duration(sd.limits.MovesToGo)
	}
	stm := White
	if !sd.position.WhiteToMove() {
		stm = Black
	}
	sd.allocatedTime = sd.limits.TimeLeft[stm]/moves + sd.limits.Increment[stm]
}

func (sd *searchData) elapsed() time.Duration {
	return time.Since(sd.startTime)
}

// shouldStop reports whether a limit has been exceeded. It does not
// abort anything itself; the search converts the answer into an abort.
// Time is only sampled every 1024 nodes to keep the check cheap.
func (sd *searchData) shouldStop() bool {
	if sd.nodes%1024 != 0 {
		return false
	}
	if sd.limits.MaxNodes > 0 && sd.nodes >= sd.limits.MaxNodes {
		return true
	}
	elapsed := sd.elapsed()
	if sd.limits.useTournamentTime() && elapsed >= sd.allocatedTime {
		return true
	}
	if sd.limits.MaxTime > 0 && elapsed > sd.limits.MaxTime {
		return true
	}
	return false
}

// storeKiller remembers a quiet move that caused a beta cutoff at this
// ply, keeping the two most recent distinct ones
func (sd *searchData) storeKiller(ply int, m board.Move) {
	if sd.killers[ply][0] != m {
		sd.killers[ply][1] = sd.killers[ply][0]
		sd.killers[ply][0] = m
	}
}

func (sd *searchData) isKiller(ply int, m board.Move) bool {
	return sd.killers[ply][0] == m || sd.killers[ply][1] == m
}

// bumpHistory credits a quiet move that caused a cutoff, weighted by
// depth so cutoffs near the root dominate
func (sd *searchData) bumpHistory(whiteToMove bool, m board.Move, depth int) {
	side := White
	if !whiteToMove {
		side = Black
	}
	sd.history[side][m.From()&63][m.To()&63] += int32(depth) * int32(depth)
}

func (sd *searchData) historyScore(whiteToMove bool, m board.Move) int32 {
	side := White
	if !whiteToMove {
		side = Black
	}
	return sd.history[side][m.From()&63][m.To()&63]
}
