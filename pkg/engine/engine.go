package engine

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"ratatosk/pkg/board"
	"ratatosk/pkg/transposition"
)

// EvalFunc scores a position from the perspective of the side to move.
// It must be side-effect free and deterministic.
type EvalFunc func(*board.Position) int16

// Engine owns the persistent search state: the current position, the
// transposition table and the searching/aborted flags. At most one
// search runs at a time; Search launches it on its own goroutine and
// Stop requests cooperative cancellation.
type Engine struct {
	// Evaluate, Notifier and Logger may be swapped before a search
	// starts; they default to the built-in evaluation, a no-op sink
	// and a disabled logger.
	Evaluate EvalFunc
	Notifier Notifier
	Logger   zerolog.Logger

	// DrawNoise dithers draw scores slightly to avoid repetition
	// blindness. Off by default, kept as a tunable.
	DrawNoise bool

	mu   sync.Mutex
	pos  *board.Position
	tt   *transposition.Table
	done chan struct{}

	searching atomic.Bool
	aborted   atomic.Bool
}

// New returns an Engine at the starting position with a transposition
// table of hashSizeMB megabytes
func New(hashSizeMB int) *Engine {
	return &Engine{
		Evaluate: board.Evaluate,
		Notifier: NopNotifier{},
		Logger:   zerolog.Nop(),
		pos:      board.Starting(),
		tt:       transposition.New(hashSizeMB),
	}
}

// SetPosition replaces the current position. Ignored while a search is
// running.
func (e *Engine) SetPosition(fen string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.searching.Load() {
		return
	}
	e.pos = board.FromFEN(fen)
}

// Position returns a copy of the current position
func (e *Engine) Position() *board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.Copy()
}

// NewGame clears the transposition table between games
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.searching.Load() {
		return
	}
	if e.tt != nil {
		e.tt.Clear()
	}
}

// IsSearching reports whether a search is currently running
func (e *Engine) IsSearching() bool {
	return e.searching.Load()
}

// Search starts a search with the given limits on a detached goroutine
// and returns immediately. A request made while a search is already
// running is silently ignored. Results flow out through the Notifier.
func (e *Engine) Search(limits SearchLimits) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.searching.CompareAndSwap(false, true) {
		return
	}
	e.aborted.Store(false)
	if e.tt != nil {
		e.tt.NextSearch()
	}
	e.done = make(chan struct{})

	// The goroutine owns its snapshot of the position and limits; it
	// shares only the abort flag and the transposition table with the
	// engine. The root move restriction is cloned so a caller mutating
	// its slice cannot race with root filtering.
	limits.SearchMoves = append([]board.Move(nil), limits.SearchMoves...)
	sd := newSearchData(e.pos.Copy(), limits)
	go e.idSearch(sd, e.done)
}

// Stop requests cooperative cancellation. Idempotent, callable at any
// time; a no-op when no search is running.
func (e *Engine) Stop() {
	e.aborted.Store(true)
}

// WaitSearchFinish blocks until the current search ends, if one is
// running
func (e *Engine) WaitSearchFinish() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

// idSearch is the iterative deepening driver: it searches at depth 1,
// 2, ... with a full window, keeping the result of the last depth that
// completed before any abort, so an interrupted search always has a
// usable answer.
func (e *Engine) idSearch(sd *searchData, done chan struct{}) {
	defer func() {
		e.searching.Store(false)
		close(done)
	}()

	var bestPV []board.Move
	bestScore := ScoreNone
	depth, completed := 0, 0

	pv := make([]board.Move, 0, MaxPly)
	for depth = 1; depth <= MaxPly; depth++ {
		score := e.pvSearch(sd, -ScoreInfinite, ScoreInfinite, depth, 0, &pv, nodeRoot)

		// An aborted iteration is incomplete; its result is
		// discarded and the previous depth stands
		if depth > 1 && e.aborted.Load() {
			break
		}

		bestPV = append(bestPV[:0], pv...)
		bestScore = score
		completed = depth

		ev := e.makeEvent(depth, sd, bestPV, bestScore)
		e.Logger.Debug().
			Int("depth", depth).
			Int16("score", bestScore).
			Uint64("nodes", sd.nodes).
			Dur("elapsed", ev.Elapsed).
			Str("pv", ev.PVString()).
			Msg("depth completed")
		e.Notifier.OnSearchProgress(ev)

		if sd.limits.MaxDepth > 0 && depth >= sd.limits.MaxDepth {
			break
		}
	}

	ev := e.makeEvent(completed, sd, bestPV, bestScore)
	if depth != completed {
		e.Notifier.OnSearchProgress(ev)
	}
	e.Notifier.OnSearchFinish(ev)
	e.Logger.Debug().
		Int("depth", completed).
		Uint64("nodes", sd.nodes).
		Msg("search finished")
}

func (e *Engine) makeEvent(depth int, sd *searchData, pv []board.Move, score int16) SearchEvent {
	ev := SearchEvent{
		Depth:    depth,
		SelDepth: sd.selDepth,
		PV:       clonePV(pv),
		Score:    score,
		Nodes:    sd.nodes,
		Elapsed:  sd.elapsed(),
	}
	if e.tt != nil {
		ev.Hashfull = e.tt.Hashfull()
	}
	return ev
}
