package engine

import (
	"strings"
	"time"

	"ratatosk/pkg/board"
)

// SearchEvent carries the state of the search after a completed depth
// iteration and at the end of the search.
type SearchEvent struct {
	Depth    int
	SelDepth int
	PV       []board.Move
	Score    int16
	Nodes    uint64
	Elapsed  time.Duration
	Hashfull int
}

// BestMove returns the first move of the principal variation, or NoMove
// when the search produced no line
func (ev SearchEvent) BestMove() board.Move {
	if len(ev.PV) == 0 {
		return board.NoMove
	}
	return ev.PV[0]
}

// PVString renders the principal variation as space-separated UCI moves
func (ev SearchEvent) PVString() string {
	parts := make([]string, 0, len(ev.PV))
	for _, m := range ev.PV {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, " ")
}

// Notifier receives progress reports from a running search.
// OnSearchProgress fires once per completed depth, OnSearchFinish
// exactly once when the search ends. Both are called from the search
// goroutine.
type Notifier interface {
	OnSearchProgress(SearchEvent)
	OnSearchFinish(SearchEvent)
}

// NopNotifier discards all events
type NopNotifier struct{}

func (NopNotifier) OnSearchProgress(SearchEvent) {}
func (NopNotifier) OnSearchFinish(SearchEvent)   {}
