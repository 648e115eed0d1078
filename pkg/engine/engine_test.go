package engine

import (
	"testing"
	"time"

	"ratatosk/pkg/board"
)

// recordingNotifier collects every event. WaitSearchFinish happens after
// the final notification, so reads made after it need no locking.
type recordingNotifier struct {
	progress []SearchEvent
	finish   []SearchEvent
}

func (r *recordingNotifier) OnSearchProgress(ev SearchEvent) { r.progress = append(r.progress, ev) }
func (r *recordingNotifier) OnSearchFinish(ev SearchEvent)   { r.finish = append(r.finish, ev) }

func TestFinishEventExactlyOnce(t *testing.T) {
	rec := &recordingNotifier{}
	e := New(1)
	e.Notifier = rec

	e.Search(SearchLimits{MaxDepth: 4})
	e.WaitSearchFinish()

	if len(rec.finish) != 1 {
		t.Fatalf("got %d finish events, want 1", len(rec.finish))
	}
	if e.IsSearching() {
		t.Error("engine still reports searching after finish")
	}
}

func TestProgressPerDepth(t *testing.T) {
	rec := &recordingNotifier{}
	e := New(1)
	e.Notifier = rec

	e.Search(SearchLimits{MaxDepth: 5})
	e.WaitSearchFinish()

	if len(rec.progress) != 5 {
		t.Fatalf("got %d progress events, want 5", len(rec.progress))
	}
	for i, ev := range rec.progress {
		if ev.Depth != i+1 {
			t.Errorf("progress %d reports depth %d", i, ev.Depth)
		}
		if len(ev.PV) == 0 {
			t.Errorf("depth %d progress carries no pv", ev.Depth)
		}
	}
	if rec.finish[0].Depth != 5 {
		t.Errorf("finish reports depth %d, want 5", rec.finish[0].Depth)
	}
}

func TestStopAbortsInfiniteSearch(t *testing.T) {
	rec := &recordingNotifier{}
	e := New(8)
	e.Notifier = rec

	e.Search(SearchLimits{})
	time.Sleep(50 * time.Millisecond)
	e.Stop()

	finished := make(chan struct{})
	go func() {
		e.WaitSearchFinish()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("search did not abort within two seconds of Stop")
	}

	if len(rec.finish) != 1 {
		t.Fatalf("got %d finish events, want 1", len(rec.finish))
	}
	final := rec.finish[0]
	if final.Depth < 1 {
		t.Errorf("aborted search finished with depth %d", final.Depth)
	}
	if final.BestMove() == board.NoMove {
		t.Error("aborted search produced no best move")
	}
	// The reported line must be playable from the root
	pos := e.Position()
	for _, m := range final.PV {
		legal := false
		for _, lm := range pos.LegalMoves() {
			if lm == m {
				legal = true
				break
			}
		}
		if !legal {
			t.Fatalf("pv move %s is not legal in its position", m.String())
		}
		pos.Apply(m)
	}
}

func TestAbortedIterationKeepsPreviousResult(t *testing.T) {
	rec := &recordingNotifier{}
	e := New(8)
	e.Notifier = rec

	e.Search(SearchLimits{MaxTime: 100 * time.Millisecond})
	e.WaitSearchFinish()

	final := rec.finish[0]
	maxProgress := 0
	for _, ev := range rec.progress {
		if ev.Depth > maxProgress {
			maxProgress = ev.Depth
		}
	}
	if final.Depth != maxProgress {
		t.Errorf("finish depth %d does not match deepest completed %d", final.Depth, maxProgress)
	}
}

func TestSearchWhileSearchingIgnored(t *testing.T) {
	rec := &recordingNotifier{}
	e := New(8)
	e.Notifier = rec

	e.Search(SearchLimits{})
	if !e.IsSearching() {
		t.Fatal("engine does not report searching")
	}
	// Second request must not start another search or disturb the first
	e.Search(SearchLimits{MaxDepth: 1})
	e.Stop()
	e.WaitSearchFinish()

	if len(rec.finish) != 1 {
		t.Errorf("got %d finish events, want 1", len(rec.finish))
	}
}

func TestStopWithoutSearchIsHarmless(t *testing.T) {
	e := New(1)
	e.Stop()
	e.Stop()
	e.WaitSearchFinish()

	rec := &recordingNotifier{}
	e.Notifier = rec
	e.Search(SearchLimits{MaxDepth: 2})
	e.WaitSearchFinish()
	if len(rec.finish) != 1 {
		t.Errorf("stale stop broke the next search: %d finish events", len(rec.finish))
	}
}

func TestSetPositionIgnoredDuringSearch(t *testing.T) {
	e := New(8)
	e.Notifier = NopNotifier{}

	before := e.Position().Hash()
	e.Search(SearchLimits{})
	e.SetPosition("7k/8/8/8/8/8/R7/K7 w - - 0 1")
	e.Stop()
	e.WaitSearchFinish()

	if e.Position().Hash() != before {
		t.Error("position changed while a search was running")
	}
}

func TestSearchMovesSnapshotIndependent(t *testing.T) {
	rec := &recordingNotifier{}
	e := New(1)
	e.Notifier = rec

	moves := e.Position().LegalMoves()
	restricted := moves[0]
	searchMoves := []board.Move{restricted}

	// Search clones the restriction before the goroutine starts, so
	// mutating the caller's slice afterwards must not affect the search
	e.Search(SearchLimits{MaxDepth: 3, SearchMoves: searchMoves})
	searchMoves[0] = moves[1]
	e.WaitSearchFinish()

	if got := rec.finish[0].BestMove(); got != restricted {
		t.Errorf("best move %s escaped the restricted set, want %s",
			got.String(), restricted.String())
	}
}

func TestNodeLimitRespected(t *testing.T) {
	rec := &recordingNotifier{}
	e := New(8)
	e.Notifier = rec

	e.Search(SearchLimits{MaxNodes: 20000})
	e.WaitSearchFinish()

	// The limit is sampled every 1024 nodes, so allow a settling margin
	if got := rec.finish[0].Nodes; got > 20000+2048 {
		t.Errorf("searched %d nodes, limit was 20000", got)
	}
}
