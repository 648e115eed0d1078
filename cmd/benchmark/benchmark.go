package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"ratatosk/pkg/board"
	"ratatosk/pkg/engine"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
var depth = flag.Int("depth", 7, "search depth per position")
var hash = flag.Int("hash", 64, "transposition table size in MB")

// A small mixed suite: opening, middlegame tactics, endgames
var positions = []string{
	board.StartFEN,
	"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"5B2/PP1k2P1/p3pr1p/7p/1p2p3/8/3K2Rn/4r3 w - - 0 1",
	"8/k7/3p4/p2P1p2/P2P1P2/8/8/K7 w - - 0 1",
}

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	fmt.Println("----BEGIN RATATOSK BENCHMARK----")
	var totalNodes uint64
	var totalTime time.Duration
	for i, fen := range positions {
		nodes, elapsed := searchPosition(fen)
		totalNodes += nodes
		totalTime += elapsed
		fmt.Printf("[POS%d] %d nodes in %v\n", i+1, nodes, elapsed)
	}
	nps := uint64(0)
	if totalTime > 0 {
		nps = totalNodes * uint64(time.Second) / uint64(totalTime)
	}
	fmt.Printf("Total: %d nodes in %v (%d nps)\n", totalNodes, totalTime, nps)
	fmt.Println("----END  RATATOSK  BENCHMARK----")
}

func searchPosition(fen string) (uint64, time.Duration) {
	eng := engine.New(*hash)
	sink := &captureNotifier{}
	eng.Notifier = sink
	eng.SetPosition(fen)

	start := time.Now()
	eng.Search(engine.SearchLimits{MaxDepth: *depth})
	eng.WaitSearchFinish()
	elapsed := time.Since(start)

	best := sink.final.BestMove()
	fmt.Printf("       bestmove %s score %s depth %d\n",
		best.String(), engine.FormatScore(sink.final.Score), sink.final.Depth)
	return sink.final.Nodes, elapsed
}

type captureNotifier struct {
	final engine.SearchEvent
}

func (n *captureNotifier) OnSearchProgress(engine.SearchEvent) {}
func (n *captureNotifier) OnSearchFinish(ev engine.SearchEvent) {
	n.final = ev
}
