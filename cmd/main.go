package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tm "github.com/buger/goterm"
	"github.com/notnil/chess"
	"github.com/notnil/opening"
	"github.com/rs/zerolog"

	"ratatosk/pkg/engine"
)

var game *chess.Game
var reader *bufio.Reader
var useOpeningTheory = true

func main() {
	reader = bufio.NewReader(os.Stdin)
	game = chess.NewGame()

	eng := engine.New(64)
	eng.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	sink := &consoleNotifier{}
	eng.Notifier = sink

	for {
		render()
		if outcome := game.Outcome(); outcome != chess.NoOutcome {
			tm.Println("Game over:", outcome, "by", game.Method())
			tm.Flush()
			return
		}
		if game.Position().Turn() == chess.White {
			humanTurn()
		} else {
			engineTurn(eng, sink)
		}
	}
}

// render draws the board and game status at the top of the terminal
func render() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Println(game.Position().Board().Draw())
	if name := openingName(); name != "" {
		tm.Println("Theory:", tm.Color(name, tm.CYAN))
	}
	if moves := game.Moves(); len(moves) > 0 {
		tm.Println("Last move:", moves[len(moves)-1])
	}
	tm.Flush()
}

func humanTurn() {
	for {
		fmt.Print("Your move: ")
		text, err := reader.ReadString('\n')
		if err != nil {
			os.Exit(0)
		}
		if err := game.MoveStr(strings.TrimSpace(text)); err == nil {
			return
		}
		fmt.Println("Invalid move, try again")
	}
}

func engineTurn(eng *engine.Engine, sink *consoleNotifier) {
	// Play book theory for as long as the game follows it
	if useOpeningTheory {
		if mv := openingMove(); mv != nil {
			if err := game.Move(mv); err == nil {
				return
			}
		}
		useOpeningTheory = false
	}

	eng.SetPosition(game.Position().String())
	eng.Search(engine.SearchLimits{
		TimeLeft:  [2]time.Duration{3 * time.Minute, 3 * time.Minute},
		Increment: [2]time.Duration{2 * time.Second, 2 * time.Second},
	})
	eng.WaitSearchFinish()

	best := sink.final.BestMove()
	mv, err := chess.UCINotation{}.Decode(game.Position(), best.String())
	if err != nil {
		// Should not happen; bail rather than play an illegal move
		fmt.Println("engine returned unplayable move:", best.String())
		os.Exit(1)
	}
	if err := game.Move(mv); err != nil {
		fmt.Println("engine move rejected:", err)
		os.Exit(1)
	}
	fmt.Printf("Engine plays %s (%s, depth %d, %d nodes)\n",
		mv, engine.FormatScore(sink.final.Score), sink.final.Depth, sink.final.Nodes)
}

// openingMove returns the next theory move when the game so far matches
// a known ECO line
func openingMove() *chess.Move {
	prevMoves := game.Moves()
	openings := opening.Possible(prevMoves)
	sort.Sort(byOpeningLength(openings))
	for _, op := range openings {
		moves := op.Game().Moves()
		if len(moves) <= len(prevMoves) {
			break
		}
		usable := true
		for idx, mv := range prevMoves {
			if moves[idx].String() != mv.String() {
				usable = false
			}
		}
		if usable {
			return moves[len(prevMoves)]
		}
		break
	}
	return nil
}

func openingName() string {
	if op := opening.Find(game.Moves()); op != nil {
		return op.Title()
	}
	return ""
}

type byOpeningLength []*opening.Opening

func (a byOpeningLength) Len() int           { return len(a) }
func (a byOpeningLength) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byOpeningLength) Less(i, j int) bool { return len(a[i].PGN()) > len(a[j].PGN()) }

// consoleNotifier prints one info line per completed depth and keeps
// the final result for the game loop
type consoleNotifier struct {
	final engine.SearchEvent
}

func (n *consoleNotifier) OnSearchProgress(ev engine.SearchEvent) {
	fmt.Printf("info depth %d seldepth %d score %s nodes %d time %d hashfull %d pv %s\n",
		ev.Depth, ev.SelDepth, engine.FormatScore(ev.Score), ev.Nodes,
		ev.Elapsed.Milliseconds(), ev.Hashfull, ev.PVString())
}

func (n *consoleNotifier) OnSearchFinish(ev engine.SearchEvent) {
	n.final = ev
}
