package board

import (
	"testing"

	dragon "github.com/dylhunn/dragontoothmg"
)

func TestApplyUndoRestoresHash(t *testing.T) {
	pos := Starting()
	before := pos.Hash()

	for _, m := range pos.LegalMoves() {
		undo := pos.Apply(m)
		if pos.Hash() == before {
			t.Errorf("hash unchanged after applying %s", m.String())
		}
		undo()
		if pos.Hash() != before {
			t.Fatalf("hash not restored after undoing %s", m.String())
		}
		if len(pos.history) != 0 {
			t.Fatalf("history not unwound after undoing %s", m.String())
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	pos := Starting()
	cp := pos.Copy()

	mv, err := dragon.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	cp.Apply(mv)

	if pos.Hash() == cp.Hash() {
		t.Error("mutating the copy changed the original")
	}
	if len(pos.history) != 0 {
		t.Error("mutating the copy touched the original history")
	}
}

func TestFiftyMoveDraw(t *testing.T) {
	pos := FromFEN("7k/8/8/8/8/8/8/K6R w - - 100 3")
	if !pos.IsFiftyMoveDraw() {
		t.Error("expected fifty-move draw at halfmove clock 100")
	}
	if FromFEN("7k/8/8/8/8/8/8/K6R w - - 99 3").IsFiftyMoveDraw() {
		t.Error("fifty-move draw reported at halfmove clock 99")
	}
}

func TestMaterialDraw(t *testing.T) {
	cases := []struct {
		fen  string
		draw bool
	}{
		{"7k/8/8/8/8/8/8/K7 w - - 0 1", true},           // K vs K
		{"7k/8/8/8/8/8/8/KN6 w - - 0 1", true},          // KN vs K
		{"7k/6b1/8/8/8/8/8/KN6 w - - 0 1", true},        // KN vs KB
		{"7k/8/8/8/8/8/8/KNN5 w - - 0 1", false},        // two knights
		{"7k/8/8/8/8/8/P7/K7 w - - 0 1", false},         // pawn on board
		{"7k/8/8/8/8/8/8/K6R w - - 0 1", false},         // rook on board
	}
	for _, tc := range cases {
		if got := FromFEN(tc.fen).IsMaterialDraw(); got != tc.draw {
			t.Errorf("IsMaterialDraw(%q) = %v, want %v", tc.fen, got, tc.draw)
		}
	}
}

func TestRepetitionDraw(t *testing.T) {
	pos := Starting()

	// Two full knight shuffles bring the start position up twice more
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for round := 0; round < 2; round++ {
		for _, s := range shuffle {
			mv, err := dragon.ParseMove(s)
			if err != nil {
				t.Fatal(err)
			}
			pos.Apply(mv)
		}
	}

	if !pos.IsRepetitionDraw() {
		t.Error("expected repetition draw after two knight shuffles")
	}

	fresh := Starting()
	if fresh.IsRepetitionDraw() {
		t.Error("fresh position reported as repetition draw")
	}
}

func TestNonQuietMovesAreForcing(t *testing.T) {
	// White can capture on e5 or push quietly
	pos := FromFEN("rnbqkbnr/pppp1ppp/8/4p3/3P4/8/PPP1PPPP/RNBQKBNR w KQkq - 0 2")

	forcing := pos.NonQuietMoves()
	if len(forcing) == 0 {
		t.Fatal("expected at least one forcing move")
	}
	for _, m := range forcing {
		if !pos.IsCapture(m) && !pos.IsPromotion(m) {
			t.Errorf("move %s is neither capture nor promotion", m.String())
		}
	}
}

func TestIsCaptureEnPassant(t *testing.T) {
	// d5xe6 en passant lands on an empty square
	pos := FromFEN("rnbqkbnr/pppp1ppp/8/3Pp3/8/8/PPP1PPPP/RNBQKBNR w KQkq e6 0 3")
	mv, err := dragon.ParseMove("d5e6")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.IsCapture(mv) {
		t.Error("en passant not recognized as capture")
	}
}

func TestPieceOn(t *testing.T) {
	pos := Starting()
	if got := pos.PieceOn(0); got != dragon.Rook {
		t.Errorf("a1 = %v, want rook", got)
	}
	if got := pos.PieceOn(12); got != dragon.Pawn {
		t.Errorf("e2 = %v, want pawn", got)
	}
	if got := pos.PieceOn(28); got != dragon.Nothing {
		t.Errorf("e4 = %v, want empty", got)
	}
	if got := pos.PieceOn(60); got != dragon.King {
		t.Errorf("e8 = %v, want king", got)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos := FromFEN(fen)
	again := FromFEN(pos.FEN())
	if pos.Hash() != again.Hash() {
		t.Errorf("FEN round trip changed position: %s -> %s", fen, pos.FEN())
	}
}
