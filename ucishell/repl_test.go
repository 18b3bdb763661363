// =============================================================================
// repl_test.go - Tests for the REPL (repl.go)
// =============================================================================
//
// Each test builds a shell around the recording fake engine, runs input
// lines through it and compares the engine calls it produced.
//
// =============================================================================

package main

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chess3d/uciengine/uciprotocol"
)

func newTestShell(t *testing.T) (*shell, *fakeEngine, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	eng := newFakeEngine()
	sh := newShell(eng, newPrinter(out), out)
	return sh, eng, out
}

// execAll runs lines and fails the test on the first error.
func execAll(t *testing.T, sh *shell, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if err := sh.execute(line); err != nil {
			t.Fatalf("execute(%q) returned error: %v", line, err)
		}
	}
}

func assertCalls(t *testing.T, eng *fakeEngine, want ...string) {
	t.Helper()
	got := eng.Calls()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("engine calls mismatch\n got: %q\nwant: %q", got, want)
	}
}

// scriptedInput implements lineReader over a fixed list of lines.
type scriptedInput struct {
	lines   []string
	prompts []string
}

func (s *scriptedInput) GetLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestExecuteIgnoresBlankAndComments(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	execAll(t, sh, "", "   ", "# a comment")
	assertCalls(t, eng)
}

func TestNewGame(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	execAll(t, sh, ".move e4", ".new")

	assertCalls(t, eng,
		"SetStartPosition(e2e4)",
		"NewGame()",
		"SetStartPosition()",
	)
}

func TestMoveSyncsPosition(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	execAll(t, sh, ".move e4 e5 Nf3", ".m b8c6")

	assertCalls(t, eng,
		"SetStartPosition(e2e4 e7e5 g1f3)",
		"SetStartPosition(e2e4 e7e5 g1f3 b8c6)",
	)
	if got := sh.prompt(); got != "[white] uci> " {
		t.Errorf("prompt = %q, want %q", got, "[white] uci> ")
	}
}

// TestMoveStopsAtIllegalMove verifies earlier moves stay played and the
// engine still receives them.
func TestMoveStopsAtIllegalMove(t *testing.T) {
	sh, eng, _ := newTestShell(t)

	err := sh.execute(".move e4 e4 d5")
	if err == nil {
		t.Fatal("expected an error for the illegal second move")
	}
	assertCalls(t, eng, "SetStartPosition(e2e4)")
}

func TestFENPosition(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	fen := "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	execAll(t, sh, ".fen "+fen, ".move e2e4")

	assertCalls(t, eng,
		"SetPosition("+fen+"|)",
		"SetPosition("+fen+"|e2e4)",
	)
}

func TestFENInvalid(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	if err := sh.execute(".fen not a position"); err == nil {
		t.Error("expected error for invalid FEN")
	}
	if err := sh.execute(".fen"); err == nil {
		t.Error("expected usage error for missing FEN")
	}
	assertCalls(t, eng)
}

func TestUndo(t *testing.T) {
	sh, eng, out := newTestShell(t)
	execAll(t, sh, ".move d4 d5")
	eng.reset()

	execAll(t, sh, ".undo")
	assertCalls(t, eng, "SetStartPosition(d2d4)")
	if !strings.Contains(out.String(), "Took back d7d5") {
		t.Errorf("output %q should report the undone move", out.String())
	}

	execAll(t, sh, ".undo")
	if err := sh.execute(".undo"); err == nil {
		t.Error("undo on an empty game should fail")
	}
}

func TestSearchCommands(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{".go", "GetBestMove(0s, 0)"},
		{".go 500", "GetBestMove(500ms, 0)"},
		{".go 2s depth 18", "GetBestMove(2s, 18)"},
		{".go depth 12", "GetBestMove(0s, 12)"},
		{".search e4 d4", "GetBestMoveWithSearchMoves(0s, 0, e2e4 d2d4)"},
		{".search g1f3 750 depth 5", "GetBestMoveWithSearchMoves(750ms, 5, g1f3)"},
		{".analyze", "Analyze()"},
		{".stop", "StopSearch()"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sh, eng, _ := newTestShell(t)
			execAll(t, sh, tt.input)
			assertCalls(t, eng, tt.want)
		})
	}
}

func TestSearchRejectsIllegalMoves(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	if err := sh.execute(".search e5"); err == nil {
		t.Error("expected error for a move black would play")
	}
	if err := sh.execute(".search"); err == nil {
		t.Error("expected usage error without moves")
	}
	assertCalls(t, eng)
}

func TestEngineSettings(t *testing.T) {
	sh, eng, out := newTestShell(t)
	execAll(t, sh,
		".multipv 3",
		".skill 40",
		".think 1.5s",
		".verbose off",
		".option Skill Level = 5",
		".set Hash=128",
	)

	assertCalls(t, eng,
		"SetMultiPV(3)",
		"SetSkillLevel(40)",
		"SetDefaultThinkTime(1.5s)",
		"SetVerboseInfo(false)",
		"SetOption(Skill Level=5)",
		"SetOption(Hash=128)",
	)

	text := out.String()
	for _, want := range []string{"MultiPV set to 3", "Skill Level set to 20", "Default think time set to 1.5s"} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q, got:\n%s", want, text)
		}
	}
}

func TestSettingErrors(t *testing.T) {
	inputs := []string{
		".multipv",
		".multipv many",
		".skill 1 2",
		".think",
		".think soon",
		".verbose",
		".verbose loud",
		".option Threads",
		".option = 4",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			sh, eng, _ := newTestShell(t)
			if err := sh.execute(input); err == nil {
				t.Errorf("execute(%q) should fail", input)
			}
			assertCalls(t, eng)
		})
	}
}

func TestReady(t *testing.T) {
	sh, eng, out := newTestShell(t)
	sh.readyTimeout = 250 * time.Millisecond

	execAll(t, sh, ".ready")
	assertCalls(t, eng, "WaitForReady(250ms)")
	if !strings.Contains(out.String(), "Engine is ready") {
		t.Errorf("unexpected output %q", out.String())
	}

	eng.ready = false
	if err := sh.execute(".ready"); err == nil {
		t.Error("expected error when the engine does not answer")
	}
}

func TestRestartResendsPosition(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	sh.initTimeout = time.Second
	execAll(t, sh, ".move e4")
	eng.reset()

	execAll(t, sh, ".restart")
	assertCalls(t, eng, "Stop()", "Initialize(1s)", "SetStartPosition(e2e4)")
}

func TestRestartResendsSettingsOptions(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	sh.initTimeout = time.Second
	sh.options = map[string]string{"Threads": "4", "Hash": "256"}

	execAll(t, sh, ".restart")
	assertCalls(t, eng,
		"Stop()",
		"Initialize(1s)",
		"SetOption(Hash=256)",
		"SetOption(Threads=4)",
		"SetStartPosition()",
	)
}

func TestPlayLastBestMove(t *testing.T) {
	sh, eng, _ := newTestShell(t)

	if err := sh.execute(".play"); err == nil {
		t.Error("expected error before any best move")
	}

	sh.printer.BestMove("g1f3", "d7d5")
	execAll(t, sh, ".play")
	assertCalls(t, eng, "SetStartPosition(g1f3)")
}

func TestRawCommandsAreValidated(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	execAll(t, sh,
		"position startpos moves e2e4",
		"go movetime 100",
		"setoption name Threads value 2",
		"isready",
	)
	assertCalls(t, eng,
		"Send(position startpos moves e2e4)",
		"Send(go movetime 100)",
		"Send(setoption name Threads value 2)",
		"Send(isready)",
	)

	var perr *uciprotocol.ParseError
	if err := sh.execute("castle kingside"); !errors.As(err, &perr) {
		t.Errorf("unknown verb should be a ParseError, got %v", err)
	}
	if err := sh.execute("quit"); err == nil {
		t.Error("raw quit should be refused")
	}
}

func TestSendErrorIsReturned(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	eng.sendErr = uciprotocol.ErrNotRunning

	if err := sh.execute("isready"); !errors.Is(err, uciprotocol.ErrNotRunning) {
		t.Errorf("got %v, want ErrNotRunning", err)
	}
}

func TestUnknownDotCommand(t *testing.T) {
	sh, _, _ := newTestShell(t)
	err := sh.execute(".castle")
	if err == nil || !strings.Contains(err.Error(), "unknown command: .castle") {
		t.Errorf("got %v", err)
	}
	if err := sh.execute("."); err == nil {
		t.Error("bare dot should be an error")
	}
}

func TestQuitAliases(t *testing.T) {
	for _, input := range []string{".quit", ".exit", ".q", ".QUIT"} {
		sh, _, _ := newTestShell(t)
		if err := sh.execute(input); !errors.Is(err, errQuit) {
			t.Errorf("execute(%q) = %v, want errQuit", input, err)
		}
	}
}

func TestBoardAndMovesOutput(t *testing.T) {
	sh, _, out := newTestShell(t)
	execAll(t, sh, ".move e4 e5 Nf3", ".moves", ".board")

	text := out.String()
	for _, want := range []string{
		"1. e4 e5 2. Nf3",
		"black to move",
		"Engine: position startpos moves e2e4 e7e5 g1f3",
		"FEN: rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q, got:\n%s", want, text)
		}
	}
}

func TestOptionsListing(t *testing.T) {
	sh, eng, out := newTestShell(t)
	eng.identity = uciprotocol.Identity{
		Name:   "Fake 1.0",
		Author: "Tests",
		Options: []uciprotocol.OptionSpec{
			{Name: "Hash", Type: "spin", Default: "16", Min: "1", Max: "1024"},
			{Name: "Style", Type: "combo", Default: "Normal", Vars: []string{"Solid", "Normal"}},
		},
	}

	execAll(t, sh, ".options")
	text := out.String()
	for _, want := range []string{"Fake 1.0 by Tests", "Hash", "[1..1024]", "{Solid, Normal}"} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q, got:\n%s", want, text)
		}
	}
}

func TestRunREPLStopsAtQuit(t *testing.T) {
	sh, eng, out := newTestShell(t)
	in := &scriptedInput{lines: []string{".move e4", ".bogus", ".quit", ".go"}}

	runREPL(sh, in)

	assertCalls(t, eng, "SetStartPosition(e2e4)")
	if !strings.Contains(out.String(), "Error: unknown command: .bogus") {
		t.Errorf("errors should be printed, got %q", out.String())
	}
	wantPrompts := []string{"[white] uci> ", "[black] uci> ", "[black] uci> "}
	if !reflect.DeepEqual(in.prompts, wantPrompts) {
		t.Errorf("prompts = %q, want %q", in.prompts, wantPrompts)
	}
}

func TestRunREPLStopsAtEOF(t *testing.T) {
	sh, eng, _ := newTestShell(t)
	runREPL(sh, &scriptedInput{lines: []string{".analyze"}})
	assertCalls(t, eng, "Analyze()")
}

func TestFormatMoveList(t *testing.T) {
	tests := []struct {
		san  []string
		want string
	}{
		{nil, "(no moves)"},
		{[]string{"e4"}, "1. e4"},
		{[]string{"e4", "e5"}, "1. e4 e5"},
		{[]string{"e4", "e5", "Nf3"}, "1. e4 e5 2. Nf3"},
	}
	for _, tt := range tests {
		if got := formatMoveList(tt.san); got != tt.want {
			t.Errorf("formatMoveList(%q) = %q, want %q", tt.san, got, tt.want)
		}
	}
}
