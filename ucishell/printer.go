// =============================================================================
// printer.go - Event Display
// =============================================================================
//
// The engine reports everything asynchronously: best moves, candidate
// lines, raw info and errors arrive while the user may be typing. The
// printer is the shell's EventSink; it writes each event as a block that
// starts on a fresh line, prefixed with "***" like other async output.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chess3d/uciengine/uciprotocol"
)

// printer renders engine events to a writer. It also remembers the last
// best move so ".play" can apply it to the board.
type printer struct {
	mu       sync.Mutex
	out      io.Writer
	lastBest string
	quiet    bool
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

// GO CONCEPT: Compile-Time Interface Check
// ----------------------------------------
// Assigning a typed nil to a blank variable of the interface type makes the
// compiler verify that *printer implements every EventSink method. Nothing
// is allocated at run time.
var _ uciprotocol.EventSink = (*printer)(nil)

func (p *printer) EngineReady() {
	p.printf("*** Engine ready\n")
}

func (p *printer) BestMove(move, ponder string) {
	p.mu.Lock()
	p.lastBest = move
	p.mu.Unlock()

	if ponder != "" {
		p.printf("*** Best move: %s (ponder %s)\n", move, ponder)
		return
	}
	p.printf("*** Best move: %s\n", move)
}

func (p *printer) CandidateList(candidates []uciprotocol.Candidate) {
	p.printf("%s", formatCandidates(candidates))
}

func (p *printer) Info(line string) {
	p.mu.Lock()
	quiet := p.quiet
	p.mu.Unlock()
	if !quiet {
		p.printf("    %s\n", line)
	}
}

func (p *printer) Error(message string) {
	p.printf("*** Error: %s\n", message)
}

func (p *printer) InitializationFailed(reason string) {
	p.printf("*** Initialization failed: %s\n", reason)
}

// setQuiet hides info lines without touching the engine setting.
func (p *printer) setQuiet(quiet bool) {
	p.mu.Lock()
	p.quiet = quiet
	p.mu.Unlock()
}

// lastBestMove returns the most recent best move, or "".
func (p *printer) lastBestMove() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastBest
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

// formatCandidates renders a ranked table:
//
//	*** Candidates:
//	     1. e2e4     +0.35  depth 12
//	     2. d2d4     +0.25  depth 12
func formatCandidates(candidates []uciprotocol.Candidate) string {
	var b strings.Builder
	b.WriteString("*** Candidates:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "    %2d. %-8s %6s", c.Rank, c.Move, formatScore(c.ScoreKind, c.Score))
		if c.Depth >= 0 {
			fmt.Fprintf(&b, "  depth %d", c.Depth)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatScore renders a score from the side to move's point of view:
// centipawns as signed pawns ("+0.35"), mate distances as "#3" or "#-2".
func formatScore(kind uciprotocol.ScoreKind, score int) string {
	switch kind {
	case uciprotocol.ScoreCentipawns:
		sign := "+"
		if score < 0 {
			sign = "-"
			score = -score
		}
		return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
	case uciprotocol.ScoreMate:
		return fmt.Sprintf("#%d", score)
	default:
		return "?"
	}
}
