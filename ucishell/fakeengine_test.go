// =============================================================================
// fakeengine_test.go - Recording engineDriver for REPL Tests
// =============================================================================
//
// The REPL talks to the engine through the engineDriver interface. This
// fake records every call as a string so tests can assert exactly what the
// shell asked the engine to do, without starting a process.
//
// =============================================================================

package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chess3d/uciengine/uciprotocol"
)

type fakeEngine struct {
	mu    sync.Mutex
	calls []string

	cfg      uciprotocol.Config
	identity uciprotocol.Identity
	ready    bool
	sendErr  error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		cfg:   uciprotocol.DefaultConfig(),
		ready: true,
	}
}

func (f *fakeEngine) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// Calls returns the recorded calls.
func (f *fakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeEngine) Initialize(timeout time.Duration) error {
	f.record("Initialize(%v)", timeout)
	return nil
}

func (f *fakeEngine) Stop() { f.record("Stop()") }

func (f *fakeEngine) Send(cmd uciprotocol.Command) error {
	f.record("Send(%s)", cmd.Format())
	return f.sendErr
}

func (f *fakeEngine) WaitForReady(timeout time.Duration) bool {
	f.record("WaitForReady(%v)", timeout)
	return f.ready
}

func (f *fakeEngine) Identity() uciprotocol.Identity { return f.identity }

func (f *fakeEngine) Config() uciprotocol.Config { return f.cfg }

func (f *fakeEngine) NewGame() error {
	f.record("NewGame()")
	return nil
}

func (f *fakeEngine) SetStartPosition(moves []string) error {
	f.record("SetStartPosition(%s)", strings.Join(moves, " "))
	return nil
}

func (f *fakeEngine) SetPosition(fen string, moves []string) error {
	f.record("SetPosition(%s|%s)", fen, strings.Join(moves, " "))
	return nil
}

func (f *fakeEngine) GetBestMove(thinkTime time.Duration, depth int) error {
	f.record("GetBestMove(%v, %d)", thinkTime, depth)
	return nil
}

func (f *fakeEngine) GetBestMoveWithSearchMoves(thinkTime time.Duration, depth int, moves []string) error {
	f.record("GetBestMoveWithSearchMoves(%v, %d, %s)", thinkTime, depth, strings.Join(moves, " "))
	return nil
}

func (f *fakeEngine) Analyze() error {
	f.record("Analyze()")
	return nil
}

func (f *fakeEngine) StopSearch() error {
	f.record("StopSearch()")
	return nil
}

func (f *fakeEngine) SetMultiPV(count int) error {
	f.record("SetMultiPV(%d)", count)
	f.cfg.MultiPV = uciprotocol.ClampMultiPV(count)
	return nil
}

func (f *fakeEngine) SetSkillLevel(level int) error {
	f.record("SetSkillLevel(%d)", level)
	f.cfg.SkillLevel = uciprotocol.ClampSkillLevel(level)
	return nil
}

func (f *fakeEngine) SetDefaultThinkTime(d time.Duration) {
	f.record("SetDefaultThinkTime(%v)", d)
}

func (f *fakeEngine) SetVerboseInfo(on bool) {
	f.record("SetVerboseInfo(%t)", on)
}

func (f *fakeEngine) SetOption(name, value string) error {
	f.record("SetOption(%s=%s)", name, value)
	return nil
}
