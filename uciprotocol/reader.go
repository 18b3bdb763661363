package uciprotocol

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

const (
	streamStdout = "stdout"
	streamStderr = "stderr"
)

// newLineScanner returns a scanner that accepts lines up to MaxLineLength.
func newLineScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), MaxLineLength)
	return s
}

// isShutdownErr reports whether err only means the stream went away.
func isShutdownErr(err error) bool {
	return err == nil || errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed)
}

// readOutput drains the engine's stdout into the protocol state machine. It
// owns the candidate aggregator for this process, so no other goroutine
// touches per-search state.
func (e *Engine) readOutput(p *process) {
	defer p.readers.Done()

	agg := NewCandidateAggregator()
	scanner := newLineScanner(p.stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e.metrics.lineRead(streamStdout)
		p.log.Debug("<<< " + line)
		e.handleLine(agg, line)
	}

	if err := scanner.Err(); !isShutdownErr(err) {
		serr := &StreamError{Stream: streamStdout, Cause: err}
		p.log.Error("stdout reader stopped", "error", err)
		e.emitError(serr.Error())
	}
}

// readErrors forwards every stderr line to the sink as an error, unparsed.
func (e *Engine) readErrors(p *process) {
	defer p.readers.Done()

	scanner := newLineScanner(p.stderr)
	for scanner.Scan() {
		line := scanner.Text()
		e.metrics.lineRead(streamStderr)
		p.log.Warn("engine stderr", "line", line)
		e.emitError(line)
	}

	if err := scanner.Err(); !isShutdownErr(err) {
		serr := &StreamError{Stream: streamStderr, Cause: err}
		p.log.Error("stderr reader stopped", "error", err)
		e.emitError(serr.Error())
	}
}
