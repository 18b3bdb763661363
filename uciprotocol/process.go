package uciprotocol

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// process is one running engine instance and the three pipes it owns.
type process struct {
	cmd     *exec.Cmd
	session string
	log     *slog.Logger

	// wmu serialises writes to stdin. It is separate from the Engine's
	// state lock so a write the engine never reads cannot stall Stop.
	wmu         sync.Mutex
	stdin       io.WriteCloser
	writer      *bufio.Writer
	inputClosed bool

	stdout io.ReadCloser
	stderr io.ReadCloser

	// readers counts the live stream readers; cmd.Wait runs only after both
	// have hit EOF so no buffered output is lost.
	readers sync.WaitGroup

	// stopping is set by Stop so the exit monitor knows the exit was asked for.
	stopping atomic.Bool

	exited  chan struct{}
	exitErr error
}

// startProcess spawns path with all three standard streams piped.
func startProcess(path string, args, env []string, logger *slog.Logger) (*process, error) {
	cmd := exec.Command(path, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	// Track created pipes for cleanup on error
	var created []io.Closer
	cleanup := func() {
		for _, c := range created {
			_ = c.Close()
		}
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &ProcessError{Path: path, Op: "pipe", Cause: err}
	}
	created = append(created, stdin)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cleanup()
		return nil, &ProcessError{Path: path, Op: "pipe", Cause: err}
	}
	created = append(created, stdout)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		cleanup()
		return nil, &ProcessError{Path: path, Op: "pipe", Cause: err}
	}
	created = append(created, stderr)

	if err := cmd.Start(); err != nil {
		cleanup()
		return nil, &ProcessError{Path: path, Op: "start", Cause: err}
	}

	session := uuid.NewString()
	return &process{
		cmd:     cmd,
		session: session,
		log:     logger.With("session", session, "engine", path, "pid", cmd.Process.Pid),
		stdin:   stdin,
		writer:  bufio.NewWriter(stdin),
		stdout:  stdout,
		stderr:  stderr,
		exited:  make(chan struct{}),
	}, nil
}

// writeLine writes one command line and flushes it. It blocks while the
// engine is not draining its input; killing the process unblocks it.
func (p *process) writeLine(line string) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	if p.inputClosed {
		return os.ErrClosed
	}
	return p.writeLocked(line)
}

func (p *process) writeLocked(line string) error {
	if _, err := p.writer.WriteString(line + "\n"); err != nil {
		return err
	}
	return p.writer.Flush()
}

// quit sends quit and closes stdin. Run it on its own goroutine: it queues
// behind any write that is still blocked.
func (p *process) quit() {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	if p.inputClosed {
		return
	}
	if err := p.writeLocked(CmdQuit); err != nil {
		p.log.Debug("quit not delivered", "error", err)
	}
	p.inputClosed = true
	_ = p.stdin.Close()
}

// wait reaps the process once both readers are done and closes exited.
func (p *process) wait() {
	p.readers.Wait()
	p.exitErr = p.cmd.Wait()
	close(p.exited)
}

// waitExit blocks until the process has been reaped or d elapses.
func (p *process) waitExit(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.exited:
		return true
	case <-timer.C:
		return false
	}
}

// kill forcibly terminates the process.
func (p *process) kill() error {
	return p.cmd.Process.Kill()
}

// closeOutputs unblocks readers stuck on pipes kept open by grandchildren.
func (p *process) closeOutputs() {
	_ = p.stdout.Close()
	_ = p.stderr.Close()
}

// exitStatus describes how the process ended.
func (p *process) exitStatus() string {
	if p.exitErr != nil {
		return p.exitErr.Error()
	}
	if p.cmd.ProcessState != nil {
		return p.cmd.ProcessState.String()
	}
	return "exited"
}
