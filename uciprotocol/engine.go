package uciprotocol

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed indicates the Engine was closed and can't be restarted.
var ErrClosed = errors.New("engine closed")

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records traffic and lifecycle counters.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine drives one external UCI engine process.
//
// Commands are written synchronously by the caller. Two goroutines per
// process drain stdout and stderr; stdout lines go through the protocol
// state machine, which updates the initialized/ready flags and queues
// events. Events reach the sink from a separate dispatch goroutine.
//
// Thread Safety:
// All methods are safe for concurrent use. Keeping one search in flight at a
// time (go ... bestmove, then the next go) is up to the caller.
type Engine struct {
	// lifecycle serialises Start, Stop and Close.
	lifecycle sync.Mutex

	// mu guards proc and cfg. Writes to stdin are serialised by the
	// process, never under mu.
	mu     sync.Mutex
	proc   *process
	cfg    Config
	closed bool

	initialized atomic.Bool
	ready       atomic.Bool

	// Read by the stdout reader without taking mu.
	verbose   atomic.Bool
	multiPV   atomic.Int32
	thinkTime atomic.Int64
	skill     atomic.Int32

	idMu     sync.RWMutex
	identity Identity

	parser  *ResponseParser
	events  *dispatcher
	logger  *slog.Logger
	metrics *Metrics
}

// NewEngine creates an Engine. No process is started until Start or
// Initialize. A nil sink discards events.
func NewEngine(cfg Config, sink EventSink, opts ...Option) *Engine {
	cfg = cfg.normalize()
	e := &Engine{
		cfg:    cfg,
		parser: NewResponseParser(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.verbose.Store(cfg.VerboseInfo)
	e.multiPV.Store(int32(cfg.MultiPV))
	e.thinkTime.Store(int64(cfg.DefaultThinkTime))
	e.skill.Store(int32(cfg.SkillLevel))
	e.events = newDispatcher(sink, e.metrics.eventEmitted)
	return e
}

// Start spawns the engine process and its stream readers.
func (e *Engine) Start() error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.proc != nil {
		e.logger.Warn("engine is already running")
		return ErrAlreadyRunning
	}

	path, err := e.resolvePathLocked()
	if err != nil {
		e.logger.Error("cannot start engine", "error", err)
		e.emitError(err.Error())
		return err
	}

	proc, err := startProcess(path, e.cfg.Args, e.cfg.Env, e.logger)
	if err != nil {
		e.logger.Error("failed to start engine", "error", err)
		e.emitError("failed to start engine: " + err.Error())
		return err
	}

	e.initialized.Store(false)
	e.ready.Store(false)
	e.idMu.Lock()
	e.identity = Identity{}
	e.idMu.Unlock()

	e.proc = proc
	proc.readers.Add(2)
	go e.readOutput(proc)
	go e.readErrors(proc)
	go e.monitor(proc)

	e.metrics.processStarted()
	proc.log.Info("engine process started")
	return nil
}

// resolvePathLocked returns the configured path, asking the resolver when
// none is set.
func (e *Engine) resolvePathLocked() (string, error) {
	if e.cfg.Path != "" {
		return e.cfg.Path, nil
	}
	if e.cfg.Resolver == nil {
		return "", &ConfigError{Message: "no executable configured", Cause: ErrNoEnginePath}
	}
	path, err := e.cfg.Resolver()
	if err != nil {
		return "", &ConfigError{Message: "resolving engine executable", Cause: err}
	}
	if path == "" {
		return "", &ConfigError{Message: "resolver returned no path", Cause: ErrNoEnginePath}
	}
	return path, nil
}

// monitor reaps the process. An exit nobody asked for resets the engine to
// "not running" and is reported as an error.
func (e *Engine) monitor(p *process) {
	p.wait()

	if p.stopping.Load() {
		return
	}

	e.mu.Lock()
	current := e.proc == p
	if current {
		e.proc = nil
		e.initialized.Store(false)
		e.ready.Store(false)
	}
	e.mu.Unlock()

	if current {
		e.metrics.processExited("unexpected")
		p.log.Warn("engine process exited unexpectedly", "status", p.exitStatus())
		e.emitError("engine process exited unexpectedly: " + p.exitStatus())
	}
}

// Stop shuts the engine down: quit, wait up to StopTimeout, then kill. It is
// a no-op when nothing is running. Afterwards the engine is neither
// initialized nor ready, and Start may be called again.
func (e *Engine) Stop() {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.mu.Lock()
	p := e.proc
	if p == nil {
		e.mu.Unlock()
		return
	}
	p.stopping.Store(true)
	timeout := e.cfg.StopTimeout
	e.mu.Unlock()

	// The timeout runs from here even if quit is stuck behind a full pipe.
	go p.quit()

	mode := "graceful"
	if p.waitExit(timeout) {
		p.log.Info("engine stopped gracefully")
	} else {
		mode = "forced"
		if err := p.kill(); err != nil {
			p.log.Error("error killing engine", "error", err)
		}
		if !p.waitExit(timeout) {
			p.closeOutputs()
			<-p.exited
		}
		p.log.Warn("engine process was forcefully terminated")
	}
	e.metrics.processExited(mode)

	e.mu.Lock()
	if e.proc == p {
		e.proc = nil
	}
	e.initialized.Store(false)
	e.ready.Store(false)
	e.mu.Unlock()
}

// Close stops the engine and the event dispatcher. Queued events are still
// delivered before Close returns.
func (e *Engine) Close() {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.stopLocked()

	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.events.close()
}

// Send writes cmd to the engine.
func (e *Engine) Send(cmd Command) error {
	return e.SendRaw(cmd.Format())
}

// SendRaw writes one command line to the engine and flushes it. The line must
// not contain a newline except at its very end.
func (e *Engine) SendRaw(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.ContainsAny(line, "\r\n") {
		return newInvalidValueError(line)
	}
	if len(line) > MaxLineLength {
		return ErrLineTooLong
	}

	e.mu.Lock()
	p := e.proc
	e.mu.Unlock()

	if p == nil || p.stopping.Load() {
		e.logger.Error("cannot send command - engine not running", "command", line)
		e.emitError(ErrNotRunning.Error())
		return ErrNotRunning
	}

	p.log.Debug(">>> " + line)
	if err := p.writeLine(line); err != nil {
		cerr := &CommunicationError{Command: line, Cause: err}
		p.log.Error("error sending command", "error", err)
		e.emitError(cerr.Error())
		return cerr
	}
	e.metrics.commandSent()
	return nil
}

// handleLine is the protocol state machine for one stdout line.
func (e *Engine) handleLine(agg *CandidateAggregator, line string) {
	resp := e.parser.Parse(line)

	switch resp.Type {
	case ResponseUCIOK:
		e.initialized.Store(true)
		e.logger.Debug("engine initialized (uciok received)")
		e.events.emit(Event{Type: EventEngineReady})

	case ResponseReadyOK:
		e.ready.Store(true)

	case ResponseBestMove:
		// A bestmove without a move leaves the collected lines in place.
		if resp.Move == "" {
			break
		}
		e.events.emit(Event{Type: EventBestMove, Move: resp.Move, Ponder: resp.Ponder})
		if cands := agg.CandidatesUpTo(int(e.multiPV.Load())); len(cands) > 0 {
			e.events.emit(Event{Type: EventCandidateList, Candidates: cands})
		}
		agg.Reset()

	case ResponseInfo:
		agg.Add(resp.Info)
		if e.verbose.Load() {
			e.events.emit(Event{Type: EventInfo, Line: resp.Line})
		}

	case ResponseID:
		e.idMu.Lock()
		switch resp.IDField {
		case "name":
			e.identity.Name = resp.IDValue
		case "author":
			e.identity.Author = resp.IDValue
		}
		e.idMu.Unlock()

	case ResponseOption:
		e.idMu.Lock()
		e.identity.Options = append(e.identity.Options, resp.Option)
		e.idMu.Unlock()
	}
}

func (e *Engine) emitError(message string) {
	e.events.emit(Event{Type: EventError, Message: message})
}

// Initialize starts the process if needed, sends uci and waits up to timeout
// for uciok. A non-positive timeout uses Config.InitTimeout. On timeout an
// InitializationFailed event is emitted and a *TimeoutError returned; the
// process is left running.
func (e *Engine) Initialize(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = e.config().InitTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return e.InitializeContext(ctx)
}

// InitializeContext is Initialize bounded by ctx instead of a timeout.
func (e *Engine) InitializeContext(ctx context.Context) error {
	if !e.IsRunning() {
		if err := e.Start(); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			return err
		}
	}

	started := time.Now()
	if err := e.Send(NewUCICommand()); err != nil {
		return err
	}

	if !pollFlag(ctx, &e.initialized) {
		terr := &TimeoutError{Waiting: RespUCIOK, After: time.Since(started).Round(time.Millisecond)}
		e.logger.Error("engine initialization timed out", "error", terr)
		e.events.emit(Event{Type: EventInitializationFailed, Message: "engine initialization timed out"})
		return terr
	}

	e.logger.Info("engine initialized", "name", e.Identity().Name)
	return e.applyOptions()
}

// applyOptions sends options configured before the process existed.
func (e *Engine) applyOptions() error {
	if n := int(e.multiPV.Load()); n > MinMultiPV {
		if err := e.Send(NewSetOptionCommand(OptMultiPV, strconv.Itoa(n))); err != nil {
			return err
		}
	}
	if lvl := int(e.skill.Load()); lvl >= 0 {
		if err := e.Send(NewSetOptionCommand(OptSkillLevel, strconv.Itoa(lvl))); err != nil {
			return err
		}
	}
	return nil
}

// WaitForReady clears the ready flag, sends isready and waits up to timeout
// for readyok. A non-positive timeout uses Config.ReadyTimeout. It returns
// the final state of the flag.
func (e *Engine) WaitForReady(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = e.config().ReadyTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return e.WaitForReadyContext(ctx)
}

// WaitForReadyContext is WaitForReady bounded by ctx.
func (e *Engine) WaitForReadyContext(ctx context.Context) bool {
	// Reset before the probe goes out so a stale readyok can't satisfy it.
	e.ready.Store(false)
	started := time.Now()
	if err := e.Send(NewIsReadyCommand()); err != nil {
		return false
	}
	if pollFlag(ctx, &e.ready) {
		return true
	}

	terr := &TimeoutError{Waiting: RespReadyOK, After: time.Since(started).Round(time.Millisecond)}
	e.logger.Warn("readiness wait timed out", "error", terr)
	e.emitError(terr.Error())
	return false
}

// pollFlag checks flag every PollInterval until it is set or ctx ends.
func pollFlag(ctx context.Context, flag *atomic.Bool) bool {
	if flag.Load() {
		return true
	}
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return flag.Load()
		case <-ticker.C:
			if flag.Load() {
				return true
			}
		}
	}
}

// IsRunning reports whether an engine process is alive.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.proc != nil
}

// IsInitialized reports whether uciok has been received since the last start.
func (e *Engine) IsInitialized() bool {
	return e.initialized.Load()
}

// IsReady reports whether the most recent readiness probe was answered.
func (e *Engine) IsReady() bool {
	return e.ready.Load()
}

// SessionID returns the id of the running process's session, or "".
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.proc == nil {
		return ""
	}
	return e.proc.session
}

// Identity returns the name, author and options the engine announced.
func (e *Engine) Identity() Identity {
	e.idMu.RLock()
	defer e.idMu.RUnlock()
	id := e.identity
	id.Options = append([]OptionSpec(nil), e.identity.Options...)
	return id
}

// Config returns a snapshot of the current configuration.
func (e *Engine) Config() Config {
	return e.config()
}

func (e *Engine) config() Config {
	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()

	cfg.VerboseInfo = e.verbose.Load()
	cfg.MultiPV = int(e.multiPV.Load())
	cfg.DefaultThinkTime = time.Duration(e.thinkTime.Load())
	cfg.SkillLevel = int(e.skill.Load())
	return cfg
}

// SetEnginePath changes the executable used by the next Start.
func (e *Engine) SetEnginePath(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Path = path
}

// SetDefaultThinkTime sets the movetime used when a request gives none.
// Values below one millisecond are ignored.
func (e *Engine) SetDefaultThinkTime(d time.Duration) {
	if d < time.Millisecond {
		return
	}
	e.thinkTime.Store(int64(d))
}

// SetVerboseInfo controls whether raw info lines reach the sink.
func (e *Engine) SetVerboseInfo(on bool) {
	e.verbose.Store(on)
}

// SetMultiPV sets the number of candidate lines (clamped to 1-500). The
// option is sent immediately when the engine runs, otherwise after the next
// handshake.
func (e *Engine) SetMultiPV(count int) error {
	count = ClampMultiPV(count)
	e.multiPV.Store(int32(count))
	if !e.IsRunning() {
		return nil
	}
	return e.Send(NewSetOptionCommand(OptMultiPV, strconv.Itoa(count)))
}

// SetSkillLevel sets the engine strength (clamped to 0-20). Like SetMultiPV
// it is deferred until the handshake when no process runs.
func (e *Engine) SetSkillLevel(level int) error {
	level = ClampSkillLevel(level)
	e.skill.Store(int32(level))
	if !e.IsRunning() {
		return nil
	}
	return e.Send(NewSetOptionCommand(OptSkillLevel, strconv.Itoa(level)))
}

// SetOption sends an arbitrary setoption command.
func (e *Engine) SetOption(name, value string) error {
	return e.Send(NewSetOptionCommand(name, value))
}

// NewGame resets the engine's game state.
func (e *Engine) NewGame() error {
	return e.Send(NewNewGameCommand())
}

// SetPosition sets an explicit position plus an optional move list.
func (e *Engine) SetPosition(fen string, moves []string) error {
	return e.Send(NewPositionFENCommand(fen, moves))
}

// SetStartPosition sets the starting position plus an optional move list.
func (e *Engine) SetStartPosition(moves []string) error {
	return e.Send(NewPositionStartCommand(moves))
}

// GetBestMove starts a search limited by thinkTime and depth. A thinkTime
// below one millisecond uses the default think time; depth <= 0 means no
// depth limit. The result arrives as BestMove (and CandidateList) events.
func (e *Engine) GetBestMove(thinkTime time.Duration, depth int) error {
	return e.Send(NewGoCommand(e.limits(thinkTime, depth)))
}

// GetBestMoveWithSearchMoves is GetBestMove restricted to moves.
func (e *Engine) GetBestMoveWithSearchMoves(thinkTime time.Duration, depth int, moves []string) error {
	return e.Send(NewGoSearchMovesCommand(e.limits(thinkTime, depth), moves))
}

// Analyze starts an unbounded search; end it with StopSearch.
func (e *Engine) Analyze() error {
	return e.Send(NewGoCommand(SearchLimits{}))
}

// StopSearch asks the engine to end the current search.
func (e *Engine) StopSearch() error {
	return e.Send(NewStopCommand())
}

func (e *Engine) limits(thinkTime time.Duration, depth int) SearchLimits {
	if thinkTime < time.Millisecond {
		thinkTime = time.Duration(e.thinkTime.Load())
	}
	return SearchLimits{MoveTime: thinkTime, Depth: max(depth, 0)}
}
