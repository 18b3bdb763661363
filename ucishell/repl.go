// =============================================================================
// repl.go - REPL Loop
// =============================================================================
//
// Reads a line, runs it, repeats. Dot-commands drive the engine through the
// uciprotocol API and keep the board in sync; any other line is parsed as a
// UCI command and sent verbatim, so everything the protocol offers stays
// reachable. Results are printed asynchronously by the printer.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chess3d/uciengine/uciprotocol"
)

// engineDriver is the part of *uciprotocol.Engine the shell uses.
//
// GO CONCEPT: Consumer-Side Interfaces
// ------------------------------------
// Go interfaces are usually declared by the code that USES them, listing
// only the methods it needs. *uciprotocol.Engine satisfies engineDriver
// without knowing it exists, and tests substitute a recording fake.
type engineDriver interface {
	Initialize(timeout time.Duration) error
	Stop()
	Send(cmd uciprotocol.Command) error
	WaitForReady(timeout time.Duration) bool
	Identity() uciprotocol.Identity
	Config() uciprotocol.Config

	NewGame() error
	SetStartPosition(moves []string) error
	SetPosition(fen string, moves []string) error
	GetBestMove(thinkTime time.Duration, depth int) error
	GetBestMoveWithSearchMoves(thinkTime time.Duration, depth int, moves []string) error
	Analyze() error
	StopSearch() error

	SetMultiPV(count int) error
	SetSkillLevel(level int) error
	SetDefaultThinkTime(d time.Duration)
	SetVerboseInfo(on bool)
	SetOption(name, value string) error
}

var _ engineDriver = (*uciprotocol.Engine)(nil)

// lineReader is satisfied by *LineEditor.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// errQuit ends the REPL.
var errQuit = errors.New("quit")

// shell holds the REPL state.
type shell struct {
	engine  engineDriver
	board   *board
	printer *printer
	parser  *uciprotocol.CommandParser
	out     io.Writer

	initTimeout  time.Duration
	readyTimeout time.Duration

	// options from the settings file, sent again after every restart.
	options map[string]string
}

func newShell(engine engineDriver, p *printer, out io.Writer) *shell {
	return &shell{
		engine:       engine,
		board:        newBoard(),
		printer:      p,
		parser:       uciprotocol.NewCommandParser(),
		out:          out,
		initTimeout:  uciprotocol.DefaultInitTimeout,
		readyTimeout: uciprotocol.DefaultReadyTimeout,
	}
}

// prompt shows whose move it is in the tracked game.
func (s *shell) prompt() string {
	return fmt.Sprintf("[%s] uci> ", s.board.sideToMove())
}

// runREPL reads and executes lines until EOF or .quit.
func runREPL(s *shell, in lineReader) {
	for {
		line, err := in.GetLine(s.prompt())
		if err != nil {
			// EOF (Ctrl-D) or error
			fmt.Fprintln(s.out)
			return
		}

		if err := s.execute(line); err != nil {
			if errors.Is(err, errQuit) {
				return
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// execute runs one input line. It returns errQuit when the user leaves.
func (s *shell) execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	if strings.HasPrefix(line, ".") {
		name, args := parseDotCommand(line)
		return s.runDotCommand(name, args)
	}
	return s.sendRaw(line)
}

// sendRaw validates a typed UCI line and sends it.
func (s *shell) sendRaw(line string) error {
	cmd, err := s.parser.Parse(line)
	if err != nil {
		return err
	}
	if cmd.Type == uciprotocol.CmdTypeQuit {
		return errors.New("use .quit to leave the shell or .restart to restart the engine")
	}
	return s.engine.Send(cmd)
}

func (s *shell) runDotCommand(name string, args []string) error {
	switch name {
	case "quit", "exit", "q":
		return errQuit

	case "help", "h", "?":
		printHelp(s.out, strings.Join(args, " "))
		return nil

	case "new":
		s.board.reset()
		if err := s.engine.NewGame(); err != nil {
			return err
		}
		return s.syncPosition()

	case "fen":
		if len(args) == 0 {
			return errors.New("usage: .fen <fen>")
		}
		if err := s.board.setFEN(strings.Join(args, " ")); err != nil {
			return err
		}
		return s.syncPosition()

	case "move", "m":
		return s.playMoves(args)

	case "play":
		best := s.printer.lastBestMove()
		if best == "" {
			return errors.New("no best move yet; run .go first")
		}
		return s.playMoves([]string{best})

	case "undo":
		move, err := s.board.undo()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Took back %s\n", move)
		return s.syncPosition()

	case "moves":
		fmt.Fprintln(s.out, formatMoveList(s.board.sanMoves()))
		return nil

	case "board":
		fmt.Fprint(s.out, s.board.draw())
		fmt.Fprintf(s.out, "Engine: %s\n", s.board.positionCommand())
		return nil

	case "go":
		thinkTime, depth, err := parseGoArgs(args)
		if err != nil {
			return err
		}
		return s.engine.GetBestMove(thinkTime, depth)

	case "search":
		texts, thinkTime, depth, err := parseSearchArgs(args)
		if err != nil {
			return err
		}
		moves, err := s.board.resolveMoves(texts)
		if err != nil {
			return err
		}
		return s.engine.GetBestMoveWithSearchMoves(thinkTime, depth, moves)

	case "analyze":
		return s.engine.Analyze()

	case "stop":
		return s.engine.StopSearch()

	case "multipv":
		n, err := parseCount(name, args)
		if err != nil {
			return err
		}
		if err := s.engine.SetMultiPV(n); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "MultiPV set to %d\n", s.engine.Config().MultiPV)
		return nil

	case "skill":
		n, err := parseCount(name, args)
		if err != nil {
			return err
		}
		if err := s.engine.SetSkillLevel(n); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Skill Level set to %d\n", s.engine.Config().SkillLevel)
		return nil

	case "think":
		if len(args) != 1 {
			return errors.New("usage: .think <time>")
		}
		d, err := parseThinkTime(args[0])
		if err != nil {
			return err
		}
		s.engine.SetDefaultThinkTime(d)
		fmt.Fprintf(s.out, "Default think time set to %v\n", d)
		return nil

	case "verbose":
		if len(args) != 1 {
			return errors.New("usage: .verbose on|off")
		}
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		s.engine.SetVerboseInfo(on)
		s.printer.setQuiet(!on)
		return nil

	case "ready":
		if s.engine.WaitForReady(s.readyTimeout) {
			fmt.Fprintln(s.out, "Engine is ready")
			return nil
		}
		return fmt.Errorf("engine did not answer isready within %v", s.readyTimeout)

	case "option", "set":
		optName, value, err := parseOptionAssignment(args)
		if err != nil {
			return err
		}
		return s.engine.SetOption(optName, value)

	case "options", "id":
		fmt.Fprint(s.out, formatIdentity(s.engine.Identity()))
		return nil

	case "restart":
		s.engine.Stop()
		if err := s.engine.Initialize(s.initTimeout); err != nil {
			return err
		}
		if err := applyEngineOptions(s.engine, s.options); err != nil {
			return err
		}
		return s.syncPosition()

	case "":
		return errors.New("empty command; type .help")

	default:
		return fmt.Errorf("unknown command: .%s (type .help)", name)
	}
}

// playMoves applies moves to the board and updates the engine once. Moves
// before a bad one stay played.
func (s *shell) playMoves(texts []string) error {
	if len(texts) == 0 {
		return errors.New("usage: .move <move> [move...]")
	}
	var playErr error
	played := 0
	for _, text := range texts {
		if _, err := s.board.play(text); err != nil {
			playErr = err
			break
		}
		played++
	}
	if played > 0 {
		if err := s.syncPosition(); err != nil {
			return err
		}
	}
	return playErr
}

// syncPosition sends the board's game to the engine.
func (s *shell) syncPosition() error {
	if s.board.startFEN == "" {
		return s.engine.SetStartPosition(s.board.moves())
	}
	return s.engine.SetPosition(s.board.startFEN, s.board.moves())
}

// formatMoveList numbers SAN moves: "1. e4 e5 2. Nf3".
func formatMoveList(san []string) string {
	if len(san) == 0 {
		return "(no moves)"
	}
	var b strings.Builder
	for i, m := range san {
		if i%2 == 0 {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%d. ", i/2+1)
		} else {
			b.WriteString(" ")
		}
		b.WriteString(m)
	}
	return b.String()
}

// formatIdentity lists the engine's name and advertised options.
func formatIdentity(id uciprotocol.Identity) string {
	var b strings.Builder
	name := id.Name
	if name == "" {
		name = "(unknown engine)"
	}
	fmt.Fprintf(&b, "%s", name)
	if id.Author != "" {
		fmt.Fprintf(&b, " by %s", id.Author)
	}
	b.WriteString("\n")

	for _, o := range id.Options {
		fmt.Fprintf(&b, "  %-24s %-7s", o.Name, o.Type)
		if o.Default != "" {
			fmt.Fprintf(&b, " default %s", o.Default)
		}
		if o.Min != "" || o.Max != "" {
			fmt.Fprintf(&b, " [%s..%s]", o.Min, o.Max)
		}
		if len(o.Vars) > 0 {
			fmt.Fprintf(&b, " {%s}", strings.Join(o.Vars, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
