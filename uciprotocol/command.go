package uciprotocol

import (
	"strconv"
	"strings"
	"time"
)

// CommandType represents the type of UCI command.
type CommandType int

const (
	// Handshake and synchronisation
	CmdTypeUCI CommandType = iota
	CmdTypeIsReady
	CmdTypeDebug

	// Game setup
	CmdTypeNewGame
	CmdTypePositionStart
	CmdTypePositionFEN
	CmdTypeSetOption

	// Search control
	CmdTypeGo
	CmdTypeStop
	CmdTypePonderHit

	// Session
	CmdTypeQuit
)

// SearchLimits bounds a search. Zero fields are omitted from the go command;
// when every field is zero the search is unbounded (go infinite) and runs
// until a stop command.
type SearchLimits struct {
	MoveTime time.Duration
	Depth    int
	Nodes    int64

	// Clock state for tournament-style searches.
	WTime, BTime time.Duration
	WInc, BInc   time.Duration
}

// IsUnbounded reports whether no limit is set.
func (l SearchLimits) IsUnbounded() bool {
	return l.MoveTime.Milliseconds() <= 0 && l.Depth <= 0 && l.Nodes <= 0 &&
		l.WTime.Milliseconds() <= 0 && l.BTime.Milliseconds() <= 0 &&
		l.WInc.Milliseconds() <= 0 && l.BInc.Milliseconds() <= 0
}

// Command represents one UCI command line. Use the constructor functions
// (NewUCICommand, NewGoCommand, etc.) to create Command instances.
type Command struct {
	Type CommandType

	// Fields used by various commands (only relevant fields are populated)
	FEN         string       // For positionFEN
	Moves       []string     // For position commands
	Limits      SearchLimits // For go
	SearchMoves []string     // For go searchmoves
	Name        string       // For setoption
	Value       string       // For setoption
	On          bool         // For debug
}

// NewUCICommand creates the handshake-start command.
func NewUCICommand() Command {
	return Command{Type: CmdTypeUCI}
}

// NewIsReadyCommand creates the readiness probe.
func NewIsReadyCommand() Command {
	return Command{Type: CmdTypeIsReady}
}

// NewDebugCommand switches the engine's debug mode.
func NewDebugCommand(on bool) Command {
	return Command{Type: CmdTypeDebug, On: on}
}

// NewNewGameCommand creates the ucinewgame reset.
func NewNewGameCommand() Command {
	return Command{Type: CmdTypeNewGame}
}

// NewPositionStartCommand sets up the standard starting position followed
// by an optional move list.
func NewPositionStartCommand(moves []string) Command {
	return Command{Type: CmdTypePositionStart, Moves: moves}
}

// NewPositionFENCommand sets up an explicit position followed by an optional
// move list. The FEN is passed through verbatim.
func NewPositionFENCommand(fen string, moves []string) Command {
	return Command{Type: CmdTypePositionFEN, FEN: fen, Moves: moves}
}

// NewSetOptionCommand assigns an engine option.
func NewSetOptionCommand(name, value string) Command {
	return Command{Type: CmdTypeSetOption, Name: name, Value: value}
}

// NewGoCommand starts a search bounded by limits.
func NewGoCommand(limits SearchLimits) Command {
	return Command{Type: CmdTypeGo, Limits: limits}
}

// NewGoSearchMovesCommand starts a search restricted to the given moves.
func NewGoSearchMovesCommand(limits SearchLimits, moves []string) Command {
	return Command{Type: CmdTypeGo, Limits: limits, SearchMoves: moves}
}

// NewStopCommand stops the current search; the engine answers with bestmove.
func NewStopCommand() Command {
	return Command{Type: CmdTypeStop}
}

// NewPonderHitCommand tells a pondering engine the expected move was played.
func NewPonderHitCommand() Command {
	return Command{Type: CmdTypePonderHit}
}

// NewQuitCommand asks the engine to exit.
func NewQuitCommand() Command {
	return Command{Type: CmdTypeQuit}
}

// Format returns the command formatted for transmission over the protocol.
// This does not include the trailing newline.
func (c Command) Format() string {
	switch c.Type {
	case CmdTypeUCI:
		return CmdUCI
	case CmdTypeIsReady:
		return CmdIsReady
	case CmdTypeDebug:
		if c.On {
			return CmdDebug + " on"
		}
		return CmdDebug + " off"
	case CmdTypeNewGame:
		return CmdUCINewGame
	case CmdTypePositionStart:
		return withMoves(CmdPosition+" "+TokenStartPos, c.Moves)
	case CmdTypePositionFEN:
		return withMoves(CmdPosition+" "+TokenFEN+" "+c.FEN, c.Moves)
	case CmdTypeSetOption:
		return CmdSetOption + " " + TokenName + " " + c.Name + " " + TokenValue + " " + c.Value
	case CmdTypeGo:
		return formatGo(c.Limits, c.SearchMoves)
	case CmdTypeStop:
		return CmdStop
	case CmdTypePonderHit:
		return CmdPonderHit
	case CmdTypeQuit:
		return CmdQuit
	default:
		return ""
	}
}

// FormatLine returns the command formatted as a complete protocol line.
func (c Command) FormatLine() string {
	return c.Format() + "\n"
}

// String implements fmt.Stringer.
func (c Command) String() string {
	return c.Format()
}

func withMoves(prefix string, moves []string) string {
	if len(moves) == 0 {
		return prefix
	}
	return prefix + " " + TokenMoves + " " + strings.Join(moves, " ")
}

func formatGo(l SearchLimits, searchMoves []string) string {
	var b strings.Builder
	b.WriteString(CmdGo)

	appendInt := func(name string, v int64) {
		if v > 0 {
			b.WriteString(" ")
			b.WriteString(name)
			b.WriteString(" ")
			b.WriteString(strconv.FormatInt(v, 10))
		}
	}
	appendInt(GoMoveTime, l.MoveTime.Milliseconds())
	appendInt(GoDepth, int64(l.Depth))
	appendInt(GoNodes, l.Nodes)
	appendInt(GoWTime, l.WTime.Milliseconds())
	appendInt(GoBTime, l.BTime.Milliseconds())
	appendInt(GoWInc, l.WInc.Milliseconds())
	appendInt(GoBInc, l.BInc.Milliseconds())

	if l.IsUnbounded() {
		b.WriteString(" ")
		b.WriteString(GoInfinite)
	}

	if len(searchMoves) > 0 {
		b.WriteString(" ")
		b.WriteString(TokenSearchMoves)
		b.WriteString(" ")
		b.WriteString(strings.Join(searchMoves, " "))
	}
	return b.String()
}
