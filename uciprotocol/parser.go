package uciprotocol

import (
	"strconv"
	"strings"
	"time"
)

// CommandParser parses UCI command lines typed by a user back into Commands.
type CommandParser struct{}

// NewCommandParser creates a new command parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// Parse parses a command line into a Command.
func (p *CommandParser) Parse(line string) (Command, error) {
	commandLine := strings.TrimSpace(line)
	if len(commandLine) > MaxLineLength {
		return Command{}, ErrLineTooLong
	}

	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return Command{}, newInvalidCommandError("")
	}

	args := fields[1:]
	switch fields[0] {
	case CmdUCI:
		return NewUCICommand(), nil
	case CmdIsReady:
		return NewIsReadyCommand(), nil
	case CmdUCINewGame:
		return NewNewGameCommand(), nil
	case CmdStop:
		return NewStopCommand(), nil
	case CmdPonderHit:
		return NewPonderHitCommand(), nil
	case CmdQuit:
		return NewQuitCommand(), nil
	case CmdDebug:
		return p.parseDebug(args)
	case CmdPosition:
		return p.parsePosition(args)
	case CmdGo:
		return p.parseGo(args)
	case CmdSetOption:
		return p.parseSetOption(args)
	default:
		return Command{}, newInvalidCommandError(fields[0])
	}
}

func (p *CommandParser) parseDebug(args []string) (Command, error) {
	if len(args) == 0 {
		return NewDebugCommand(true), nil
	}
	switch args[0] {
	case "on":
		return NewDebugCommand(true), nil
	case "off":
		return NewDebugCommand(false), nil
	default:
		return Command{}, newInvalidValueError(args[0])
	}
}

// parsePosition handles "startpos [moves ...]" and "fen <fen> [moves ...]".
// A FEN has six space-separated fields, so everything up to the moves
// marker belongs to it.
func (p *CommandParser) parsePosition(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, newMissingArgumentError("position requires startpos or fen")
	}

	var moves []string
	rest := args[1:]
	for i, a := range rest {
		if a == TokenMoves {
			moves = append([]string(nil), rest[i+1:]...)
			rest = rest[:i]
			break
		}
	}

	switch args[0] {
	case TokenStartPos:
		return NewPositionStartCommand(moves), nil
	case TokenFEN:
		if len(rest) == 0 {
			return Command{}, newMissingArgumentError("position fen requires a FEN string")
		}
		return NewPositionFENCommand(strings.Join(rest, " "), moves), nil
	default:
		return Command{}, newInvalidValueError(args[0])
	}
}

func (p *CommandParser) parseGo(args []string) (Command, error) {
	var limits SearchLimits
	var searchMoves []string

	for i := 0; i < len(args); i++ {
		name := args[i]
		switch name {
		case GoInfinite:
			continue
		case TokenSearchMoves:
			searchMoves = append([]string(nil), args[i+1:]...)
			i = len(args)
			continue
		case TokenPonder:
			continue
		}

		if i+1 >= len(args) {
			return Command{}, newMissingArgumentError("go " + name + " requires a value")
		}
		n, err := strconv.ParseInt(args[i+1], 10, 64)
		if err != nil || n < 0 {
			return Command{}, newInvalidValueError(args[i+1])
		}
		i++

		ms := time.Duration(n) * time.Millisecond
		switch name {
		case GoMoveTime:
			limits.MoveTime = ms
		case GoDepth:
			limits.Depth = int(n)
		case GoNodes:
			limits.Nodes = n
		case GoWTime:
			limits.WTime = ms
		case GoBTime:
			limits.BTime = ms
		case GoWInc:
			limits.WInc = ms
		case GoBInc:
			limits.BInc = ms
		default:
			return Command{}, newInvalidValueError(name)
		}
	}

	if len(searchMoves) > 0 {
		return NewGoSearchMovesCommand(limits, searchMoves), nil
	}
	return NewGoCommand(limits), nil
}

// parseSetOption handles "name <Name...> value <value...>"; option names may
// contain spaces ("Skill Level").
func (p *CommandParser) parseSetOption(args []string) (Command, error) {
	if len(args) < 2 || args[0] != TokenName {
		return Command{}, newMissingArgumentError("setoption requires name <id> [value <x>]")
	}

	valueAt := -1
	for i := 1; i < len(args); i++ {
		if args[i] == TokenValue {
			valueAt = i
			break
		}
	}

	if valueAt < 0 {
		return NewSetOptionCommand(strings.Join(args[1:], " "), ""), nil
	}
	if valueAt == 1 {
		return Command{}, newMissingArgumentError("setoption name is empty")
	}
	return NewSetOptionCommand(strings.Join(args[1:valueAt], " "), strings.Join(args[valueAt+1:], " ")), nil
}

// ResponseParser classifies engine output lines.
type ResponseParser struct{}

// NewResponseParser creates a new response parser.
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// Parse classifies one line. The classes are mutually exclusive and checked
// from most to least specific; anything unrecognised is ResponseUnknown so
// protocol extensions pass through harmlessly.
func (p *ResponseParser) Parse(line string) Response {
	trimmed := strings.TrimSpace(line)
	resp := Response{Type: ResponseUnknown, Line: trimmed}

	switch {
	case trimmed == RespUCIOK:
		resp.Type = ResponseUCIOK
	case trimmed == RespReadyOK:
		resp.Type = ResponseReadyOK
	case hasToken(trimmed, RespBestMove):
		resp.Type = ResponseBestMove
		resp.Move = ParseBestMove(trimmed)
		resp.Ponder = ParsePonderMove(trimmed)
	case hasToken(trimmed, RespInfo):
		resp.Type = ResponseInfo
		resp.Info = ParseInfo(trimmed)
	case hasToken(trimmed, RespID):
		fields := strings.Fields(trimmed)
		if len(fields) >= 2 {
			resp.Type = ResponseID
			resp.IDField = fields[1]
			resp.IDValue = strings.Join(fields[2:], " ")
		}
	case hasToken(trimmed, RespOption):
		if opt, ok := parseOption(trimmed); ok {
			resp.Type = ResponseOption
			resp.Option = opt
		}
	}
	return resp
}

// hasToken reports whether line starts with the whole word tok.
func hasToken(line, tok string) bool {
	return line == tok || strings.HasPrefix(line, tok+" ")
}

// ParseBestMove extracts the move from a bestmove line.
// Example: "bestmove e2e4 ponder e7e5" -> "e2e4". Returns "" when absent.
func ParseBestMove(line string) string {
	if !hasToken(strings.TrimSpace(line), RespBestMove) {
		return ""
	}
	fields := strings.Fields(line)
	if len(fields) > 1 {
		return fields[1]
	}
	return ""
}

// ParsePonderMove extracts the ponder move from a bestmove line.
// Example: "bestmove e2e4 ponder e7e5" -> "e7e5". Returns "" when absent.
func ParsePonderMove(line string) string {
	if !hasToken(strings.TrimSpace(line), RespBestMove) {
		return ""
	}
	fields := strings.Fields(line)
	if len(fields) > 3 && fields[2] == TokenPonder {
		return fields[3]
	}
	return ""
}

var optionKeywords = map[string]bool{
	"name": true, "type": true, "default": true, "min": true, "max": true, "var": true,
}

func parseOption(line string) (OptionSpec, bool) {
	fields := strings.Fields(line)[1:]

	var opt OptionSpec
	key := ""
	var value []string
	flush := func() {
		v := strings.Join(value, " ")
		switch key {
		case "name":
			opt.Name = v
		case "type":
			opt.Type = v
		case "default":
			// Stockfish prints "default <empty>" for empty strings.
			if v != "<empty>" {
				opt.Default = v
			}
		case "min":
			opt.Min = v
		case "max":
			opt.Max = v
		case "var":
			opt.Vars = append(opt.Vars, v)
		}
		value = value[:0]
	}

	for _, f := range fields {
		if optionKeywords[f] {
			flush()
			key = f
			continue
		}
		value = append(value, f)
	}
	flush()

	return opt, opt.Name != ""
}
