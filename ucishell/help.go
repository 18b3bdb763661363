// =============================================================================
// help.go - Help System
// =============================================================================
//
// ".help" prints the command overview; ".help <command>" prints detailed
// help for one dot-command or one raw UCI command. Topics live in two maps,
// one for shell commands and one for the protocol.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

// printHelp writes the overview, or the help text for topic.
//
// GO CONCEPT: Map Lookup with Comma-Ok Pattern
// --------------------------------------------
// Go map lookups return two values: (value, ok). If ok is false the key
// was absent and value is the zero value, so "" never needs to double as
// "not found".
func printHelp(w io.Writer, topic string) {
	if topic == "" {
		fmt.Fprint(w, helpOverview)
		return
	}

	// ".help .go" works the same as ".help go".
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(topic)), ".")

	if text, ok := commandHelp[helpAlias(key)]; ok {
		fmt.Fprintln(w, text)
		return
	}
	if text, ok := protocolHelp[key]; ok {
		fmt.Fprintln(w, text)
		return
	}
	fmt.Fprintf(w, "Error: No help for '%s'. Type .help to see available commands.\n", topic)
}

// helpAlias maps short command names to their help key.
func helpAlias(key string) string {
	switch key {
	case "m":
		return "move"
	case "q", "exit":
		return "quit"
	case "set":
		return "option"
	case "id":
		return "options"
	default:
		return key
	}
}

const helpOverview = `Game:
  .new                   Start a new game from the initial position
  .fen <fen>             Start a new game from a FEN position
  .move <m> [m...]       Play moves (e4, Nf3, e2e4, e7e8q)
  .undo                  Take back the last move
  .play                  Play the engine's last best move
  .moves                 Show the game so far
  .board                 Draw the board

Search:
  .go [time] [depth N]   Search and report the best move
  .search <m...> [time]  Search only the given moves
  .analyze               Search until .stop
  .stop                  Stop the current search

Engine:
  .multipv <n>           Number of candidate lines (1-500)
  .skill <n>             Playing strength (0-20)
  .think <time>          Default think time (500, 1.5s)
  .verbose on|off        Show raw info lines
  .option <name> = <v>   Set any engine option
  .options               List the engine's options
  .ready                 Ping the engine (isready)
  .restart               Restart the engine process

Other:
  .help [command]        Show help
  .quit                  Exit

Any other line is sent to the engine as a UCI command, e.g.
  position startpos moves e2e4
  go depth 12
`

// commandHelp contains detailed help for dot-commands. Keys are command
// names without the leading dot.
var commandHelp = map[string]string{
	"new": `  .new
    Send ucinewgame and reset the tracked game to the initial position.`,

	"fen": `  .fen <fen>
    Start the tracked game from an arbitrary position. All six FEN
    fields are expected.
    Example:
      .fen r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3`,

	"move": `  .move <move> [move...]
    Play one or more moves on the tracked game and update the engine's
    position. Moves may be algebraic (e4, Nf3, O-O, exd5, e8=Q) or UCI
    coordinates (e2e4, e1g1, e7e8q). Stops at the first illegal move.
    Alias: .m`,

	"undo": `  .undo
    Take back the last move of the tracked game.`,

	"play": `  .play
    Play the most recent best move reported by the engine.`,

	"moves": `  .moves
    Print the tracked game in numbered algebraic notation.`,

	"board": `  .board
    Draw the board, the FEN, whose move it is, and the position command
    the engine was given.`,

	"go": `  .go [time] [depth N]
    Start a search on the tracked position. Time is milliseconds or a
    duration (750, 2s); without it the default think time is used.
    Examples:
      .go
      .go 500
      .go 5s depth 20`,

	"search": `  .search <move...> [time] [depth N]
    Like .go, but only the listed moves are considered.
    Example:
      .search e4 d4 c4 1s`,

	"analyze": `  .analyze
    Start an unbounded search (go infinite). Info lines stream until
    .stop, which makes the engine report its best move.`,

	"stop": `  .stop
    Stop the current search.`,

	"multipv": `  .multipv <n>
    Ask the engine for n candidate lines (clamped to 1-500). With more
    than one line, a ranked candidate table follows each best move.`,

	"skill": `  .skill <n>
    Set the engine's Skill Level option (clamped to 0-20).`,

	"think": `  .think <time>
    Set the default think time used by .go without a time.`,

	"verbose": `  .verbose on|off
    Show or hide the raw info lines the engine prints while searching.`,

	"option": `  .option <name> = <value>
    Send setoption. Names may contain spaces.
    Examples:
      .option Threads = 4
      .option Skill Level = 10
    Alias: .set`,

	"options": `  .options
    List the engine's name, author and advertised options.
    Alias: .id`,

	"ready": `  .ready
    Send isready and wait for readyok.`,

	"restart": `  .restart
    Stop the engine process, start a new one, run the handshake, then
    resend the settings file options and the tracked position.`,

	"help": `  .help [command]
    Show the command overview, or detailed help for one command.`,

	"quit": `  .quit
    Stop the engine and exit. Aliases: .exit, .q`,
}

// protocolHelp describes the raw UCI commands that can be typed directly.
var protocolHelp = map[string]string{
	"uci": `  uci
    Start the handshake. The engine answers with id, option and uciok.`,

	"isready": `  isready
    Synchronise with the engine; it answers readyok.`,

	"ucinewgame": `  ucinewgame
    Tell the engine the next position is from a different game.`,

	"position": `  position startpos [moves m1 m2 ...]
  position fen <fen> [moves m1 m2 ...]
    Set the position to search. Raw position commands do not update the
    tracked game.`,

	"setoption": `  setoption name <name> [value <value>]
    Set an engine option.`,

	"debug": `  debug on|off
    Switch the engine's debug output.`,

	"ponderhit": `  ponderhit
    The opponent played the expected ponder move.`,
}
