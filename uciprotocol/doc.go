// Package uciprotocol drives an external chess engine over the Universal
// Chess Interface (UCI), the line-based text protocol spoken by engines such
// as Stockfish.
//
// # Protocol Overview
//
// The engine is a child process. Commands go to its stdin, one per line;
// everything it prints on stdout is a response line. There is no framing
// beyond the newline and no request/response pairing: the engine writes
// whenever it likes, and the client recognises the few tokens it cares about.
//
//	Request (client -> engine):  <command> [arguments...]\n
//	Response (engine -> client): <token> [fields...]\n
//
// Example Session:
//
//	CLI: uci
//	ENG: id name Stockfish 16
//	ENG: option name MultiPV type spin default 1 min 1 max 500
//	ENG: uciok
//	CLI: isready
//	ENG: readyok
//	CLI: position startpos moves e2e4
//	CLI: go movetime 500
//	ENG: info depth 12 multipv 1 score cp 35 pv e7e5 g1f3
//	ENG: bestmove e7e5 ponder g1f3
//
// # Basic Usage
//
// Create an engine with a sink for its events and run the handshake:
//
//	cfg := uciprotocol.DefaultConfig()
//	cfg.Path = "/usr/local/bin/stockfish"
//
//	eng := uciprotocol.NewEngine(cfg, uciprotocol.EventHandler(func(ev uciprotocol.Event) {
//	    switch ev.Type {
//	    case uciprotocol.EventBestMove:
//	        fmt.Println("best:", ev.Move, "ponder:", ev.Ponder)
//	    case uciprotocol.EventCandidateList:
//	        for _, c := range ev.Candidates {
//	            fmt.Println(c.Rank, c.Move, c.ScoreKind, c.Score)
//	        }
//	    case uciprotocol.EventError:
//	        fmt.Println("engine error:", ev.Message)
//	    }
//	}))
//	defer eng.Close()
//
//	if err := eng.Initialize(5 * time.Second); err != nil {
//	    log.Fatal(err)
//	}
//	eng.SetStartPosition([]string{"e2e4"})
//	eng.GetBestMove(500*time.Millisecond, 0)
//
// Requests never block for the engine's answer. Results arrive later as
// events, delivered in order from a single dispatch goroutine, so a sink may
// call back into the Engine.
//
// # Candidate Lines
//
// With MultiPV above one the engine reports several principal variations.
// Every info line carrying a multipv rank, a score and a pv is recorded by
// rank, later lines overwriting earlier ones. When bestmove arrives the
// collected candidates are emitted once, ranked, and the record is cleared.
//
// # Parsing Commands
//
// CommandParser turns typed UCI text back into a Command, which is how the
// ucishell REPL validates raw lines before sending them:
//
//	cmd, err := uciprotocol.NewCommandParser().Parse("go movetime 250 depth 12")
//
// # Thread Safety
//
// Engine is safe for concurrent use from multiple goroutines.
package uciprotocol
