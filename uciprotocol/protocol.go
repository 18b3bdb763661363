package uciprotocol

import "time"

// Commands sent to the engine.
const (
	CmdUCI        = "uci"
	CmdIsReady    = "isready"
	CmdUCINewGame = "ucinewgame"
	CmdPosition   = "position"
	CmdGo         = "go"
	CmdStop       = "stop"
	CmdPonderHit  = "ponderhit"
	CmdQuit       = "quit"
	CmdSetOption  = "setoption"
	CmdDebug      = "debug"
)

// Tokens found at the start of engine output lines.
const (
	RespUCIOK    = "uciok"
	RespReadyOK  = "readyok"
	RespBestMove = "bestmove"
	RespInfo     = "info"
	RespID       = "id"
	RespOption   = "option"
)

// Markers used inside position, go, bestmove and info lines.
const (
	TokenStartPos    = "startpos"
	TokenFEN         = "fen"
	TokenMoves       = "moves"
	TokenPonder      = "ponder"
	TokenMultiPV     = "multipv"
	TokenDepth       = "depth"
	TokenSelDepth    = "seldepth"
	TokenScore       = "score"
	TokenCentipawns  = "cp"
	TokenMate        = "mate"
	TokenPV          = "pv"
	TokenNodes       = "nodes"
	TokenNPS         = "nps"
	TokenTime        = "time"
	TokenName        = "name"
	TokenValue       = "value"
	TokenSearchMoves = "searchmoves"
)

// Parameters of the go command.
const (
	GoInfinite = "infinite"
	GoMoveTime = "movetime"
	GoDepth    = "depth"
	GoNodes    = "nodes"
	GoWTime    = "wtime"
	GoBTime    = "btime"
	GoWInc     = "winc"
	GoBInc     = "binc"
)

// Common engine option names.
const (
	OptSkillLevel = "Skill Level"
	OptThreads    = "Threads"
	OptHash       = "Hash"
	OptPonder     = "Ponder"
	OptMultiPV    = "MultiPV"
)

// Limits and timing.
const (
	// MaxLineLength is the largest engine output line the readers accept.
	// Long principal variations at high depth can run to a few kilobytes.
	MaxLineLength = 64 * 1024

	// PollInterval is how often the blocking waits re-check their flag.
	PollInterval = 50 * time.Millisecond

	// DefaultStopTimeout bounds the graceful shutdown after quit is sent.
	DefaultStopTimeout = 2 * time.Second

	// DefaultInitTimeout bounds the uci/uciok handshake.
	DefaultInitTimeout = 5 * time.Second

	// DefaultReadyTimeout bounds an isready/readyok probe.
	DefaultReadyTimeout = 5 * time.Second

	// DefaultThinkTime is the movetime used when a caller gives none.
	DefaultThinkTime = 1000 * time.Millisecond

	// MinMultiPV and MaxMultiPV clamp the candidate count.
	MinMultiPV = 1
	MaxMultiPV = 500

	// MinSkillLevel and MaxSkillLevel clamp the Skill Level option.
	MinSkillLevel = 0
	MaxSkillLevel = 20
)
