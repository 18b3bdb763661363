package uciprotocol

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the UCI driver.
var (
	// ErrNotRunning indicates a command was sent with no engine process alive.
	ErrNotRunning = errors.New("engine not running")

	// ErrAlreadyRunning indicates Start was called while a process is alive.
	ErrAlreadyRunning = errors.New("engine already running")

	// ErrNoEnginePath indicates no executable path was configured or resolved.
	ErrNoEnginePath = errors.New("engine executable path not set")

	// ErrTimeout indicates a handshake or readiness wait ran out of time.
	ErrTimeout = errors.New("timed out")

	// ErrLineTooLong indicates a command line exceeded MaxLineLength.
	ErrLineTooLong = errors.New("line too long")
)

// ConfigError reports a missing or unusable engine configuration. It is
// fatal to the Start attempt that produced it only.
type ConfigError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ProcessError reports a failure to spawn or wire up the engine process.
type ProcessError struct {
	Path  string
	Op    string // "pipe", "start"
	Cause error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	return fmt.Sprintf("engine process %s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// CommunicationError reports a failed write to the engine's input.
type CommunicationError struct {
	Command string
	Cause   error
}

// Error implements the error interface.
func (e *CommunicationError) Error() string {
	return fmt.Sprintf("sending %q: %v", e.Command, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CommunicationError) Unwrap() error {
	return e.Cause
}

// StreamError reports an unexpected read failure on one of the engine's
// output streams. The reader that hit it has stopped.
type StreamError struct {
	Stream string // "stdout" or "stderr"
	Cause  error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("reading engine %s: %v", e.Stream, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StreamError) Unwrap() error {
	return e.Cause
}

// TimeoutError reports a protocol wait that exceeded its bound. The engine
// process may still be alive.
type TimeoutError struct {
	Waiting string // "uciok" or "readyok"
	After   time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no %s after %v", e.Waiting, e.After)
}

// Unwrap makes errors.Is(err, ErrTimeout) hold.
func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// ParseError represents an error that occurred while parsing a command line.
type ParseError struct {
	Kind    ParseErrorKind
	Value   string // The invalid value that caused the error
	Message string // Additional context
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindInvalidCommand indicates an unknown or empty command verb.
	ErrKindInvalidCommand ParseErrorKind = iota
	// ErrKindInvalidValue indicates a malformed numeric argument.
	ErrKindInvalidValue
	// ErrKindMissingArgument indicates a required argument was not provided.
	ErrKindMissingArgument
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindInvalidCommand:
		return fmt.Sprintf("invalid command '%s'", e.Value)
	case ErrKindInvalidValue:
		return fmt.Sprintf("invalid value '%s'", e.Value)
	case ErrKindMissingArgument:
		return e.Message
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

func newInvalidCommandError(cmd string) error {
	return &ParseError{Kind: ErrKindInvalidCommand, Value: cmd}
}

func newInvalidValueError(val string) error {
	return &ParseError{Kind: ErrKindInvalidValue, Value: val}
}

func newMissingArgumentError(msg string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Message: msg}
}
