package uciprotocol

import "time"

// PathResolver locates the engine executable for the current platform. It is
// supplied by the host and returns an error when the platform is unsupported
// or the binary is missing.
type PathResolver func() (string, error)

// Config holds the engine's process-wide settings. The zero value is usable
// but has no executable; DefaultConfig fills in the protocol defaults.
type Config struct {
	// Path is the engine executable. When empty, Resolver is consulted.
	Path string

	// Resolver is called by Start when Path is empty.
	Resolver PathResolver

	// Args and Env are passed to the engine process. Env entries are added
	// to the current environment.
	Args []string
	Env  []string

	// DefaultThinkTime is the movetime used when a search request gives
	// none. Values below one millisecond are raised to one millisecond.
	DefaultThinkTime time.Duration

	// VerboseInfo forwards raw info lines to the sink.
	VerboseInfo bool

	// MultiPV is the number of candidate lines requested, 1-500.
	MultiPV int

	// SkillLevel is sent after the handshake when set (0-20). Negative
	// means "leave the engine's default".
	SkillLevel int

	// StopTimeout bounds the graceful shutdown before the process is killed.
	StopTimeout time.Duration

	// InitTimeout and ReadyTimeout are the defaults for Initialize and
	// WaitForReady when callers pass a non-positive timeout.
	InitTimeout  time.Duration
	ReadyTimeout time.Duration
}

// DefaultConfig returns the protocol defaults with no executable set.
func DefaultConfig() Config {
	return Config{
		DefaultThinkTime: DefaultThinkTime,
		VerboseInfo:      true,
		MultiPV:          MinMultiPV,
		SkillLevel:       -1,
		StopTimeout:      DefaultStopTimeout,
		InitTimeout:      DefaultInitTimeout,
		ReadyTimeout:     DefaultReadyTimeout,
	}
}

// normalize applies floors and clamps.
func (c Config) normalize() Config {
	if c.DefaultThinkTime < time.Millisecond {
		c.DefaultThinkTime = time.Millisecond
	}
	c.MultiPV = ClampMultiPV(c.MultiPV)
	if c.SkillLevel >= 0 {
		c.SkillLevel = ClampSkillLevel(c.SkillLevel)
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	if c.InitTimeout <= 0 {
		c.InitTimeout = DefaultInitTimeout
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = DefaultReadyTimeout
	}
	return c
}

// ClampMultiPV limits a candidate count to 1-500.
func ClampMultiPV(n int) int {
	return clamp(n, MinMultiPV, MaxMultiPV)
}

// ClampSkillLevel limits a Skill Level value to 0-20.
func ClampSkillLevel(n int) int {
	return clamp(n, MinSkillLevel, MaxSkillLevel)
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
