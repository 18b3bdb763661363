// =============================================================================
// translate.go - Argument Parsing for Dot-Commands
// =============================================================================
//
// Lines starting with "." are shell commands; everything else is UCI text
// sent to the engine after validation. This file turns the arguments of
// dot-commands into values the engine API takes:
//
//	.go                  search with the default think time
//	.go 500              500 ms (bare numbers are milliseconds)
//	.go 2s depth 18      2 seconds or depth 18, whichever ends first
//	.search e4 d4 1s     search only 1.e4 and 1.d4
//	.option Skill Level = 5
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chess3d/uciengine/uciprotocol"
)

// parseDotCommand splits ".name arg1 arg2" into a lower-case name and args.
func parseDotCommand(line string) (string, []string) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "."))
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// parseThinkTime accepts a bare millisecond count or a Go duration.
//
// GO CONCEPT: time.ParseDuration
// ------------------------------
// ParseDuration understands strings like "300ms", "1.5s" or "2m". It
// rejects bare numbers ("500") because the unit is ambiguous, which is why
// the strconv.Atoi attempt comes first.
func parseThinkTime(s string) (time.Duration, error) {
	var d time.Duration
	if ms, err := strconv.Atoi(s); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else if parsed, err := time.ParseDuration(s); err == nil {
		d = parsed
	} else {
		return 0, fmt.Errorf("invalid think time %q (use milliseconds or a duration like 1.5s)", s)
	}
	if d < time.Millisecond {
		return 0, fmt.Errorf("think time %q must be at least 1ms", s)
	}
	return d, nil
}

// parseGoArgs reads "[time] [depth N]" in any order. Zero values mean
// "use the default" and "no depth limit".
func parseGoArgs(args []string) (time.Duration, int, error) {
	var thinkTime time.Duration
	depth := 0

	for i := 0; i < len(args); i++ {
		if strings.EqualFold(args[i], uciprotocol.GoDepth) {
			if i+1 >= len(args) {
				return 0, 0, errors.New("depth requires a number")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n <= 0 {
				return 0, 0, fmt.Errorf("invalid depth %q", args[i+1])
			}
			depth = n
			i++
			continue
		}

		d, err := parseThinkTime(args[i])
		if err != nil {
			return 0, 0, err
		}
		thinkTime = d
	}
	return thinkTime, depth, nil
}

// parseSearchArgs reads "move... [time] [depth N]": moves come first and end
// at the first argument that is a time or the depth keyword.
func parseSearchArgs(args []string) ([]string, time.Duration, int, error) {
	split := len(args)
	for i, a := range args {
		if strings.EqualFold(a, uciprotocol.GoDepth) {
			split = i
			break
		}
		if _, err := parseThinkTime(a); err == nil {
			split = i
			break
		}
	}

	moves := args[:split]
	if len(moves) == 0 {
		return nil, 0, 0, errors.New("search requires at least one move")
	}
	thinkTime, depth, err := parseGoArgs(args[split:])
	if err != nil {
		return nil, 0, 0, err
	}
	return moves, thinkTime, depth, nil
}

// parseOptionAssignment reads "Name With Spaces = value".
func parseOptionAssignment(args []string) (string, string, error) {
	text := strings.Join(args, " ")
	name, value, found := strings.Cut(text, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", "", errors.New("usage: .option <name> = <value>")
	}
	return name, strings.TrimSpace(value), nil
}

// parseOnOff reads on/off style switches.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

// parseCount reads a positive-or-zero integer argument for name.
func parseCount(name string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: .%s <number>", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[0])
	}
	return n, nil
}
