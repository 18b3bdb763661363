// =============================================================================
// main.go - ucishell Entry Point
// =============================================================================
//
// ucishell is an interactive front end for UCI chess engines. It starts an
// engine process, runs the UCI handshake, and gives you a REPL that tracks
// a game, starts searches and prints best moves and ranked candidate lines
// as the engine reports them.
//
// Usage:
//
//	ucishell                            Find Stockfish and start the REPL
//	ucishell --engine /path/to/engine   Use a specific engine binary
//	ucishell --multipv 3 --skill 10     Three candidate lines, reduced strength
//	ucishell --metrics :9090            Serve Prometheus metrics
//	ucishell --help                     Show help
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/chess3d/uciengine/uciprotocol"
)

const (
	// version is the current version of ucishell.
	version = "0.3.0"

	// appName is the application name.
	appName = "ucishell"
)

// fullTitle returns the application name and version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner returns the text printed when the REPL starts.
func welcomeBanner() string {
	return fmt.Sprintf(`%s - UCI chess engine shell

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle())
}

// =============================================================================
// Argument Parsing
// =============================================================================

// arguments holds the parsed command-line flags. Zero values mean "not
// given on the command line" so the settings file can fill them in.
type arguments struct {
	enginePath  string
	configPath  string
	multiPV     int
	skill       int // -1 when not given
	moveTime    time.Duration
	quiet       bool
	debug       bool
	metricsAddr string
	showHelp    bool
	showVersion bool
}

// parseArguments parses argv (without the program name).
//
// GO CONCEPT: Consuming a Slice from the Front
// --------------------------------------------
// "for len(remaining) > 0" is Go's while loop. Each flag takes
// remaining[0] and re-slices; flags with a value take one more element.
// Re-slicing never copies the underlying array.
func parseArguments(argv []string) (arguments, error) {
	args := arguments{skill: -1}
	remaining := argv

	value := func(flag string) (string, error) {
		if len(remaining) == 0 {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	}
	intValue := func(flag string) (int, error) {
		v, err := value(flag)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid number %q", flag, v)
		}
		return n, nil
	}

	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		var err error
		switch arg {
		case "--engine", "-e":
			args.enginePath, err = value(arg)

		case "--config", "-c":
			args.configPath, err = value(arg)

		case "--multipv":
			args.multiPV, err = intValue(arg)
			if err == nil && args.multiPV < 1 {
				err = fmt.Errorf("--multipv must be at least 1")
			}

		case "--skill":
			args.skill, err = intValue(arg)
			if err == nil && args.skill < 0 {
				err = fmt.Errorf("--skill must be between 0 and 20")
			}

		case "--movetime", "-t":
			var v string
			if v, err = value(arg); err == nil {
				args.moveTime, err = parseThinkTime(v)
			}

		case "--metrics":
			args.metricsAddr, err = value(arg)

		case "--quiet", "-q":
			args.quiet = true

		case "--debug":
			args.debug = true

		case "--help", "-h":
			args.showHelp = true

		case "--version", "-v":
			args.showVersion = true

		default:
			err = fmt.Errorf("unknown argument: %s", arg)
		}

		if err != nil {
			return args, err
		}
	}

	return args, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `USAGE: ucishell [options]

OPTIONS:
  --engine, -e <path>     Engine executable (default: search, see below)
  --config, -c <file>     Settings file, .yaml or .toml
                          (default: ~/.config/ucishell/config.yaml if present)
  --multipv <n>           Candidate lines per search (1-500)
  --skill <n>             Engine Skill Level (0-20)
  --movetime, -t <time>   Default think time (500, 1.5s)
  --quiet, -q             Hide raw info lines
  --debug                 Log protocol traffic to stderr
  --metrics <addr>        Serve Prometheus metrics on addr (e.g. :9090)
  --help, -h              Show this help
  --version, -v           Show version

ENGINE SEARCH:
  Without --engine, ucishell looks for stockfish-linux, stockfish-macos or
  stockfish-windows.exe next to itself and in engines/chess/, then for
  "stockfish" on PATH.

EXAMPLES:
  ucishell
  ucishell --engine /usr/games/stockfish --multipv 3
  printf '.move e4 e5\n.go 1s\n' | ucishell --quiet
`)
}

func printVersion() {
	fmt.Println(fullTitle())
}

// printError prints an error message to stderr with a consistent prefix.
func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// =============================================================================
// Configuration
// =============================================================================

// buildConfig merges flags over settings over the library defaults.
func buildConfig(args arguments, s settings) (uciprotocol.Config, error) {
	cfg := uciprotocol.DefaultConfig()
	cfg.Args = s.Args

	switch {
	case args.enginePath != "":
		cfg.Path = args.enginePath
	case s.Engine != "":
		cfg.Path = s.Engine
	default:
		cfg.Resolver = findEngineExecutable
	}

	if s.MultiPV > 0 {
		cfg.MultiPV = s.MultiPV
	}
	if args.multiPV > 0 {
		cfg.MultiPV = args.multiPV
	}

	if s.Skill != nil {
		cfg.SkillLevel = *s.Skill
	}
	if args.skill >= 0 {
		cfg.SkillLevel = args.skill
	}

	fileMoveTime, err := s.moveTime()
	if err != nil {
		return cfg, err
	}
	if fileMoveTime > 0 {
		cfg.DefaultThinkTime = fileMoveTime
	}
	if args.moveTime > 0 {
		cfg.DefaultThinkTime = args.moveTime
	}

	if s.Verbose != nil {
		cfg.VerboseInfo = *s.Verbose
	}
	if args.quiet {
		cfg.VerboseInfo = false
	}
	return cfg, nil
}

// newLogger returns a text logger on w. Only errors are shown unless debug
// is set, since engine events are already printed by the REPL.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelError
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// applyEngineOptions sends the settings file's options in name order.
func applyEngineOptions(engine engineDriver, options map[string]string) error {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := engine.SetOption(name, options[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// Signal Handling
// =============================================================================

// setupSignalHandler runs cleanup and exits on SIGINT or SIGTERM, so the
// engine child process is never left behind.
//
// GO CONCEPT: Signal Handling with Channels
// -----------------------------------------
// signal.Notify delivers signals on a channel instead of killing the
// process. The channel must be buffered: the runtime does not block when
// sending, so an unbuffered channel could miss a signal.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

// =============================================================================
// Main
// =============================================================================

func main() {
	args, err := parseArguments(os.Args[1:])
	if err != nil {
		printError(err.Error())
		printUsage(os.Stderr)
		os.Exit(2)
	}

	if args.showHelp {
		printUsage(os.Stdout)
		return
	}
	if args.showVersion {
		printVersion()
		return
	}

	settingsPath, optional := args.configPath, false
	if settingsPath == "" {
		settingsPath, optional = defaultSettingsPath(), true
	}
	s, err := loadSettings(settingsPath, optional)
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	cfg, err := buildConfig(args, s)
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, args.debug)
	opts := []uciprotocol.Option{uciprotocol.WithLogger(logger)}

	metricsAddr := args.metricsAddr
	if metricsAddr == "" {
		metricsAddr = s.Metrics
	}
	var metricsSrv *metricsServer
	if metricsAddr != "" {
		reg, m, err := newMetricsRegistry()
		if err != nil {
			printError(fmt.Sprintf("metrics: %v", err))
			os.Exit(1)
		}
		metricsSrv, err = startMetricsServer(metricsAddr, reg, logger)
		if err != nil {
			printError(fmt.Sprintf("metrics: %v", err))
			os.Exit(1)
		}
		opts = append(opts, uciprotocol.WithMetrics(m))
		fmt.Printf("Metrics on http://%s/metrics\n", metricsSrv.addr)
	}

	editor := NewLineEditor()
	p := newPrinter(os.Stdout)
	p.setQuiet(!cfg.VerboseInfo)
	engine := uciprotocol.NewEngine(cfg, p, opts...)

	// Signals and the normal exit path both end here; whichever runs first
	// does the work.
	cleanup := sync.OnceFunc(func() {
		engine.Close()
		editor.Close()
		metricsSrv.close()
	})
	setupSignalHandler(cleanup)

	fmt.Print(welcomeBanner())
	fmt.Println()

	if err := engine.Initialize(cfg.InitTimeout); err != nil {
		cleanup()
		printError(fmt.Sprintf("engine failed to start: %v", err))
		os.Exit(1)
	}
	id := engine.Identity()
	fmt.Printf("Connected to %s\n", id.Name)

	if err := applyEngineOptions(engine, s.Options); err != nil {
		printError(err.Error())
	}

	sh := newShell(engine, p, os.Stdout)
	sh.initTimeout = cfg.InitTimeout
	sh.readyTimeout = cfg.ReadyTimeout
	sh.options = s.Options
	if err := sh.execute(".new"); err != nil {
		printError(err.Error())
	}

	runREPL(sh, editor)

	cleanup()
}
