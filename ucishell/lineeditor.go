// =============================================================================
// lineeditor.go - Line Editing for the REPL
// =============================================================================
//
// Interactive terminals get readline editing: arrow keys, Ctrl-R history
// search, and history persisted across sessions. Pipes, scripts and Emacs
// comint buffers get a plain bufio.Scanner so input like
//
//	printf '.go 500\n.quit\n' | ucishell
//
// works unchanged.
//
// History is stored at ~/.ucishell_history.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the name of the history file in the home directory.
	historyFileName = ".ucishell_history"

	// historySize is the maximum number of history entries to keep.
	historySize = 1000
)

// LineEditor reads REPL input in one of two modes.
//
// GO CONCEPT: Struct Fields with Mixed Visibility
// -----------------------------------------------
// All fields are lowercase, so only code in package main can touch them;
// GetLine and Close are the whole API. Exactly one of rl and scanner is
// set, decided once in NewLineEditor.
type LineEditor struct {
	interactive bool
	rl          *readline.Instance
	scanner     *bufio.Scanner
	out         io.Writer
}

// NewLineEditor inspects stdin and picks the interactive or plain mode.
// INSIDE_EMACS forces plain mode because comint does its own editing.
func NewLineEditor() *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newPlainEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  historyPath(),
		HistoryLimit: historySize,
		// Lines are saved explicitly so blank input stays out of history.
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPlainEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
		out:         os.Stdout,
	}
}

func newPlainEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(in),
		out:         out,
	}
}

// historyPath returns the history file location, or "" to disable history
// when no home directory is known.
func historyPath() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

// GetLine shows prompt and reads one line without its trailing newline.
// Ctrl-D and Ctrl-C both return io.EOF, ending the REPL.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close restores the terminal. It is safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline editing is active.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
