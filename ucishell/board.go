// =============================================================================
// board.go - Client-Side Game Tracking
// =============================================================================
//
// The engine is stateless between "position" commands: every search needs
// the full position resent. The board keeps the game on our side so users
// can type moves one at a time, in either notation:
//
//	.move e4 e5 Nf3      (standard algebraic)
//	.move e2e4 e7e5 g1f3 (UCI coordinates)
//
// Moves are checked for legality here, which the engine itself never does;
// raw "position" lines typed at the prompt bypass the board entirely.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"

	"github.com/chess3d/uciengine/uciprotocol"
	"github.com/notnil/chess"
)

// board tracks one game from either the standard start or a FEN.
type board struct {
	// startFEN is "" for the standard starting position.
	startFEN string
	game     *chess.Game
}

func newBoard() *board {
	return &board{game: chess.NewGame()}
}

// reset returns to the standard starting position.
func (b *board) reset() {
	b.startFEN = ""
	b.game = chess.NewGame()
}

// setFEN starts a new game from fen. The board is unchanged on error.
func (b *board) setFEN(fen string) error {
	opt, err := chess.FEN(fen)
	if err != nil {
		return fmt.Errorf("invalid FEN: %w", err)
	}
	b.startFEN = fen
	b.game = chess.NewGame(opt)
	return nil
}

// play applies one move given in UCI or algebraic notation and returns it
// in UCI notation.
//
// GO CONCEPT: Interface Values in a Slice
// ---------------------------------------
// chess.UCINotation and chess.AlgebraicNotation both satisfy the
// chess.Notation interface, so they can sit in one []chess.Notation and be
// tried in turn. The first decoder that accepts the text wins.
func (b *board) play(text string) (string, error) {
	if b.game.Outcome() != chess.NoOutcome {
		return "", fmt.Errorf("game is over (%s by %s)", b.game.Outcome(), b.game.Method())
	}

	pos := b.game.Position()
	for _, n := range []chess.Notation{chess.UCINotation{}, chess.AlgebraicNotation{}} {
		move, err := n.Decode(pos, text)
		if err != nil {
			continue
		}
		if err := b.game.Move(move); err != nil {
			return "", fmt.Errorf("illegal move %q: %w", text, err)
		}
		return chess.UCINotation{}.Encode(pos, move), nil
	}
	return "", fmt.Errorf("illegal or unrecognised move %q", text)
}

// undo takes back the last move by replaying the game without it.
func (b *board) undo() (string, error) {
	moves := b.moves()
	if len(moves) == 0 {
		return "", errors.New("no moves to undo")
	}
	last := moves[len(moves)-1]

	replay := newBoard()
	if b.startFEN != "" {
		if err := replay.setFEN(b.startFEN); err != nil {
			return "", err
		}
	}
	for _, m := range moves[:len(moves)-1] {
		if _, err := replay.play(m); err != nil {
			return "", err
		}
	}
	*b = *replay
	return last, nil
}

// moves returns the game's moves in UCI notation.
func (b *board) moves() []string {
	positions := b.game.Positions()
	played := b.game.Moves()
	out := make([]string, 0, len(played))
	for i, m := range played {
		out = append(out, chess.UCINotation{}.Encode(positions[i], m))
	}
	return out
}

// sanMoves returns the game's moves in algebraic notation.
func (b *board) sanMoves() []string {
	positions := b.game.Positions()
	played := b.game.Moves()
	out := make([]string, 0, len(played))
	for i, m := range played {
		out = append(out, chess.AlgebraicNotation{}.Encode(positions[i], m))
	}
	return out
}

// resolveMoves converts moves in either notation to UCI notation against
// the current position, without playing them. Used for searchmoves.
func (b *board) resolveMoves(texts []string) ([]string, error) {
	pos := b.game.Position()
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		var move *chess.Move
		for _, n := range []chess.Notation{chess.UCINotation{}, chess.AlgebraicNotation{}} {
			if m, err := n.Decode(pos, text); err == nil {
				move = m
				break
			}
		}
		if move == nil || !isValidMove(pos, move) {
			return nil, fmt.Errorf("illegal or unrecognised move %q", text)
		}
		out = append(out, chess.UCINotation{}.Encode(pos, move))
	}
	return out, nil
}

func isValidMove(pos *chess.Position, move *chess.Move) bool {
	for _, m := range pos.ValidMoves() {
		if m.S1() == move.S1() && m.S2() == move.S2() && m.Promo() == move.Promo() {
			return true
		}
	}
	return false
}

// positionCommand returns the command that sets the engine to this game.
func (b *board) positionCommand() uciprotocol.Command {
	if b.startFEN == "" {
		return uciprotocol.NewPositionStartCommand(b.moves())
	}
	return uciprotocol.NewPositionFENCommand(b.startFEN, b.moves())
}

// fen returns the current position.
func (b *board) fen() string {
	return b.game.Position().String()
}

// sideToMove returns "white" or "black".
func (b *board) sideToMove() string {
	if b.game.Position().Turn() == chess.White {
		return "white"
	}
	return "black"
}

// draw renders the board with the side to move and the game result.
func (b *board) draw() string {
	s := b.game.Position().Board().Draw()
	s += fmt.Sprintf("FEN: %s\n", b.fen())
	if out := b.game.Outcome(); out != chess.NoOutcome {
		s += fmt.Sprintf("Result: %s (%s)\n", out, b.game.Method())
	} else {
		s += fmt.Sprintf("%s to move\n", b.sideToMove())
	}
	return s
}
