package engine

import (
	"fmt"

	"github.com/stonehall/stonehall-backend/internal/apperror"
)

const DefaultOthelloSize = 8

// directions covers all eight rays around a cell.
var directions = [8]Position{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// OthelloGame implements Reversi: a move must bracket at least one run
// of opponent stones, a player without legal moves is forced to pass,
// and two forced passes in a row end the game on raw stone count.
type OthelloGame struct {
	*game
}

// NewOthelloGame - builds the conventional center cross at mid = size/2.
// A zero size selects the standard 8x8 board.
func NewOthelloGame(size int) (*OthelloGame, error) {
	if size == 0 {
		size = DefaultOthelloSize
	}
	core, err := newGame(size)
	if err != nil {
		return nil, err
	}

	othello := &OthelloGame{game: core}
	othello.game.rules = othello

	mid := size / 2
	othello.board.Set(mid-1, mid-1, White)
	othello.board.Set(mid-1, mid, Black)
	othello.board.Set(mid, mid-1, Black)
	othello.board.Set(mid, mid, White)

	return othello, nil
}

func (that *OthelloGame) Name() string { return "Othello" }
func (that *OthelloGame) name() string { return that.Name() }

// IsLegalMove reports whether the cell is empty, in bounds and flips at
// least one opponent stone in some direction.
func (that *OthelloGame) IsLegalMove(row, col int, player Stone) bool {
	if !that.board.IsOnBoard(row, col) || !that.board.IsEmpty(row, col) {
		return false
	}
	opponent := player.Opposite()
	for _, d := range directions {
		if that.canFlip(row, col, d.Row, d.Col, player, opponent) {
			return true
		}
	}
	return false
}

// canFlip checks one ray: a contiguous run of opponent stones must be
// closed by a same-color stone before an empty cell or the board edge.
func (that *OthelloGame) canFlip(row, col, dr, dc int, player, opponent Stone) bool {
	foundOpponent := false
	for r, c := row+dr, col+dc; that.board.IsOnBoard(r, c); r, c = r+dr, c+dc {
		switch that.board.Get(r, c) {
		case opponent:
			foundOpponent = true
		case player:
			return foundOpponent
		default:
			return false
		}
	}
	return false
}

func (that *OthelloGame) flipsAlong(row, col, dr, dc int, player, opponent Stone) []Position {
	var flips []Position
	for r, c := row+dr, col+dc; that.board.IsOnBoard(r, c); r, c = r+dr, c+dc {
		switch that.board.Get(r, c) {
		case opponent:
			flips = append(flips, Position{Row: r, Col: c})
		case player:
			return flips
		default:
			return nil
		}
	}
	return nil
}

// ExecuteMove replaces the shared lifecycle's occupancy check with the
// flip-legality gate, and resolves forced passes inline: if the opponent
// has no reply the turn bounces back, and if the mover is also stuck the
// game ends on score without consuming two explicit passes.
func (that *OthelloGame) ExecuteMove(row, col int) (*MoveDelta, error) {
	if that.state.IsOver {
		return nil, apperror.ErrGameOver
	}
	if !that.board.IsOnBoard(row, col) {
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfRange, row, col)
	}
	if !that.IsLegalMove(row, col, that.state.CurrentPlayer) {
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrIllegalMove, row, col)
	}

	pre := that.state
	delta, err := that.applyMove(row, col, that.state.CurrentPlayer, pre)
	if err != nil {
		return nil, err
	}

	that.postMove(delta)
	if !that.state.IsOver {
		that.switchPlayer()
		if that.MustPass() {
			that.switchPlayer()
			if that.MustPass() {
				that.finalizeScore()
			}
		}
	}
	return delta, nil
}

func (that *OthelloGame) applyMove(row, col int, player Stone, pre State) (*MoveDelta, error) {
	opponent := player.Opposite()
	var flipped []CapturedStone

	that.board.Set(row, col, player)
	for _, d := range directions {
		for _, pos := range that.flipsAlong(row, col, d.Row, d.Col, player, opponent) {
			that.board.Set(pos.Row, pos.Col, player)
			flipped = append(flipped, CapturedStone{Row: pos.Row, Col: pos.Col, Stone: opponent})
		}
	}

	message := fmt.Sprintf("%s moves to (%d, %d), flipped %d stones.", player.Name(), row+1, col+1, len(flipped))
	return &MoveDelta{
		Row:      row,
		Col:      col,
		Player:   player,
		Captured: flipped,
		Message:  message,
		PreState: pre,
	}, nil
}

func (that *OthelloGame) postMove(delta *MoveDelta) {
	that.state.PassCount = 0
	if that.board.IsFull() {
		that.finalizeScore()
	}
}

func (that *OthelloGame) undoMove(delta *MoveDelta) {
	that.board.Set(delta.Row, delta.Col, Empty)
	for _, c := range delta.Captured {
		that.board.Set(c.Row, c.Col, c.Stone)
	}
	that.state = delta.PreState
}

// ExecutePass is only legal when the current player has no move.
func (that *OthelloGame) ExecutePass() (*PassRecord, error) {
	if that.state.IsOver {
		return nil, apperror.ErrGameOver
	}
	if !that.MustPass() {
		return nil, apperror.ErrIllegalState
	}

	record := &PassRecord{
		Player:   that.state.CurrentPlayer,
		Message:  fmt.Sprintf("%s has no legal moves, passes.", that.state.CurrentPlayer.Name()),
		PreState: that.state,
	}
	that.state.PassCount++
	that.switchPlayer()

	if that.MustPass() {
		that.finalizeScore()
	}
	return record, nil
}

func (that *OthelloGame) LegalMoves() []Position {
	if that.state.IsOver {
		return nil
	}
	var moves []Position
	for r := 0; r < that.board.Size(); r++ {
		for c := 0; c < that.board.Size(); c++ {
			if that.IsLegalMove(r, c, that.state.CurrentPlayer) {
				moves = append(moves, Position{Row: r, Col: c})
			}
		}
	}
	return moves
}

func (that *OthelloGame) MustPass() bool {
	return !that.state.IsOver && len(that.LegalMoves()) == 0
}

func (that *OthelloGame) Clone() Game {
	clone := &OthelloGame{game: that.game.cloneCore()}
	clone.game.rules = clone
	clone.game.retargetHistory(clone)
	return clone
}

func (that *OthelloGame) finalizeScore() {
	black := that.board.CountStones(Black)
	white := that.board.CountStones(White)
	switch {
	case black > white:
		that.state.Winner = Black
	case white > black:
		that.state.Winner = White
	default:
		that.state.Winner = Empty
	}
	that.state.IsOver = true
}
