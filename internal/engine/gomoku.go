package engine

import "fmt"

const (
	gomokuWinLength   = 5
	DefaultGomokuSize = 15
)

// GomokuGame wins by five contiguous same-color stones on any of the
// four axes. No captures, no passing.
type GomokuGame struct {
	*game
}

func NewGomokuGame(size int) (*GomokuGame, error) {
	if size == 0 {
		size = DefaultGomokuSize
	}
	core, err := newGame(size)
	if err != nil {
		return nil, err
	}
	gomoku := &GomokuGame{game: core}
	gomoku.game.rules = gomoku
	return gomoku, nil
}

func (that *GomokuGame) Name() string { return "Gomoku" }
func (that *GomokuGame) name() string { return that.Name() }

func (that *GomokuGame) applyMove(row, col int, player Stone, pre State) (*MoveDelta, error) {
	that.board.Set(row, col, player)
	return &MoveDelta{
		Row:      row,
		Col:      col,
		Player:   player,
		Message:  fmt.Sprintf("%s moves to (%d, %d).", player.Name(), row+1, col+1),
		PreState: pre,
	}, nil
}

func (that *GomokuGame) postMove(delta *MoveDelta) {
	if that.checkFiveInRow(delta.Row, delta.Col, delta.Player) {
		that.state.Winner = delta.Player
		that.state.IsOver = true
	} else if that.board.IsFull() {
		that.state.Winner = Empty
		that.state.IsOver = true
	}
}

func (that *GomokuGame) undoMove(delta *MoveDelta) {
	that.board.Set(delta.Row, delta.Col, Empty)
	that.state = delta.PreState
}

func (that *GomokuGame) Clone() Game {
	clone := &GomokuGame{game: that.game.cloneCore()}
	clone.game.rules = clone
	clone.game.retargetHistory(clone)
	return clone
}

func (that *GomokuGame) checkFiveInRow(row, col int, player Stone) bool {
	axes := [4]Position{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for _, axis := range axes {
		if that.countAxis(row, col, axis.Row, axis.Col, player) >= gomokuWinLength {
			return true
		}
	}
	return false
}

// countAxis counts the contiguous run through (row, col) along both
// directions of one axis, including the placed stone itself.
func (that *GomokuGame) countAxis(row, col, dr, dc int, player Stone) int {
	count := 1
	for r, c := row+dr, col+dc; that.board.IsOnBoard(r, c) && that.board.Get(r, c) == player; r, c = r+dr, c+dc {
		count++
	}
	for r, c := row-dr, col-dc; that.board.IsOnBoard(r, c) && that.board.Get(r, c) == player; r, c = r-dr, c-dc {
		count++
	}
	return count
}
