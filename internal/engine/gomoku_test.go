package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playGomoku alternates black onto the win line and white onto a
// parking row far from it.
func playGomoku(t *testing.T, game *GomokuGame, blackMoves []Position, whiteMoves []Position) {
	t.Helper()
	for i, black := range blackMoves {
		_, err := game.ExecuteMove(black.Row, black.Col)
		require.NoError(t, err)
		if game.IsOver() {
			return
		}
		white := whiteMoves[i]
		_, err = game.ExecuteMove(white.Row, white.Col)
		require.NoError(t, err)
	}
}

func TestGomoku_WinDetection(t *testing.T) {
	t.Run("Five in a horizontal row wins", func(t *testing.T) {
		// Given: black building (0,0)..(0,4) with white elsewhere
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		playGomoku(t, game,
			[]Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}},
			[]Position{{7, 0}, {7, 1}, {7, 2}, {7, 3}, {7, 4}},
		)

		// Then: the fifth stone ends the game with black as winner
		assert.True(t, game.IsOver())
		assert.Equal(t, Black, game.Winner())
	})

	t.Run("Five in a vertical row wins", func(t *testing.T) {
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		playGomoku(t, game,
			[]Position{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}},
			[]Position{{0, 7}, {1, 7}, {2, 7}, {3, 7}, {4, 7}},
		)

		assert.True(t, game.IsOver())
		assert.Equal(t, Black, game.Winner())
	})

	t.Run("Five on a diagonal wins", func(t *testing.T) {
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		playGomoku(t, game,
			[]Position{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}},
			[]Position{{0, 7}, {1, 7}, {2, 7}, {3, 7}, {4, 7}},
		)

		assert.True(t, game.IsOver())
		assert.Equal(t, Black, game.Winner())
	})

	t.Run("Five on the anti-diagonal wins", func(t *testing.T) {
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		playGomoku(t, game,
			[]Position{{0, 4}, {1, 3}, {2, 2}, {3, 1}, {4, 0}},
			[]Position{{0, 7}, {1, 7}, {2, 7}, {3, 7}, {4, 7}},
		)

		assert.True(t, game.IsOver())
		assert.Equal(t, Black, game.Winner())
	})

	t.Run("Winning stone placed in the middle of the run still wins", func(t *testing.T) {
		// Given: black holds (0,0),(0,1),(0,3),(0,4) with the gap at (0,2)
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		playGomoku(t, game,
			[]Position{{0, 0}, {0, 1}, {0, 3}, {0, 4}},
			[]Position{{7, 0}, {7, 1}, {7, 2}, {7, 3}},
		)
		require.False(t, game.IsOver())

		// When: black fills the gap
		_, err = game.ExecuteMove(0, 2)
		require.NoError(t, err)

		// Then: the run is detected across both directions of the axis
		assert.True(t, game.IsOver())
		assert.Equal(t, Black, game.Winner())
	})

	t.Run("Four in a row does not end the game", func(t *testing.T) {
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		playGomoku(t, game,
			[]Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
			[]Position{{7, 0}, {7, 1}, {7, 2}, {7, 3}},
		)

		assert.False(t, game.IsOver())
		assert.Equal(t, Empty, game.Winner())
	})
}

func TestGomoku_Draw(t *testing.T) {
	t.Run("Full board without five in a row is a draw", func(t *testing.T) {
		// Given: a 4x4 board, too small for any five-run
		game, err := NewGomokuGame(4)
		require.NoError(t, err)

		// When: filling every cell
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				_, err = game.ExecuteMove(r, c)
				require.NoError(t, err)
			}
		}

		// Then: the game ends with no winner
		assert.True(t, game.IsOver())
		assert.Equal(t, Empty, game.Winner())
	})
}

func TestGomoku_Undo(t *testing.T) {
	t.Run("Undoing the winning move reopens the game", func(t *testing.T) {
		// Given: a won game
		game, err := NewGomokuGame(8)
		require.NoError(t, err)
		playGomoku(t, game,
			[]Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
			[]Position{{7, 0}, {7, 1}, {7, 2}, {7, 3}},
		)
		preState := game.State()

		delta, err := game.ExecuteMove(0, 4)
		require.NoError(t, err)
		require.True(t, game.IsOver())

		// When: undoing the winning move
		game.UndoMove(delta)

		// Then: the game is running again with black to move
		assert.False(t, game.IsOver())
		assert.Equal(t, Empty, game.Winner())
		assert.Equal(t, Empty, game.Board().Get(0, 4))
		assert.Equal(t, preState, game.State())
	})
}
