package engine

import (
	"testing"

	"github.com/stonehall/stonehall-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAllGames(t *testing.T) map[string]Game {
	t.Helper()

	gomoku, err := NewGomokuGame(8)
	require.NoError(t, err)
	goGame, err := NewGoGame(8)
	require.NoError(t, err)
	othello, err := NewOthelloGame(8)
	require.NoError(t, err)

	return map[string]Game{"gomoku": gomoku, "go": goGame, "othello": othello}
}

func TestGame_InitialState(t *testing.T) {
	for name, game := range newAllGames(t) {
		t.Run(name+" starts in progress with black to move", func(t *testing.T) {
			assert.Equal(t, Black, game.CurrentPlayer())
			assert.Equal(t, Empty, game.Winner())
			assert.False(t, game.IsOver())
			assert.Zero(t, game.PassCount())
			assert.False(t, game.CanUndo())
		})
	}
}

func TestGame_ExecuteMovePreconditions(t *testing.T) {
	t.Run("Rejects out of range coordinates", func(t *testing.T) {
		for name, game := range newAllGames(t) {
			_, err := game.ExecuteMove(-1, 0)
			assert.ErrorIs(t, err, apperror.ErrOutOfRange, name)
			_, err = game.ExecuteMove(0, 8)
			assert.ErrorIs(t, err, apperror.ErrOutOfRange, name)
		}
	})

	t.Run("Rejects occupied cells", func(t *testing.T) {
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		_, err = game.ExecuteMove(3, 3)
		require.NoError(t, err)

		_, err = game.ExecuteMove(3, 3)
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Every variant rejects moves after the game ends", func(t *testing.T) {
		for name, game := range newAllGames(t) {
			// Given: a finished game, terminated by resignation
			_, err := game.ExecuteResign()
			require.NoError(t, err, name)
			require.True(t, game.IsOver(), name)

			// When/Then: any further move fails with the game-over error
			_, err = game.ExecuteMove(0, 0)
			assert.ErrorIs(t, err, apperror.ErrGameOver, name)
		}
	})
}

func TestGame_TurnSwitching(t *testing.T) {
	t.Run("Player switches exactly once per completed move", func(t *testing.T) {
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		_, err = game.ExecuteMove(0, 0)
		require.NoError(t, err)
		assert.Equal(t, White, game.CurrentPlayer())

		_, err = game.ExecuteMove(1, 1)
		require.NoError(t, err)
		assert.Equal(t, Black, game.CurrentPlayer())
	})
}

func TestGame_Resign(t *testing.T) {
	t.Run("Resigning awards the opponent", func(t *testing.T) {
		// Given: a fresh game with black to move
		game, err := NewGoGame(9)
		require.NoError(t, err)

		// When: the current player resigns
		record, err := game.ExecuteResign()
		require.NoError(t, err)

		// Then: white wins and the game is over
		assert.Equal(t, White, game.Winner())
		assert.True(t, game.IsOver())
		assert.Equal(t, Black, record.Player)
	})

	t.Run("Resigning twice fails", func(t *testing.T) {
		game, err := NewGoGame(9)
		require.NoError(t, err)

		_, err = game.ExecuteResign()
		require.NoError(t, err)

		_, err = game.ExecuteResign()
		assert.ErrorIs(t, err, apperror.ErrGameOver)
	})

	t.Run("Undo restores the pre-resign state", func(t *testing.T) {
		game, err := NewGoGame(9)
		require.NoError(t, err)
		pre := game.State()

		record, err := game.ExecuteResign()
		require.NoError(t, err)
		game.UndoResign(record)

		assert.Equal(t, pre, game.State())
		assert.False(t, game.IsOver())
	})
}

func TestGame_PassDefaults(t *testing.T) {
	t.Run("Gomoku does not support passing", func(t *testing.T) {
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		_, err = game.ExecutePass()
		assert.ErrorIs(t, err, apperror.ErrUnsupported)
	})
}

func TestGame_LegalMovesDefault(t *testing.T) {
	t.Run("Defaults to every empty cell", func(t *testing.T) {
		game, err := NewGomokuGame(5)
		require.NoError(t, err)

		assert.Len(t, game.LegalMoves(), 25)

		_, err = game.ExecuteMove(2, 2)
		require.NoError(t, err)
		assert.Len(t, game.LegalMoves(), 24)
	})

	t.Run("Empty once the game is over", func(t *testing.T) {
		game, err := NewGomokuGame(5)
		require.NoError(t, err)

		_, err = game.ExecuteResign()
		require.NoError(t, err)

		assert.Empty(t, game.LegalMoves())
	})

	t.Run("MustPass defaults to false", func(t *testing.T) {
		game, err := NewGoGame(5)
		require.NoError(t, err)
		assert.False(t, game.MustPass())
	})
}

func TestGame_MoveUndoRoundTrip(t *testing.T) {
	for name, game := range newAllGames(t) {
		t.Run(name+" undo restores board and state exactly", func(t *testing.T) {
			// Given: a pre-move snapshot of board and state
			preBoard := game.Board().Snapshot()
			preState := game.State()

			// When: executing a legal move and undoing it
			var row, col int
			if name == "othello" {
				row, col = 2, 3
			} else {
				row, col = 4, 4
			}
			delta, err := game.ExecuteMove(row, col)
			require.NoError(t, err)
			game.UndoMove(delta)

			// Then: everything matches the pre-move snapshot
			assert.Equal(t, preBoard, game.Board().Snapshot())
			assert.Equal(t, preState, game.State())
		})
	}
}

func TestGame_CloneIsolation(t *testing.T) {
	t.Run("Mutating a clone leaves the original untouched", func(t *testing.T) {
		for name, game := range newAllGames(t) {
			// Given: a game with one move played
			var row, col int
			if name == "othello" {
				row, col = 2, 3
			} else {
				row, col = 0, 0
			}
			_, err := game.ExecuteMove(row, col)
			require.NoError(t, err, name)

			preBoard := game.Board().Snapshot()
			preState := game.State()

			// When: cloning and playing on the clone
			clone := game.Clone()
			moves := clone.LegalMoves()
			require.NotEmpty(t, moves, name)
			_, err = clone.ExecuteMove(moves[0].Row, moves[0].Col)
			require.NoError(t, err, name)

			// Then: the original board and state are unchanged
			assert.Equal(t, preBoard, game.Board().Snapshot(), name)
			assert.Equal(t, preState, game.State(), name)
		}
	})

	t.Run("Undoing through a clone's history does not touch the original", func(t *testing.T) {
		game, err := NewGomokuGame(8)
		require.NoError(t, err)

		_, err = NewMoveCommand(game, 3, 3).Execute()
		require.NoError(t, err)

		clone := game.Clone()
		require.True(t, clone.CanUndo())

		_, err = clone.UndoLast()
		require.NoError(t, err)

		assert.Equal(t, Empty, clone.Board().Get(3, 3))
		assert.Equal(t, Black, game.Board().Get(3, 3))
		assert.True(t, game.CanUndo())
	})
}
