package replay

import (
	"context"
	"testing"
	"time"

	"github.com/stonehall/stonehall-backend/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordGomokuMatch(t *testing.T, moves []engine.Position) (*Record, *engine.GomokuGame) {
	t.Helper()

	game, err := engine.NewGomokuGame(8)
	require.NoError(t, err)

	recorder := NewRecorder("gomoku", 8, "alice", "bob", "")
	recorder.SetInitialBoard(game.Board())

	for _, pos := range moves {
		player := game.CurrentPlayer()
		_, err = game.ExecuteMove(pos.Row, pos.Col)
		require.NoError(t, err)
		recorder.RecordMove(ActionMove, &engine.Position{Row: pos.Row, Col: pos.Col}, player, game.Board())
	}

	if game.IsOver() {
		recorder.Finalize(game.Winner(), game.Board())
	}
	return recorder.Export(), game
}

func TestRecorder(t *testing.T) {
	t.Run("Records moves with alternating players", func(t *testing.T) {
		record, _ := recordGomokuMatch(t, []engine.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 0, Col: 1}})

		require.Len(t, record.Moves, 3)
		assert.Equal(t, 1, record.Moves[0].MoveNumber)
		assert.Equal(t, "BLACK", record.Moves[0].Player)
		assert.Equal(t, "WHITE", record.Moves[1].Player)
		assert.Equal(t, 3, record.Metadata.TotalMoves)
	})

	t.Run("Stores keyframe snapshots at the interval", func(t *testing.T) {
		// Given: twelve recorded moves
		moves := make([]engine.Position, 0, 12)
		for i := 0; i < 12; i++ {
			moves = append(moves, engine.Position{Row: i / 4, Col: (i % 4) * 2})
		}
		record, _ := recordGomokuMatch(t, moves)

		// Then: only the tenth move carries a board snapshot
		for _, move := range record.Moves {
			if move.MoveNumber == SnapshotInterval {
				assert.NotEmpty(t, move.BoardSnapshot, "move %d", move.MoveNumber)
			} else {
				assert.Empty(t, move.BoardSnapshot, "move %d", move.MoveNumber)
			}
		}
	})

	t.Run("Finalize stamps result and final board", func(t *testing.T) {
		// Given: a match black wins with five in a row
		record, game := recordGomokuMatch(t, []engine.Position{
			{Row: 0, Col: 0}, {Row: 7, Col: 0}, {Row: 0, Col: 1}, {Row: 7, Col: 1}, {Row: 0, Col: 2}, {Row: 7, Col: 2}, {Row: 0, Col: 3}, {Row: 7, Col: 3}, {Row: 0, Col: 4},
		})
		require.True(t, game.IsOver())

		assert.Equal(t, ResultBlackWin, record.Metadata.Result)
		assert.NotEmpty(t, record.FinalBoard)
		assert.NotEmpty(t, record.Metadata.EndTime)
	})

	t.Run("DropLast removes an undone move", func(t *testing.T) {
		game, err := engine.NewGomokuGame(8)
		require.NoError(t, err)
		recorder := NewRecorder("gomoku", 8, "alice", "bob", "")

		_, err = game.ExecuteMove(0, 0)
		require.NoError(t, err)
		recorder.RecordMove(ActionMove, &engine.Position{Row: 0, Col: 0}, engine.Black, game.Board())
		recorder.DropLast()

		assert.Zero(t, recorder.TotalMoves())
		recorder.DropLast() // no-op on empty
		assert.Zero(t, recorder.TotalMoves())
	})
}

func TestController_Stepping(t *testing.T) {
	record, finalGame := recordGomokuMatch(t, []engine.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 0, Col: 1}, {Row: 2, Col: 2}})

	t.Run("Steps forward through every move", func(t *testing.T) {
		// Given: a loaded record at the initial position
		controller := NewController(engine.DefaultRegistry())
		require.NoError(t, controller.Load(record))
		assert.Equal(t, -1, controller.Index())
		assert.Equal(t, engine.Empty, controller.Board().Get(0, 0))

		// When: stepping to the end
		for i := 0; i < 4; i++ {
			move, err := controller.StepForward()
			require.NoError(t, err)
			assert.Equal(t, i+1, move.MoveNumber)
		}

		// Then: the board matches the live game's final board
		assert.Equal(t, finalGame.Board().Snapshot(), controller.Board().Snapshot())
		_, err := controller.StepForward()
		assert.ErrorIs(t, err, ErrAtEnd)
	})

	t.Run("Steps back to the exact previous position", func(t *testing.T) {
		controller := NewController(engine.DefaultRegistry())
		require.NoError(t, controller.Load(record))

		for i := 0; i < 3; i++ {
			_, err := controller.StepForward()
			require.NoError(t, err)
		}
		require.Equal(t, engine.Black, controller.Board().Get(0, 1))

		_, err := controller.StepBack()
		require.NoError(t, err)

		assert.Equal(t, 1, controller.Index())
		assert.Equal(t, engine.Empty, controller.Board().Get(0, 1))
		assert.Equal(t, engine.White, controller.Board().Get(1, 1))
	})

	t.Run("Stepping back at the start fails", func(t *testing.T) {
		controller := NewController(engine.DefaultRegistry())
		require.NoError(t, controller.Load(record))

		_, err := controller.StepBack()
		assert.ErrorIs(t, err, ErrAtStart)
	})

	t.Run("JumpTo seeks anywhere including the initial position", func(t *testing.T) {
		controller := NewController(engine.DefaultRegistry())
		require.NoError(t, controller.Load(record))

		require.NoError(t, controller.JumpTo(3))
		assert.Equal(t, engine.White, controller.Board().Get(2, 2))

		require.NoError(t, controller.JumpTo(-1))
		assert.Equal(t, engine.Empty, controller.Board().Get(0, 0))

		assert.ErrorIs(t, controller.JumpTo(4), ErrIndexOutside)
		assert.ErrorIs(t, controller.JumpTo(-2), ErrIndexOutside)
	})

	t.Run("Unloaded controller reports no record", func(t *testing.T) {
		controller := NewController(engine.DefaultRegistry())
		_, err := controller.StepForward()
		assert.ErrorIs(t, err, ErrNoRecord)
	})
}

func TestController_PassAndResignRecords(t *testing.T) {
	t.Run("Re-executes passes and resigns during playback", func(t *testing.T) {
		// Given: a go match with a pass and a resignation recorded
		game, err := engine.NewGoGame(9)
		require.NoError(t, err)
		recorder := NewRecorder("go", 9, "alice", "bob", "")
		recorder.SetInitialBoard(game.Board())

		player := game.CurrentPlayer()
		_, err = game.ExecuteMove(2, 2)
		require.NoError(t, err)
		recorder.RecordMove(ActionMove, &engine.Position{Row: 2, Col: 2}, player, game.Board())

		player = game.CurrentPlayer()
		_, err = game.ExecutePass()
		require.NoError(t, err)
		recorder.RecordMove(ActionPass, nil, player, game.Board())

		player = game.CurrentPlayer()
		_, err = game.ExecuteResign()
		require.NoError(t, err)
		recorder.RecordMove(ActionResign, nil, player, game.Board())
		recorder.Finalize(game.Winner(), game.Board())

		// When: replaying the full record
		controller := NewController(engine.DefaultRegistry())
		require.NoError(t, controller.Load(recorder.Export()))
		for i := 0; i < 3; i++ {
			_, err = controller.StepForward()
			require.NoError(t, err)
		}

		// Then: the replayed game reaches the same terminal board
		assert.Equal(t, game.Board().Snapshot(), controller.Board().Snapshot())
	})
}

func TestController_Play(t *testing.T) {
	t.Run("Auto-play walks the whole record and stops", func(t *testing.T) {
		record, _ := recordGomokuMatch(t, []engine.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 0, Col: 1}})
		controller := NewController(engine.DefaultRegistry())
		require.NoError(t, controller.Load(record))

		var seen []int
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := controller.Play(ctx, time.Millisecond, func(index int, _ *MoveRecord) {
			seen = append(seen, index)
		})

		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, seen)
	})
}
