package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stonehall/stonehall-backend/internal/engine"
)

func TestBotService_StrategyFor(t *testing.T) {
	bots := NewBotService()

	t.Run("Level one is random for every game type", func(t *testing.T) {
		for _, gameType := range []string{"gomoku", "go", "othello"} {
			assert.Equal(t, "Random", bots.StrategyFor(gameType, DifficultyEasy).Name(), gameType)
		}
	})

	t.Run("Level two picks the per-game evaluator", func(t *testing.T) {
		assert.Equal(t, "OthelloEval", bots.StrategyFor("othello", DifficultyMedium).Name())
		assert.Equal(t, "GomokuEval", bots.StrategyFor("gomoku", DifficultyMedium).Name())
		assert.Equal(t, "GoEval", bots.StrategyFor("go", DifficultyMedium).Name())
	})

	t.Run("Unknown game types fall back to random", func(t *testing.T) {
		assert.Equal(t, "Random", bots.StrategyFor("checkers", DifficultyMedium).Name())
	})
}

func TestBotService_MakeTurn(t *testing.T) {
	bots := NewBotService()

	t.Run("Plays a legal move on a fresh gomoku board", func(t *testing.T) {
		// Given: A new gomoku game
		game, err := engine.NewGomokuGame(9)
		require.NoError(t, err)

		// When: The bot takes one turn
		err = bots.MakeTurn(game, DifficultyEasy)

		// Then: Exactly one black stone is on the board and white is to play
		require.NoError(t, err)
		assert.Equal(t, 1, game.Board().CountStones(engine.Black))
		assert.Equal(t, engine.White, game.CurrentPlayer())
	})

	t.Run("Plays a legal othello move at level two", func(t *testing.T) {
		// Given: A fresh othello game
		game, err := engine.NewOthelloGame(8)
		require.NoError(t, err)

		// When: The evaluation bot takes one turn
		err = bots.MakeTurn(game, DifficultyMedium)

		// Then: Black has gained stones through a flip
		require.NoError(t, err)
		assert.Greater(t, game.Board().CountStones(engine.Black), 2)
	})
}

func TestRandomStrategy(t *testing.T) {
	t.Run("Picks from the legal set", func(t *testing.T) {
		// Given: A fresh othello game with four opening moves
		game, err := engine.NewOthelloGame(8)
		require.NoError(t, err)
		legal := game.LegalMoves()
		require.Len(t, legal, 4)

		// When: Selecting a move
		strategy := &RandomStrategy{}
		move, err := strategy.SelectMove(game)

		// Then: The choice is one of the legal moves
		require.NoError(t, err)
		assert.Contains(t, legal, move)
	})
}

func TestOthelloEvalStrategy(t *testing.T) {
	t.Run("Selected move is legal and leaves the live game untouched", func(t *testing.T) {
		// Given: A fresh othello game
		game, err := engine.NewOthelloGame(8)
		require.NoError(t, err)
		before := game.Board().Encode()

		// When: Evaluating the opening position
		strategy := &OthelloEvalStrategy{}
		move, err := strategy.SelectMove(game)

		// Then: A legal move comes back and the simulation never leaked
		require.NoError(t, err)
		assert.Contains(t, game.LegalMoves(), move)
		assert.Equal(t, before, game.Board().Encode())
	})

	t.Run("Takes an available corner", func(t *testing.T) {
		// Given: A position where black may capture the top-left corner
		game, err := engine.NewOthelloGame(8)
		require.NoError(t, err)
		state := game.State()
		board := game.Board()
		board.Set(0, 1, engine.White)
		board.Set(0, 2, engine.Black)
		state.CurrentPlayer = engine.Black
		game.RestoreState(state)
		require.Contains(t, game.LegalMoves(), engine.Position{Row: 0, Col: 0})

		// When: Evaluating
		strategy := &OthelloEvalStrategy{}
		move, err := strategy.SelectMove(game)

		// Then: The corner wins the evaluation
		require.NoError(t, err)
		assert.Equal(t, engine.Position{Row: 0, Col: 0}, move)
	})
}

func TestGomokuEvalStrategy(t *testing.T) {
	t.Run("Completes its own open four", func(t *testing.T) {
		// Given: Black has four in a row with both ends open
		game, err := engine.NewGomokuGame(9)
		require.NoError(t, err)
		for col := 2; col <= 5; col++ {
			game.Board().Set(4, col, engine.Black)
		}

		// When: Black evaluates the position
		strategy := &GomokuEvalStrategy{}
		move, err := strategy.SelectMove(game)

		// Then: The bot extends the run to five
		require.NoError(t, err)
		assert.Equal(t, 4, move.Row)
		assert.Contains(t, []int{1, 6}, move.Col)
	})

	t.Run("Blocks the opponent's open four", func(t *testing.T) {
		// Given: White threatens five while black is to play
		game, err := engine.NewGomokuGame(9)
		require.NoError(t, err)
		for col := 2; col <= 5; col++ {
			game.Board().Set(4, col, engine.White)
		}

		// When: Black evaluates the position
		strategy := &GomokuEvalStrategy{}
		move, err := strategy.SelectMove(game)

		// Then: The bot plays on one end of the white run
		require.NoError(t, err)
		assert.Equal(t, 4, move.Row)
		assert.Contains(t, []int{1, 6}, move.Col)
	})
}

func TestGoEvalStrategy(t *testing.T) {
	t.Run("Takes the capturing move", func(t *testing.T) {
		// Given: A white stone with a single liberty left
		game, err := engine.NewGoGame(5)
		require.NoError(t, err)
		board := game.Board()
		board.Set(2, 2, engine.White)
		board.Set(1, 2, engine.Black)
		board.Set(3, 2, engine.Black)
		board.Set(2, 1, engine.Black)

		// When: Black evaluates the position
		strategy := &GoEvalStrategy{}
		move, err := strategy.SelectMove(game)

		// Then: The bot fills the last liberty and captures
		require.NoError(t, err)
		assert.Equal(t, engine.Position{Row: 2, Col: 3}, move)
	})

	t.Run("Simulation never mutates the live game", func(t *testing.T) {
		// Given: A fresh go game
		game, err := engine.NewGoGame(5)
		require.NoError(t, err)
		before := game.Board().Encode()

		// When: Evaluating
		strategy := &GoEvalStrategy{}
		_, err = strategy.SelectMove(game)

		// Then: The board is untouched and black still to play
		require.NoError(t, err)
		assert.Equal(t, before, game.Board().Encode())
		assert.Equal(t, engine.Black, game.CurrentPlayer())
	})
}
