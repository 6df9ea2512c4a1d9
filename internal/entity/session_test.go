package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSession_StatusMethods(t *testing.T) {
	t.Run("Status predicates match the status field", func(t *testing.T) {
		assert.True(t, (&GameSession{Status: StatusFinished}).IsFinished())
		assert.True(t, (&GameSession{Status: StatusOngoing}).IsOngoing())
		assert.True(t, (&GameSession{Status: StatusWaiting}).IsWaiting())
	})
}

func TestGameSession_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when the session is ongoing", func(t *testing.T) {
		session := &GameSession{Status: StatusOngoing}
		assert.NoError(t, session.ConfirmOngoingState())
	})

	t.Run("Returns ErrGameIsNotStarted when waiting", func(t *testing.T) {
		session := &GameSession{Status: StatusWaiting}
		assert.ErrorIs(t, session.ConfirmOngoingState(), ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when finished", func(t *testing.T) {
		session := &GameSession{Status: StatusFinished}
		assert.ErrorIs(t, session.ConfirmOngoingState(), ErrGameFinished)
	})

	t.Run("Returns an error for an unknown status", func(t *testing.T) {
		session := &GameSession{Status: "parallel-universe"}
		err := session.ConfirmOngoingState()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownGameStatus)
	})
}

func TestGameSession_Seats(t *testing.T) {
	session := &GameSession{
		Players: []*Player{
			{ID: "p1", Color: "B"},
			{ID: "p2", Color: "W", Bot: true},
		},
	}

	t.Run("PlayerByID finds seats", func(t *testing.T) {
		require.NotNil(t, session.PlayerByID("p1"))
		assert.Equal(t, "B", session.PlayerByID("p1").Color)
		assert.Nil(t, session.PlayerByID("nobody"))
	})

	t.Run("BotPlayer finds the bot seat", func(t *testing.T) {
		bot := session.BotPlayer()
		require.NotNil(t, bot)
		assert.Equal(t, "p2", bot.ID)
	})
}

func TestUser_Records(t *testing.T) {
	t.Run("Record lazily creates per-game tallies", func(t *testing.T) {
		user := &User{Username: "ada"}

		record := user.Record("gomoku")
		record.TotalGames++
		record.Wins++

		assert.Equal(t, 1, user.Record("gomoku").Wins)
		assert.Equal(t, 0, user.Record("othello").Wins)
	})

	t.Run("TotalStats sums across game types", func(t *testing.T) {
		user := &User{Username: "ada"}
		user.Record("gomoku").Wins = 2
		user.Record("gomoku").TotalGames = 3
		user.Record("go").Losses = 1
		user.Record("go").TotalGames = 1

		total := user.TotalStats()
		assert.Equal(t, 4, total.TotalGames)
		assert.Equal(t, 2, total.Wins)
		assert.Equal(t, 1, total.Losses)
	})

	t.Run("AddReplay ignores duplicates", func(t *testing.T) {
		user := &User{Username: "ada"}
		user.AddReplay("r1")
		user.AddReplay("r1")
		user.AddReplay("r2")

		assert.Equal(t, []string{"r1", "r2"}, user.ReplayIDs)
	})
}
