package entity

import (
	"errors"
	"fmt"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const (
	PublicType  = "public"
	WithBotType = "bot"
)

var (
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrGameFinished      = errors.New("game is already finished")
	ErrUnknownGameStatus = errors.New("unknown game status")
)

// GameSession is the persisted snapshot of one live match: the engine
// state flattened into the serialized board format plus the seats. It
// is what the redis repository stores and what transports return.
type GameSession struct {
	ID            string    `json:"id"`
	GameType      string    `json:"game_type"`
	Size          int       `json:"size"`
	Board         []string  `json:"board"`
	CurrentPlayer string    `json:"current_player"`
	Winner        string    `json:"winner,omitempty"`
	IsOver        bool      `json:"is_over"`
	PassCount     int       `json:"pass_count"`
	Status        string    `json:"status"`
	Type          string    `json:"type,omitempty"`
	Players       []*Player `json:"players,omitempty"`
}

func (that *GameSession) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *GameSession) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *GameSession) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *GameSession) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *GameSession) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return ErrGameIsNotStarted
	case that.IsFinished():
		return ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// PlayerByID - finds a seat by player id.
func (that *GameSession) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

// BotPlayer - finds the bot seat, if any.
func (that *GameSession) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}
	return nil
}
