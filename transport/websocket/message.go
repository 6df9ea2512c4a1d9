package websocket

import (
	"encoding/json"

	"github.com/stonehall/stonehall-backend/internal/engine"
	"github.com/stonehall/stonehall-backend/internal/entity"
)

// Message is one frame of the gameplay protocol: an action name plus
// its JSON payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries both request fields and response fields; unused
// fields stay empty on the wire.
type Payload struct {
	Player *entity.Player      `json:"player,omitempty"`
	Game   *entity.GameSession `json:"game,omitempty"`

	GameType    string `json:"game_type,omitempty"`
	Size        int    `json:"size,omitempty"`
	SessionType string `json:"session_type,omitempty"`
	Difficulty  int    `json:"difficulty,omitempty"`

	Row *int `json:"row,omitempty"`
	Col *int `json:"col,omitempty"`

	Name  string `json:"name,omitempty"`
	Token string `json:"token,omitempty"`

	Message    string            `json:"message,omitempty"`
	LegalMoves []engine.Position `json:"legal_moves,omitempty"`
	Path       string            `json:"path,omitempty"`
	Error      string            `json:"error,omitempty"`
}
