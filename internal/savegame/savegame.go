// Package savegame persists game state as JSON: the board as a grid of
// single-character cell symbols plus the turn-machine fields, optionally
// bundled with a replay record.
package savegame

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stonehall/stonehall-backend/internal/engine"
	"github.com/stonehall/stonehall-backend/internal/replay"
)

const version = "2.0"

var (
	ErrMissingFields = errors.New("save data missing required fields")
	ErrNotFoundFile  = errors.New("save file not found")
)

// Payload is the serialized form of a game, with an optional embedded
// replay.
type Payload struct {
	Version       string         `json:"version"`
	GameType      string         `json:"game_type"`
	Size          int            `json:"size"`
	CurrentPlayer string         `json:"current_player"`
	Winner        string         `json:"winner,omitempty"`
	IsOver        bool           `json:"is_over"`
	PassCount     int            `json:"pass_count"`
	Board         []string       `json:"board"`
	Replay        *replay.Record `json:"replay,omitempty"`
}

// Snapshot captures a game into a payload.
func Snapshot(game engine.Game) *Payload {
	payload := &Payload{
		Version:       version,
		GameType:      strings.ToLower(game.Name()),
		Size:          game.Board().Size(),
		CurrentPlayer: string(game.CurrentPlayer()),
		IsOver:        game.IsOver(),
		PassCount:     game.PassCount(),
		Board:         game.Board().Encode(),
	}
	if game.Winner() != engine.Empty {
		payload.Winner = string(game.Winner())
	}
	return payload
}

// Restore rebuilds a game from a payload through the registry. The
// rebuilt game starts with an empty undo history, matching what can be
// reconstructed from a snapshot.
func Restore(registry *engine.Registry, payload *Payload) (engine.Game, error) {
	if payload.GameType == "" || payload.Size == 0 || payload.CurrentPlayer == "" || len(payload.Board) == 0 {
		return nil, ErrMissingFields
	}

	game, err := registry.Create(payload.GameType, payload.Size)
	if err != nil {
		return nil, err
	}
	if err = game.Board().Decode(payload.Board); err != nil {
		return nil, fmt.Errorf("failed to restore board: %w", err)
	}

	current, err := engine.ParsePlayer(payload.CurrentPlayer)
	if err != nil {
		return nil, fmt.Errorf("invalid current player: %w", err)
	}

	winner := engine.Empty
	if payload.Winner != "" {
		winner, err = engine.ParseStone(payload.Winner)
		if err != nil {
			return nil, fmt.Errorf("invalid winner: %w", err)
		}
	}

	game.RestoreState(engine.State{
		CurrentPlayer: current,
		Winner:        winner,
		IsOver:        payload.IsOver,
		PassCount:     payload.PassCount,
	})
	game.ClearHistory()
	return game, nil
}

// Save - writes a game (and an optional replay) to a JSON file,
// creating parent directories as needed.
func Save(game engine.Game, path string, record *replay.Record) error {
	payload := Snapshot(game)
	payload.Replay = record

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

// Load - reads a save file and rebuilds the game plus any embedded
// replay record.
func Load(registry *engine.Registry, path string) (engine.Game, *replay.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFoundFile, path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read save file: %w", err)
	}

	var payload Payload
	if err = json.Unmarshal(data, &payload); err != nil {
		return nil, nil, fmt.Errorf("failed to parse save file: %w", err)
	}

	game, err := Restore(registry, &payload)
	if err != nil {
		return nil, nil, err
	}
	return game, payload.Replay, nil
}

// SaveReplay - writes a standalone replay file.
func SaveReplay(record *replay.Record, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal replay: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create replay directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write replay file: %w", err)
	}
	return nil
}

// LoadReplay - reads either a standalone replay file or a save file
// with an embedded replay.
func LoadReplay(path string) (*replay.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFoundFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read replay file: %w", err)
	}

	var payload Payload
	if err = json.Unmarshal(data, &payload); err == nil && payload.Replay != nil {
		return payload.Replay, nil
	}

	var record replay.Record
	if err = json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse replay file: %w", err)
	}
	if record.Metadata.GameType == "" || len(record.Moves) == 0 {
		return nil, fmt.Errorf("%w: not a replay file", ErrMissingFields)
	}
	return &record, nil
}
