package engine

import (
	"errors"
	"fmt"
)

var ErrInvalidStone = errors.New("invalid stone symbol")

// Stone is the state of a single board cell. The values double as the
// single-character symbols used in the persisted board format.
type Stone string

const (
	Empty Stone = "."
	Black Stone = "B"
	White Stone = "W"
)

// Opposite returns the other player's color. Empty maps to Empty.
func (that Stone) Opposite() Stone {
	switch that {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (that Stone) Name() string {
	switch that {
	case Black:
		return "BLACK"
	case White:
		return "WHITE"
	default:
		return "EMPTY"
	}
}

func (that Stone) Valid() bool {
	return that == Empty || that == Black || that == White
}

// ParseStone - converts a persisted cell symbol back into a Stone.
func ParseStone(symbol string) (Stone, error) {
	stone := Stone(symbol)
	if !stone.Valid() {
		return Empty, fmt.Errorf("%w: %q", ErrInvalidStone, symbol)
	}
	return stone, nil
}

// ParsePlayer - like ParseStone but rejects Empty, for fields that must
// name an actual player.
func ParsePlayer(symbol string) (Stone, error) {
	stone, err := ParseStone(symbol)
	if err != nil {
		return Empty, err
	}
	if stone == Empty {
		return Empty, fmt.Errorf("%w: player cannot be empty", ErrInvalidStone)
	}
	return stone, nil
}

// Position addresses one board cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
