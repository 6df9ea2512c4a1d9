package engine

import (
	"fmt"
	"strings"

	"github.com/stonehall/stonehall-backend/internal/apperror"
)

// Constructor builds a game of one variant. A zero size selects the
// variant's default board.
type Constructor func(size int) (Game, error)

// Registry maps game-type tags to constructors so new variants can be
// added without touching the factory itself.
type Registry struct {
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// DefaultRegistry returns a registry with all three built-in variants.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register("gomoku", func(size int) (Game, error) {
		return NewGomokuGame(size)
	})
	registry.Register("go", func(size int) (Game, error) {
		return NewGoGame(size)
	})
	registry.Register("othello", func(size int) (Game, error) {
		return NewOthelloGame(size)
	})
	return registry
}

func (that *Registry) Register(gameType string, ctor Constructor) {
	that.constructors[strings.ToLower(gameType)] = ctor
}

// Create - builds a game for the given type tag.
func (that *Registry) Create(gameType string, size int) (Game, error) {
	ctor, ok := that.constructors[strings.ToLower(gameType)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, gameType)
	}
	return ctor(size)
}

func (that *Registry) Types() []string {
	types := make([]string, 0, len(that.constructors))
	for gameType := range that.constructors {
		types = append(types, gameType)
	}
	return types
}
