package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stonehall/stonehall-backend/internal/engine"
)

var (
	ErrNoRecord     = errors.New("no replay loaded")
	ErrAtStart      = errors.New("already at the initial position")
	ErrAtEnd        = errors.New("already at the final position")
	ErrIndexOutside = errors.New("replay index out of range")
)

// Controller steps through a loaded record move by move. Position
// -1 means the initial board, len(moves)-1 the final one. Stepping
// back and jumping rebuild the game by re-executing from the start;
// every state visited this way is exact, not reconstructed from
// heuristics. Keyframe snapshots serve direct board previews.
type Controller struct {
	registry *engine.Registry

	record *Record
	game   engine.Game
	index  int
}

func NewController(registry *engine.Registry) *Controller {
	return &Controller{registry: registry, index: -1}
}

// Load - resets the controller onto a record at the initial position.
func (that *Controller) Load(record *Record) error {
	game, err := that.buildInitialGame(record)
	if err != nil {
		return err
	}

	that.record = record
	that.game = game
	that.index = -1
	return nil
}

func (that *Controller) buildInitialGame(record *Record) (engine.Game, error) {
	game, err := that.registry.Create(record.Metadata.GameType, record.Metadata.BoardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild replay game: %w", err)
	}
	if len(record.InitialBoard) > 0 {
		if err = game.Board().Decode(record.InitialBoard); err != nil {
			return nil, fmt.Errorf("failed to restore initial board: %w", err)
		}
	}
	return game, nil
}

func (that *Controller) Index() int {
	return that.index
}

func (that *Controller) TotalMoves() int {
	if that.record == nil {
		return 0
	}
	return len(that.record.Moves)
}

func (that *Controller) Metadata() *Metadata {
	if that.record == nil {
		return nil
	}
	return &that.record.Metadata
}

// Board returns the board at the current position.
func (that *Controller) Board() *engine.Board {
	if that.game == nil {
		return nil
	}
	return that.game.Board()
}

// StepForward re-executes the next recorded action.
func (that *Controller) StepForward() (*MoveRecord, error) {
	if that.record == nil {
		return nil, ErrNoRecord
	}
	if that.index >= len(that.record.Moves)-1 {
		return nil, ErrAtEnd
	}

	next := that.record.Moves[that.index+1]
	if err := that.applyRecord(&next); err != nil {
		return nil, err
	}
	that.index++
	return &next, nil
}

// StepBack rewinds one action by rebuilding from the start.
func (that *Controller) StepBack() (*MoveRecord, error) {
	if that.record == nil {
		return nil, ErrNoRecord
	}
	if that.index < 0 {
		return nil, ErrAtStart
	}
	if err := that.JumpTo(that.index - 1); err != nil {
		return nil, err
	}
	if that.index < 0 {
		return nil, nil
	}
	record := that.record.Moves[that.index]
	return &record, nil
}

// JumpTo seeks to the given move index, -1 being the initial position.
func (that *Controller) JumpTo(index int) error {
	if that.record == nil {
		return ErrNoRecord
	}
	if index < -1 || index >= len(that.record.Moves) {
		return fmt.Errorf("%w: %d", ErrIndexOutside, index)
	}

	game, err := that.buildInitialGame(that.record)
	if err != nil {
		return err
	}
	that.game = game
	that.index = -1

	for that.index < index {
		next := that.record.Moves[that.index+1]
		if err = that.applyRecord(&next); err != nil {
			return err
		}
		that.index++
	}
	return nil
}

// SnapshotAt returns the recorded keyframe board for a move index, or
// nil when that move carried no snapshot.
func (that *Controller) SnapshotAt(index int) []string {
	if that.record == nil || index < 0 || index >= len(that.record.Moves) {
		return nil
	}
	return that.record.Moves[index].BoardSnapshot
}

// Play auto-advances on a ticker until the record ends, the context is
// canceled, or a step fails. onStep may be nil.
func (that *Controller) Play(ctx context.Context, interval time.Duration, onStep func(index int, record *MoveRecord)) error {
	if that.record == nil {
		return ErrNoRecord
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			record, err := that.StepForward()
			if errors.Is(err, ErrAtEnd) {
				return nil
			}
			if err != nil {
				return err
			}
			if onStep != nil {
				onStep(that.index, record)
			}
		}
	}
}

func (that *Controller) applyRecord(record *MoveRecord) error {
	switch record.ActionType {
	case ActionMove:
		if record.Position == nil {
			return fmt.Errorf("move record %d has no position", record.MoveNumber)
		}
		if _, err := that.game.ExecuteMove(record.Position.Row, record.Position.Col); err != nil {
			return fmt.Errorf("replay move %d failed: %w", record.MoveNumber, err)
		}
	case ActionPass:
		if _, err := that.game.ExecutePass(); err != nil {
			return fmt.Errorf("replay pass %d failed: %w", record.MoveNumber, err)
		}
	case ActionResign:
		if _, err := that.game.ExecuteResign(); err != nil {
			return fmt.Errorf("replay resign %d failed: %w", record.MoveNumber, err)
		}
	default:
		return fmt.Errorf("unknown action type %q in record %d", record.ActionType, record.MoveNumber)
	}
	return nil
}
