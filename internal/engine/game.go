package engine

import (
	"fmt"

	"github.com/stonehall/stonehall-backend/internal/apperror"
)

// State is the snapshot of the turn machine outside the board itself.
// Winner == Empty means no winner yet, or a draw once IsOver is set.
type State struct {
	CurrentPlayer Stone `json:"current_player"`
	Winner        Stone `json:"winner"`
	IsOver        bool  `json:"is_over"`
	PassCount     int   `json:"pass_count"`
}

// CapturedStone records the prior color of a cell a move overwrote,
// captured or flipped, so the move can be inverted exactly.
type CapturedStone struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Stone Stone `json:"stone"`
}

// MoveDelta is the result of one applied move: everything needed to
// undo it without recomputing any rules.
type MoveDelta struct {
	Row      int
	Col      int
	Player   Stone
	Captured []CapturedStone
	Message  string
	PreState State
}

type PassRecord struct {
	Player   Stone
	Message  string
	PreState State
}

type ResignRecord struct {
	Player   Stone
	Message  string
	PreState State
}

// Game is the uniform turn-based surface shared by all variants;
// it is what the UI, AI, persistence and replay layers consume.
type Game interface {
	Name() string
	Board() *Board
	CurrentPlayer() Stone
	Winner() Stone
	IsOver() bool
	PassCount() int
	State() State
	RestoreState(state State)

	ExecuteMove(row, col int) (*MoveDelta, error)
	ExecutePass() (*PassRecord, error)
	ExecuteResign() (*ResignRecord, error)
	UndoMove(delta *MoveDelta)
	UndoPass(record *PassRecord)
	UndoResign(record *ResignRecord)

	LegalMoves() []Position
	MustPass() bool
	Clone() Game

	PushCommand(cmd *Command)
	PopCommand() *Command
	CanUndo() bool
	UndoLast() (string, error)
	ClearHistory()
}

// rules are the variant-specific hooks the shared move lifecycle
// delegates to. applyMove mutates the board and reports what changed;
// postMove updates winner/over/pass state; undoMove restores the cells
// applyMove touched.
type rules interface {
	name() string
	applyMove(row, col int, player Stone, pre State) (*MoveDelta, error)
	postMove(delta *MoveDelta)
	undoMove(delta *MoveDelta)
}

// game carries the state shared by every variant and implements the
// common move lifecycle. Variants embed it and plug themselves in as
// the rules hooks; Othello additionally shadows ExecuteMove, both pass
// methods, LegalMoves and MustPass.
type game struct {
	board   *Board
	state   State
	history []*Command
	rules   rules
}

func newGame(size int) (*game, error) {
	board, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	return &game{
		board: board,
		state: State{CurrentPlayer: Black, Winner: Empty},
	}, nil
}

func (that *game) Board() *Board        { return that.board }
func (that *game) CurrentPlayer() Stone { return that.state.CurrentPlayer }
func (that *game) Winner() Stone        { return that.state.Winner }
func (that *game) IsOver() bool         { return that.state.IsOver }
func (that *game) PassCount() int       { return that.state.PassCount }

func (that *game) State() State {
	return that.state
}

func (that *game) RestoreState(state State) {
	that.state = state
}

func (that *game) switchPlayer() {
	that.state.CurrentPlayer = that.state.CurrentPlayer.Opposite()
}

// ExecuteMove runs the shared move lifecycle: generic preconditions,
// pre-state snapshot, variant apply/post hooks, then a single player
// switch if the game is still running.
func (that *game) ExecuteMove(row, col int) (*MoveDelta, error) {
	if that.state.IsOver {
		return nil, apperror.ErrGameOver
	}
	if !that.board.IsOnBoard(row, col) {
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfRange, row, col)
	}
	if !that.board.IsEmpty(row, col) {
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, row, col)
	}

	pre := that.state
	delta, err := that.rules.applyMove(row, col, that.state.CurrentPlayer, pre)
	if err != nil {
		return nil, err
	}

	that.rules.postMove(delta)
	if !that.state.IsOver {
		that.switchPlayer()
	}
	return delta, nil
}

// ExecutePass fails by default; only Go and Othello support passing.
func (that *game) ExecutePass() (*PassRecord, error) {
	return nil, fmt.Errorf("%w: %s does not support pass", apperror.ErrUnsupported, that.rules.name())
}

func (that *game) UndoPass(record *PassRecord) {
	that.state = record.PreState
}

func (that *game) ExecuteResign() (*ResignRecord, error) {
	if that.state.IsOver {
		return nil, apperror.ErrGameOver
	}

	record := &ResignRecord{
		Player:   that.state.CurrentPlayer,
		Message:  fmt.Sprintf("%s resigns.", that.state.CurrentPlayer.Name()),
		PreState: that.state,
	}
	that.state.Winner = that.state.CurrentPlayer.Opposite()
	that.state.IsOver = true
	return record, nil
}

func (that *game) UndoResign(record *ResignRecord) {
	that.state = record.PreState
}

func (that *game) UndoMove(delta *MoveDelta) {
	that.rules.undoMove(delta)
}

// LegalMoves defaults to every empty cell while the game runs;
// Othello shadows this with flip-legality filtering.
func (that *game) LegalMoves() []Position {
	if that.state.IsOver {
		return nil
	}
	moves := make([]Position, 0, that.board.Size()*that.board.Size())
	for r := 0; r < that.board.Size(); r++ {
		for c := 0; c < that.board.Size(); c++ {
			if that.board.IsEmpty(r, c) {
				moves = append(moves, Position{Row: r, Col: c})
			}
		}
	}
	return moves
}

func (that *game) MustPass() bool {
	return false
}

func (that *game) PushCommand(cmd *Command) {
	that.history = append(that.history, cmd)
}

func (that *game) PopCommand() *Command {
	if len(that.history) == 0 {
		return nil
	}
	cmd := that.history[len(that.history)-1]
	that.history = that.history[:len(that.history)-1]
	return cmd
}

func (that *game) CanUndo() bool {
	return len(that.history) > 0
}

// UndoLast pops and inverts the most recent command. An empty history
// is not an error; it reports a no-op.
func (that *game) UndoLast() (string, error) {
	cmd := that.PopCommand()
	if cmd == nil {
		return "Nothing to undo.", nil
	}
	return cmd.Undo()
}

func (that *game) ClearHistory() {
	that.history = nil
}

// cloneCore deep-copies board, state and history. The cloned commands
// still point at the original game; the variant's Clone must retarget
// them via retargetHistory.
func (that *game) cloneCore() *game {
	clone := &game{
		board: that.board.Clone(),
		state: that.state,
	}
	if len(that.history) > 0 {
		clone.history = make([]*Command, len(that.history))
		for i, cmd := range that.history {
			clone.history[i] = cmd.clone()
		}
	}
	return clone
}

func (that *game) retargetHistory(target Game) {
	for _, cmd := range that.history {
		cmd.game = target
	}
}
