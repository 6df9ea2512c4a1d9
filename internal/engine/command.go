package engine

// CommandKind tags the three reversible action shapes.
type CommandKind int

const (
	CommandMove CommandKind = iota
	CommandPass
	CommandResign
)

// Command wraps one reversible action against a Game. It holds a
// non-owning back-reference to the game and, after Execute, the
// delta/record needed to invert the action exactly.
type Command struct {
	kind CommandKind
	game Game

	row int
	col int

	delta  *MoveDelta
	pass   *PassRecord
	resign *ResignRecord
}

func NewMoveCommand(game Game, row, col int) *Command {
	return &Command{kind: CommandMove, game: game, row: row, col: col}
}

func NewPassCommand(game Game) *Command {
	return &Command{kind: CommandPass, game: game}
}

func NewResignCommand(game Game) *Command {
	return &Command{kind: CommandResign, game: game}
}

func (that *Command) Kind() CommandKind {
	return that.kind
}

// Execute runs the wrapped action once and, on success, pushes the
// command onto the game's undo history.
func (that *Command) Execute() (string, error) {
	var message string

	switch that.kind {
	case CommandMove:
		delta, err := that.game.ExecuteMove(that.row, that.col)
		if err != nil {
			return "", err
		}
		that.delta = delta
		message = delta.Message
	case CommandPass:
		record, err := that.game.ExecutePass()
		if err != nil {
			return "", err
		}
		that.pass = record
		message = record.Message
	case CommandResign:
		record, err := that.game.ExecuteResign()
		if err != nil {
			return "", err
		}
		that.resign = record
		message = record.Message
	}

	that.game.PushCommand(that)
	return message, nil
}

// Undo inverts an executed command. Undoing a command that never ran
// is a no-op, not an error.
func (that *Command) Undo() (string, error) {
	switch that.kind {
	case CommandMove:
		if that.delta == nil {
			return "Nothing to undo.", nil
		}
		that.game.UndoMove(that.delta)
		that.delta = nil
		return "Move undone.", nil
	case CommandPass:
		if that.pass == nil {
			return "Nothing to undo.", nil
		}
		that.game.UndoPass(that.pass)
		that.pass = nil
		return "Pass undone.", nil
	case CommandResign:
		if that.resign == nil {
			return "Nothing to undo.", nil
		}
		that.game.UndoResign(that.resign)
		that.resign = nil
		return "Resign undone.", nil
	}

	return "Nothing to undo.", nil
}

// clone deep-copies the command including its delta; the game reference
// is retargeted by the cloning game afterwards.
func (that *Command) clone() *Command {
	cloned := &Command{
		kind: that.kind,
		game: that.game,
		row:  that.row,
		col:  that.col,
	}
	if that.delta != nil {
		delta := *that.delta
		if len(that.delta.Captured) > 0 {
			delta.Captured = make([]CapturedStone, len(that.delta.Captured))
			copy(delta.Captured, that.delta.Captured)
		}
		cloned.delta = &delta
	}
	if that.pass != nil {
		pass := *that.pass
		cloned.pass = &pass
	}
	if that.resign != nil {
		resign := *that.resign
		cloned.resign = &resign
	}
	return cloned
}
