package apperror

import "errors"

var (
	ErrInvalidConfig   = errors.New("board size must be between 4 and 19")
	ErrGameOver        = errors.New("game is already over")
	ErrOutOfRange      = errors.New("move is out of board range")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrIllegalMove     = errors.New("move does not flip any opponent stone")
	ErrIllegalSuicide  = errors.New("illegal self-capture move")
	ErrUnsupported     = errors.New("operation is not supported by this game")
	ErrIllegalState    = errors.New("cannot pass while legal moves exist")
	ErrUnknownGameType = errors.New("unknown game type")

	ErrNotFound          = errors.New("not found")
	ErrGameNotFound      = errors.New("game not found")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrGameAlreadyExists = errors.New("game already exists")

	ErrUserExists       = errors.New("username already taken")
	ErrInvalidUsername  = errors.New("username must be 3-20 characters of letters, digits or underscore")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrWrongPassword    = errors.New("wrong password")
)
