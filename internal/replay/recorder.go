package replay

import (
	"time"

	"github.com/stonehall/stonehall-backend/internal/engine"
)

// SnapshotInterval is the keyframe cadence: every N-th move also stores
// a full board snapshot so viewers can seek without replaying from the
// start.
const SnapshotInterval = 10

const (
	ActionMove   = "move"
	ActionPass   = "pass"
	ActionResign = "resign"
)

const (
	ResultBlackWin = "BLACK_WIN"
	ResultWhiteWin = "WHITE_WIN"
	ResultDraw     = "DRAW"
)

// MoveRecord is one recorded action.
type MoveRecord struct {
	MoveNumber    int              `json:"move_number"`
	Player        string           `json:"player"`
	ActionType    string           `json:"action_type"`
	Position      *engine.Position `json:"position,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
	BoardSnapshot []string         `json:"board_snapshot,omitempty"`
}

// Metadata describes the recorded match.
type Metadata struct {
	GameType    string `json:"game_type"`
	BoardSize   int    `json:"board_size"`
	BlackPlayer string `json:"black_player"`
	WhitePlayer string `json:"white_player"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	Result      string `json:"result,omitempty"`
	TotalMoves  int    `json:"total_moves"`
	UserID      string `json:"user_id,omitempty"`
}

// Record is the full serializable replay payload.
type Record struct {
	Version      string       `json:"version"`
	Metadata     Metadata     `json:"metadata"`
	InitialBoard []string     `json:"initial_board,omitempty"`
	Moves        []MoveRecord `json:"moves"`
	FinalBoard   []string     `json:"final_board,omitempty"`
}

// Recorder accumulates move records during a match.
type Recorder struct {
	record Record
}

func NewRecorder(gameType string, boardSize int, blackPlayer, whitePlayer, userID string) *Recorder {
	return &Recorder{
		record: Record{
			Version: "2.0",
			Metadata: Metadata{
				GameType:    gameType,
				BoardSize:   boardSize,
				BlackPlayer: blackPlayer,
				WhitePlayer: whitePlayer,
				StartTime:   time.Now().Format(time.RFC3339),
				UserID:      userID,
			},
		},
	}
}

// Resume continues recording on top of a previously exported record,
// so a loaded save keeps accumulating into the same replay.
func Resume(record *Record) *Recorder {
	resumed := &Recorder{record: *record}
	resumed.record.Moves = make([]MoveRecord, len(record.Moves))
	copy(resumed.record.Moves, record.Moves)
	return resumed
}

func (that *Recorder) SetInitialBoard(board *engine.Board) {
	that.record.InitialBoard = board.Encode()
}

// RecordMove appends one action; keyframe moves also capture the full
// board.
func (that *Recorder) RecordMove(actionType string, position *engine.Position, player engine.Stone, board *engine.Board) {
	moveNumber := len(that.record.Moves) + 1

	var snapshot []string
	if moveNumber%SnapshotInterval == 0 {
		snapshot = board.Encode()
	}

	that.record.Moves = append(that.record.Moves, MoveRecord{
		MoveNumber:    moveNumber,
		Player:        player.Name(),
		ActionType:    actionType,
		Position:      position,
		Timestamp:     time.Now(),
		BoardSnapshot: snapshot,
	})
	that.record.Metadata.TotalMoves = moveNumber
}

// DropLast removes the most recent record; used when a move is undone
// during the live match.
func (that *Recorder) DropLast() {
	if len(that.record.Moves) == 0 {
		return
	}
	that.record.Moves = that.record.Moves[:len(that.record.Moves)-1]
	that.record.Metadata.TotalMoves = len(that.record.Moves)
}

// Finalize - closes the record with the result and the final board.
func (that *Recorder) Finalize(winner engine.Stone, board *engine.Board) {
	switch winner {
	case engine.Black:
		that.record.Metadata.Result = ResultBlackWin
	case engine.White:
		that.record.Metadata.Result = ResultWhiteWin
	default:
		that.record.Metadata.Result = ResultDraw
	}
	that.record.Metadata.EndTime = time.Now().Format(time.RFC3339)
	that.record.FinalBoard = board.Encode()
}

func (that *Recorder) TotalMoves() int {
	return len(that.record.Moves)
}

// Export returns a copy of the accumulated record.
func (that *Recorder) Export() *Record {
	exported := that.record
	exported.Moves = make([]MoveRecord, len(that.record.Moves))
	copy(exported.Moves, that.record.Moves)
	return &exported
}
