package engine

import (
	"fmt"

	"github.com/stonehall/stonehall-backend/internal/apperror"
)

// GoGame implements simplified Go: group capture by liberty exhaustion,
// suicide rejection, pass-based termination and area scoring. Ko,
// handicap and seki are out of scope.
type GoGame struct {
	*game
}

const DefaultGoSize = 19

func NewGoGame(size int) (*GoGame, error) {
	if size == 0 {
		size = DefaultGoSize
	}
	core, err := newGame(size)
	if err != nil {
		return nil, err
	}
	g := &GoGame{game: core}
	g.game.rules = g
	return g, nil
}

func (that *GoGame) Name() string { return "Go" }
func (that *GoGame) name() string { return that.Name() }

func (that *GoGame) applyMove(row, col int, player Stone, pre State) (*MoveDelta, error) {
	opponent := player.Opposite()
	var captured []CapturedStone

	that.board.Set(row, col, player)

	for _, n := range that.board.Neighbors(row, col) {
		if that.board.Get(n.Row, n.Col) != opponent {
			continue
		}
		group, liberties := that.collectGroup(n.Row, n.Col)
		if liberties == 0 {
			for _, pos := range group {
				captured = append(captured, CapturedStone{Row: pos.Row, Col: pos.Col, Stone: opponent})
				that.board.Set(pos.Row, pos.Col, Empty)
			}
		}
	}

	// Suicide check after captures resolve. The board must come out of a
	// rejected attempt exactly as it went in.
	if _, liberties := that.collectGroup(row, col); liberties == 0 {
		that.board.Set(row, col, Empty)
		for _, c := range captured {
			that.board.Set(c.Row, c.Col, c.Stone)
		}
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrIllegalSuicide, row, col)
	}

	return &MoveDelta{
		Row:      row,
		Col:      col,
		Player:   player,
		Captured: captured,
		Message:  fmt.Sprintf("%s moves to (%d, %d).", player.Name(), row+1, col+1),
		PreState: pre,
	}, nil
}

func (that *GoGame) postMove(delta *MoveDelta) {
	that.state.PassCount = 0
	if that.board.IsFull() {
		that.finalizeScore()
	}
}

func (that *GoGame) undoMove(delta *MoveDelta) {
	that.board.Set(delta.Row, delta.Col, Empty)
	for _, c := range delta.Captured {
		that.board.Set(c.Row, c.Col, c.Stone)
	}
	that.state = delta.PreState
}

// ExecutePass increments the pass counter; two consecutive passes end
// the game with area scoring.
func (that *GoGame) ExecutePass() (*PassRecord, error) {
	if that.state.IsOver {
		return nil, apperror.ErrGameOver
	}

	record := &PassRecord{
		Player:   that.state.CurrentPlayer,
		Message:  fmt.Sprintf("%s passes.", that.state.CurrentPlayer.Name()),
		PreState: that.state,
	}
	that.state.PassCount++
	if that.state.PassCount >= 2 {
		that.finalizeScore()
	}
	if !that.state.IsOver {
		that.switchPlayer()
	}
	return record, nil
}

func (that *GoGame) Clone() Game {
	clone := &GoGame{game: that.game.cloneCore()}
	clone.game.rules = clone
	clone.game.retargetHistory(clone)
	return clone
}

// collectGroup flood-fills the orthogonally connected same-color group
// at (row, col) and tallies its liberties. The tally counts every empty
// neighbor sighting rather than unique empty cells; capture detection
// only ever compares against zero, which both countings agree on.
func (that *GoGame) collectGroup(row, col int) ([]Position, int) {
	color := that.board.Get(row, col)
	if color == Empty {
		return nil, 0
	}

	visited := map[Position]bool{{Row: row, Col: col}: true}
	group := []Position{{Row: row, Col: col}}
	liberties := 0

	queue := []Position{{Row: row, Col: col}}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, n := range that.board.Neighbors(pos.Row, pos.Col) {
			cell := that.board.Get(n.Row, n.Col)
			switch {
			case cell == Empty:
				liberties++
			case cell == color && !visited[n]:
				visited[n] = true
				group = append(group, n)
				queue = append(queue, n)
			}
		}
	}
	return group, liberties
}

func (that *GoGame) finalizeScore() {
	black, white := that.areaScore()
	switch {
	case black > white:
		that.state.Winner = Black
	case white > black:
		that.state.Winner = White
	default:
		that.state.Winner = Empty
	}
	that.state.IsOver = true
}

// areaScore counts stones per color plus every maximal empty region
// bordered exclusively by one color. Mixed or unbordered regions are
// neutral.
func (that *GoGame) areaScore() (int, int) {
	black := that.board.CountStones(Black)
	white := that.board.CountStones(White)
	visited := make(map[Position]bool)

	for r := 0; r < that.board.Size(); r++ {
		for c := 0; c < that.board.Size(); c++ {
			pos := Position{Row: r, Col: c}
			if that.board.Get(r, c) != Empty || visited[pos] {
				continue
			}
			region, owners := that.exploreEmptyRegion(pos, visited)
			if len(owners) != 1 {
				continue
			}
			for owner := range owners {
				if owner == Black {
					black += len(region)
				} else if owner == White {
					white += len(region)
				}
			}
		}
	}
	return black, white
}

func (that *GoGame) exploreEmptyRegion(start Position, visited map[Position]bool) ([]Position, map[Stone]bool) {
	var region []Position
	owners := make(map[Stone]bool)

	visited[start] = true
	queue := []Position{start}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		region = append(region, pos)
		for _, n := range that.board.Neighbors(pos.Row, pos.Col) {
			cell := that.board.Get(n.Row, n.Col)
			if cell == Empty {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			} else {
				owners[cell] = true
			}
		}
	}
	return region, owners
}
