package engine

import (
	"fmt"
	"strings"

	"github.com/stonehall/stonehall-backend/internal/apperror"
)

const (
	MinBoardSize = 4
	MaxBoardSize = 19
)

// Board is a fixed-size square grid of cell states. Every cell always
// holds exactly one Stone value; there is no invalid in-between state.
type Board struct {
	size int
	grid [][]Stone
}

// NewBoard - creates an empty board of the given size.
func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: got %d", apperror.ErrInvalidConfig, size)
	}

	grid := make([][]Stone, size)
	for r := range grid {
		grid[r] = make([]Stone, size)
		for c := range grid[r] {
			grid[r][c] = Empty
		}
	}

	return &Board{size: size, grid: grid}, nil
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) IsOnBoard(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

func (that *Board) Get(row, col int) Stone {
	return that.grid[row][col]
}

func (that *Board) Set(row, col int, stone Stone) {
	that.grid[row][col] = stone
}

func (that *Board) IsEmpty(row, col int) bool {
	return that.grid[row][col] == Empty
}

// Neighbors returns the up-to-four orthogonally adjacent in-bounds cells.
func (that *Board) Neighbors(row, col int) []Position {
	neighbors := make([]Position, 0, 4)
	for _, d := range [4]Position{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nr, nc := row+d.Row, col+d.Col
		if that.IsOnBoard(nr, nc) {
			neighbors = append(neighbors, Position{Row: nr, Col: nc})
		}
	}
	return neighbors
}

// AllNeighbors returns the up-to-eight adjacent in-bounds cells, diagonals
// included. Only Othello needs the diagonal ones.
func (that *Board) AllNeighbors(row, col int) []Position {
	neighbors := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := row+dr, col+dc
			if that.IsOnBoard(nr, nc) {
				neighbors = append(neighbors, Position{Row: nr, Col: nc})
			}
		}
	}
	return neighbors
}

func (that *Board) CountStones(stone Stone) int {
	count := 0
	for _, row := range that.grid {
		for _, cell := range row {
			if cell == stone {
				count++
			}
		}
	}
	return count
}

func (that *Board) IsFull() bool {
	for _, row := range that.grid {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

// Snapshot returns a deep copy of the grid.
func (that *Board) Snapshot() [][]Stone {
	snapshot := make([][]Stone, that.size)
	for r, row := range that.grid {
		snapshot[r] = make([]Stone, that.size)
		copy(snapshot[r], row)
	}
	return snapshot
}

// Restore - replaces the grid with a deep copy of the given snapshot.
func (that *Board) Restore(snapshot [][]Stone) error {
	if len(snapshot) != that.size {
		return fmt.Errorf("%w: snapshot size mismatch", apperror.ErrInvalidConfig)
	}
	for _, row := range snapshot {
		if len(row) != that.size {
			return fmt.Errorf("%w: snapshot size mismatch", apperror.ErrInvalidConfig)
		}
	}
	for r, row := range snapshot {
		copy(that.grid[r], row)
	}
	return nil
}

func (that *Board) Clone() *Board {
	clone, _ := NewBoard(that.size)
	for r, row := range that.grid {
		copy(clone.grid[r], row)
	}
	return clone
}

// Encode serializes the board as row-major strings of cell symbols,
// one string per row.
func (that *Board) Encode() []string {
	rows := make([]string, that.size)
	for r, row := range that.grid {
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(string(cell))
		}
		rows[r] = sb.String()
	}
	return rows
}

// Decode - restores the board from its encoded row strings, validating
// dimensions and every cell symbol.
func (that *Board) Decode(rows []string) error {
	if len(rows) != that.size {
		return fmt.Errorf("%w: saved board size does not match", apperror.ErrInvalidConfig)
	}

	grid := make([][]Stone, that.size)
	for r, row := range rows {
		cells := strings.Split(row, "")
		if len(cells) != that.size {
			return fmt.Errorf("%w: saved board size does not match", apperror.ErrInvalidConfig)
		}
		grid[r] = make([]Stone, that.size)
		for c, symbol := range cells {
			stone, err := ParseStone(symbol)
			if err != nil {
				return fmt.Errorf("invalid cell (%d, %d): %w", r, c, err)
			}
			grid[r][c] = stone
		}
	}

	that.grid = grid
	return nil
}
