package service

import (
	"errors"
	"math"
	"math/rand"

	"github.com/stonehall/stonehall-backend/internal/engine"
)

var ErrNoAvailableMoves = errors.New("no available moves")

const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
)

// Strategy picks the next move for the side to play. Implementations
// may simulate on a Clone() but must never mutate the live game.
type Strategy interface {
	Name() string
	SelectMove(game engine.Game) (engine.Position, error)
}

type BotService interface {
	// MakeTurn plays one bot action on the live game: a pass when the
	// variant forces one, otherwise the strategy's move.
	MakeTurn(game engine.Game, difficulty int) error
	StrategyFor(gameType string, difficulty int) Strategy
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

func (that *botService) MakeTurn(game engine.Game, difficulty int) error {
	if game.MustPass() {
		if _, err := game.ExecutePass(); err != nil {
			return err
		}
		return nil
	}

	strategy := that.StrategyFor(game.Name(), difficulty)
	position, err := strategy.SelectMove(game)
	if err != nil {
		return err
	}

	if _, err = game.ExecuteMove(position.Row, position.Col); err != nil {
		return err
	}
	return nil
}

func (that *botService) StrategyFor(gameType string, difficulty int) Strategy {
	if difficulty <= DifficultyEasy {
		return &RandomStrategy{}
	}

	switch gameType {
	case "othello":
		return &OthelloEvalStrategy{}
	case "gomoku":
		return &GomokuEvalStrategy{}
	case "go":
		return &GoEvalStrategy{}
	default:
		return &RandomStrategy{}
	}
}

// RandomStrategy picks a legal move uniformly at random. It is the
// baseline level-1 bot for every variant.
type RandomStrategy struct{}

func (that *RandomStrategy) Name() string { return "Random" }

func (that *RandomStrategy) SelectMove(game engine.Game) (engine.Position, error) {
	moves := game.LegalMoves()
	if len(moves) == 0 {
		return engine.Position{}, ErrNoAvailableMoves
	}
	return moves[rand.Intn(len(moves))], nil //nolint: gosec // it's ok
}

// othelloWeights8x8 favors corners, penalizes the X and C squares next
// to them.
var othelloWeights8x8 = [8][8]float64{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, 1, 1, 1, 1, -2, 10},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{10, -2, 1, 1, 1, 1, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

const (
	othelloWeightPosition        = 10.0
	othelloWeightMobility        = 5.0
	othelloWeightFlipCount       = 2.0
	othelloWeightCornerProximity = 15.0
)

// OthelloEvalStrategy scores each legal move by position weight, flip
// count, opponent mobility after the move, and corner proximity.
type OthelloEvalStrategy struct{}

func (that *OthelloEvalStrategy) Name() string { return "OthelloEval" }

func (that *OthelloEvalStrategy) SelectMove(game engine.Game) (engine.Position, error) {
	moves := game.LegalMoves()
	if len(moves) == 0 {
		return engine.Position{}, ErrNoAvailableMoves
	}

	best := moves[0]
	bestScore := math.Inf(-1)
	for _, move := range moves {
		score := that.evaluateMove(game, move.Row, move.Col)
		if score > bestScore {
			bestScore = score
			best = move
		}
	}
	return best, nil
}

func (that *OthelloEvalStrategy) evaluateMove(game engine.Game, row, col int) float64 {
	score := that.positionScore(game.Board().Size(), row, col) * othelloWeightPosition

	copied := game.Clone()
	if delta, err := copied.ExecuteMove(row, col); err == nil {
		score += float64(len(delta.Captured)) * othelloWeightFlipCount
		score -= float64(len(copied.LegalMoves())) * othelloWeightMobility
	}

	score += that.cornerProximityScore(game, row, col) * othelloWeightCornerProximity
	return score
}

func (that *OthelloEvalStrategy) positionScore(size, row, col int) float64 {
	if size == 8 {
		return othelloWeights8x8[row][col]
	}

	// Non-standard boards: corners high, edges mid, interior flat.
	if (row == 0 || row == size-1) && (col == 0 || col == size-1) {
		return 100.0
	}
	if row == 0 || row == size-1 || col == 0 || col == size-1 {
		return 5.0
	}
	return 0.0
}

// cornerProximityScore penalizes X squares while the adjacent corner is
// still empty and rewards corner grabs outright.
func (that *OthelloEvalStrategy) cornerProximityScore(game engine.Game, row, col int) float64 {
	size := game.Board().Size()
	corners := [4]engine.Position{
		{Row: 0, Col: 0}, {Row: 0, Col: size - 1},
		{Row: size - 1, Col: 0}, {Row: size - 1, Col: size - 1},
	}
	xSquares := [4]engine.Position{
		{Row: 1, Col: 1}, {Row: 1, Col: size - 2},
		{Row: size - 2, Col: 1}, {Row: size - 2, Col: size - 2},
	}

	score := 0.0
	for i, square := range xSquares {
		if square.Row != row || square.Col != col {
			continue
		}
		if game.Board().IsEmpty(corners[i].Row, corners[i].Col) {
			score -= 25.0
		} else {
			score += 5.0
		}
	}
	for _, corner := range corners {
		if corner.Row == row && corner.Col == col {
			score += 50.0
		}
	}
	return score
}

// gomokuPatternScores maps run length to its base value; an open run
// (both ends free) counts double.
var gomokuPatternScores = map[int]float64{
	5: 100000,
	4: 10000,
	3: 1000,
	2: 100,
	1: 10,
}

// GomokuEvalStrategy scores each cell by the runs it would extend for
// both sides, weighting attack slightly over defense.
type GomokuEvalStrategy struct{}

func (that *GomokuEvalStrategy) Name() string { return "GomokuEval" }

func (that *GomokuEvalStrategy) SelectMove(game engine.Game) (engine.Position, error) {
	moves := game.LegalMoves()
	if len(moves) == 0 {
		return engine.Position{}, ErrNoAvailableMoves
	}

	player := game.CurrentPlayer()
	opponent := player.Opposite()

	best := moves[0]
	bestScore := math.Inf(-1)
	for _, move := range moves {
		attack := that.evaluatePosition(game, move.Row, move.Col, player)
		defense := that.evaluatePosition(game, move.Row, move.Col, opponent)
		score := attack + defense*0.9
		if score > bestScore {
			bestScore = score
			best = move
		}
	}
	return best, nil
}

func (that *GomokuEvalStrategy) evaluatePosition(game engine.Game, row, col int, player engine.Stone) float64 {
	directions := [4]engine.Position{
		{Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 1, Col: -1},
	}

	score := 0.0
	for _, dir := range directions {
		count, openEnds := that.countLine(game, row, col, dir.Row, dir.Col, player)
		score += that.scorePattern(count, openEnds)
	}
	return score
}

func (that *GomokuEvalStrategy) countLine(game engine.Game, row, col, dr, dc int, player engine.Stone) (int, int) {
	board := game.Board()
	count := 1
	openEnds := 0

	r, c := row+dr, col+dc
	for board.IsOnBoard(r, c) && board.Get(r, c) == player {
		count++
		r += dr
		c += dc
	}
	if board.IsOnBoard(r, c) && board.IsEmpty(r, c) {
		openEnds++
	}

	r, c = row-dr, col-dc
	for board.IsOnBoard(r, c) && board.Get(r, c) == player {
		count++
		r -= dr
		c -= dc
	}
	if board.IsOnBoard(r, c) && board.IsEmpty(r, c) {
		openEnds++
	}

	return count, openEnds
}

func (that *GomokuEvalStrategy) scorePattern(count, openEnds int) float64 {
	if count >= 5 {
		return gomokuPatternScores[5]
	}
	if openEnds == 0 {
		return 0
	}

	base := gomokuPatternScores[count]
	if openEnds == 2 {
		return base * 2
	}
	return base
}

// GoEvalStrategy scores each legal placement by the stones it captures
// and the liberties the placed stone's group keeps, with a mild pull
// toward the board center.
type GoEvalStrategy struct{}

func (that *GoEvalStrategy) Name() string { return "GoEval" }

func (that *GoEvalStrategy) SelectMove(game engine.Game) (engine.Position, error) {
	moves := game.LegalMoves()
	if len(moves) == 0 {
		return engine.Position{}, ErrNoAvailableMoves
	}

	best := moves[0]
	bestScore := math.Inf(-1)
	for _, move := range moves {
		score, ok := that.evaluateMove(game, move.Row, move.Col)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = move
		}
	}

	if math.IsInf(bestScore, -1) {
		// Every candidate was suicidal; legal elsewhere is impossible,
		// so fall back to the first cell and let the engine reject it.
		return moves[0], nil
	}
	return best, nil
}

func (that *GoEvalStrategy) evaluateMove(game engine.Game, row, col int) (float64, bool) {
	copied := game.Clone()
	delta, err := copied.ExecuteMove(row, col)
	if err != nil {
		return 0, false
	}

	score := float64(len(delta.Captured)) * 10.0

	group, liberties := collectGroupLiberties(copied.Board(), row, col)
	score += math.Min(float64(liberties), 4.0)
	score += float64(len(group)) * 0.5

	size := game.Board().Size()
	center := float64(size-1) / 2
	score -= (math.Abs(float64(row)-center) + math.Abs(float64(col)-center)) * 0.1

	return score, true
}

// collectGroupLiberties flood-fills the group at (row, col) and counts
// its distinct liberties.
func collectGroupLiberties(board *engine.Board, row, col int) ([]engine.Position, int) {
	stone := board.Get(row, col)
	if stone == engine.Empty {
		return nil, 0
	}

	visited := map[engine.Position]bool{}
	liberties := map[engine.Position]bool{}
	group := []engine.Position{}
	queue := []engine.Position{{Row: row, Col: col}}
	visited[queue[0]] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		group = append(group, current)

		for _, neighbor := range board.Neighbors(current.Row, current.Col) {
			switch board.Get(neighbor.Row, neighbor.Col) {
			case engine.Empty:
				liberties[neighbor] = true
			case stone:
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
	}

	return group, len(liberties)
}
