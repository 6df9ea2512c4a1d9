package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/stonehall/stonehall-backend/internal/apperror"
	"github.com/stonehall/stonehall-backend/internal/engine"
	"github.com/stonehall/stonehall-backend/internal/entity"
	"github.com/stonehall/stonehall-backend/internal/replay"
	"github.com/stonehall/stonehall-backend/internal/savegame"
	"github.com/stonehall/stonehall-backend/internal/service"
)

// TurnResult is what one player action produced: the updated session
// snapshot plus the engine's message for the action.
type TurnResult struct {
	Session *entity.GameSession `json:"session"`
	Message string              `json:"message,omitempty"`
}

type GameManager interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)
	BindUser(ctx context.Context, playerID, userID string) (*entity.Player, error)

	CreateGame(ctx context.Context, playerID, gameType string, size int, sessionType string, difficulty int) (*entity.GameSession, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.GameSession, error)
	GetSession(ctx context.Context, gameID string) (*entity.GameSession, error)

	MakeMove(ctx context.Context, gameID, playerID string, row, col int) (*TurnResult, error)
	Pass(ctx context.Context, gameID, playerID string) (*TurnResult, error)
	Resign(ctx context.Context, gameID, playerID string) (*TurnResult, error)
	Undo(ctx context.Context, gameID, playerID string) (*TurnResult, error)
	LegalMoves(ctx context.Context, gameID string) ([]engine.Position, error)

	SaveGame(ctx context.Context, gameID, name string) (string, error)
	LoadGame(ctx context.Context, playerID, name, sessionType string, difficulty int) (*entity.GameSession, error)
}

type sessionRepoDep interface {
	CreateOrUpdate(ctx context.Context, session *entity.GameSession) error
	GetByID(ctx context.Context, id string) (*entity.GameSession, error)
	DeleteByID(ctx context.Context, id string) error
}

type playerRepoDep interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	DeleteByID(ctx context.Context, id string) error
}

type botServiceDep interface {
	StrategyFor(gameType string, difficulty int) service.Strategy
}

type accountServiceDep interface {
	UpdateRecord(ctx context.Context, userID, gameType string, isWin, isDraw bool) error
	AddReplay(ctx context.Context, userID, replayID string) error
}

// gameManager owns the live engine instances. The engine itself is
// single-threaded, so every operation on a game runs under the manager
// mutex; redis holds the serialized session snapshots.
type gameManager struct {
	logger *slog.Logger

	mu        sync.Mutex
	games     map[string]engine.Game
	recorders map[string]*replay.Recorder

	registry *engine.Registry
	sessions sessionRepoDep
	players  playerRepoDep
	bots     botServiceDep
	accounts accountServiceDep

	saveDir   string
	replayDir string
}

func NewGameManager(
	logger *slog.Logger,
	registry *engine.Registry,
	sessions sessionRepoDep,
	players playerRepoDep,
	bots botServiceDep,
	accounts accountServiceDep,
	saveDir, replayDir string,
) GameManager {
	return &gameManager{
		logger:    logger.With("component", "game_manager"),
		games:     make(map[string]engine.Game),
		recorders: make(map[string]*replay.Recorder),
		registry:  registry,
		sessions:  sessions,
		players:   players,
		bots:      bots,
		accounts:  accounts,
		saveDir:   saveDir,
		replayDir: replayDir,
	}
}

func (that *gameManager) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID != "" {
		player, err := that.players.GetByID(ctx, playerID)
		if err == nil {
			return player, nil
		}
	}

	player := &entity.Player{ID: "player_" + uuid.NewString()}
	if err := that.players.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("could not create player: %w", err)
	}

	return player, nil
}

// BindUser attaches a logged-in account to a player, so finished games
// update that account's records.
func (that *gameManager) BindUser(ctx context.Context, playerID, userID string) (*entity.Player, error) {
	player, err := that.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("could not get player: %w", err)
	}

	player.UserID = userID
	if err = that.players.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("could not update player: %w", err)
	}

	return player, nil
}

// CreateGame starts a new match. The creator always takes black; a bot
// session seats the bot as white and starts immediately, a public
// session waits for a second player.
func (that *gameManager) CreateGame(ctx context.Context, playerID, gameType string, size int, sessionType string, difficulty int) (*entity.GameSession, error) {
	game, err := that.registry.Create(gameType, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	session := &entity.GameSession{
		ID:       "game_" + uuid.NewString(),
		GameType: game.Name(),
		Size:     game.Board().Size(),
		Status:   entity.StatusWaiting,
		Type:     sessionType,
	}

	session.Players = append(session.Players, that.seatFor(ctx, playerID, session.ID, engine.Black))

	if sessionType == entity.WithBotType {
		bot := &entity.Player{
			ID:         "bot_" + uuid.NewString(),
			Color:      string(engine.White),
			GameID:     session.ID,
			Bot:        true,
			Difficulty: difficulty,
		}
		session.Players = append(session.Players, bot)
		session.Status = entity.StatusOngoing
	}

	recorder := replay.NewRecorder(game.Name(), game.Board().Size(), that.seatName(session, engine.Black), that.seatName(session, engine.White), "")
	recorder.SetInitialBoard(game.Board())

	that.mu.Lock()
	that.games[session.ID] = game
	that.recorders[session.ID] = recorder
	syncSession(session, game)
	that.mu.Unlock()

	if err = that.persistSession(ctx, session); err != nil {
		return nil, err
	}

	that.logger.Info("game created", "game_id", session.ID, "game_type", game.Name(), "size", session.Size, "type", sessionType)

	return session, nil
}

// JoinGame seats a second player as white and starts the match.
func (that *gameManager) JoinGame(ctx context.Context, gameID, playerID string) (*entity.GameSession, error) {
	session, err := that.sessions.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}

	if !session.IsWaiting() {
		return nil, apperror.ErrGameAlreadyExists
	}
	if session.PlayerByID(playerID) != nil {
		return nil, apperror.ErrGameAlreadyExists
	}

	session.Players = append(session.Players, that.seatFor(ctx, playerID, session.ID, engine.White))
	session.Status = entity.StatusOngoing

	if err = that.persistSession(ctx, session); err != nil {
		return nil, err
	}

	that.logger.Info("player joined", "game_id", session.ID, "player_id", playerID)

	return session, nil
}

func (that *gameManager) GetSession(ctx context.Context, gameID string) (*entity.GameSession, error) {
	session, err := that.sessions.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	return session, nil
}

func (that *gameManager) MakeMove(ctx context.Context, gameID, playerID string, row, col int) (*TurnResult, error) {
	return that.playAction(ctx, gameID, playerID, func(game engine.Game, recorder *replay.Recorder) (string, error) {
		player := game.CurrentPlayer()
		message, err := engine.NewMoveCommand(game, row, col).Execute()
		if err != nil {
			return "", err
		}
		recorder.RecordMove(replay.ActionMove, &engine.Position{Row: row, Col: col}, player, game.Board())
		return message, nil
	})
}

func (that *gameManager) Pass(ctx context.Context, gameID, playerID string) (*TurnResult, error) {
	return that.playAction(ctx, gameID, playerID, func(game engine.Game, recorder *replay.Recorder) (string, error) {
		player := game.CurrentPlayer()
		message, err := engine.NewPassCommand(game).Execute()
		if err != nil {
			return "", err
		}
		recorder.RecordMove(replay.ActionPass, nil, player, game.Board())
		return message, nil
	})
}

func (that *gameManager) Resign(ctx context.Context, gameID, playerID string) (*TurnResult, error) {
	return that.playAction(ctx, gameID, playerID, func(game engine.Game, recorder *replay.Recorder) (string, error) {
		player := game.CurrentPlayer()
		message, err := engine.NewResignCommand(game).Execute()
		if err != nil {
			return "", err
		}
		recorder.RecordMove(replay.ActionResign, nil, player, game.Board())
		return message, nil
	})
}

// Undo takes back the last action. In a bot session it takes back the
// bot's reply as well, so the human is to play again.
func (that *gameManager) Undo(ctx context.Context, gameID, playerID string) (*TurnResult, error) {
	session, err := that.sessions.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	if err = session.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	seat := session.PlayerByID(playerID)
	if seat == nil {
		return nil, apperror.ErrNotFound
	}

	that.mu.Lock()
	game, ok := that.games[gameID]
	if !ok {
		that.mu.Unlock()
		return nil, apperror.ErrGameNotFound
	}
	recorder := that.recorders[gameID]

	message, err := that.undoOnce(game, recorder)
	if err != nil {
		that.mu.Unlock()
		return nil, err
	}

	if session.IsWithBot() && game.CanUndo() && string(game.CurrentPlayer()) != seat.Color {
		if message, err = that.undoOnce(game, recorder); err != nil {
			that.mu.Unlock()
			return nil, err
		}
	}

	syncSession(session, game)
	that.mu.Unlock()

	if err = that.persistSession(ctx, session); err != nil {
		return nil, err
	}

	return &TurnResult{Session: session, Message: message}, nil
}

func (that *gameManager) undoOnce(game engine.Game, recorder *replay.Recorder) (string, error) {
	hadHistory := game.CanUndo()
	message, err := game.UndoLast()
	if err != nil {
		return "", err
	}
	if hadHistory {
		recorder.DropLast()
	}
	return message, nil
}

func (that *gameManager) LegalMoves(_ context.Context, gameID string) ([]engine.Position, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[gameID]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}
	return game.LegalMoves(), nil
}

// SaveGame writes the live game and its replay so far to a named save
// file and returns the path.
func (that *gameManager) SaveGame(_ context.Context, gameID, name string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[gameID]
	if !ok {
		return "", apperror.ErrGameNotFound
	}
	recorder := that.recorders[gameID]

	path := filepath.Join(that.saveDir, name+".json")
	if err := savegame.Save(game, path, recorder.Export()); err != nil {
		return "", fmt.Errorf("failed to save game: %w", err)
	}

	that.logger.Info("game saved", "game_id", gameID, "path", path)

	return path, nil
}

// LoadGame restores a named save into a fresh session. The loading
// player takes black; a bot session continues against the bot even
// when the save left white to play.
func (that *gameManager) LoadGame(ctx context.Context, playerID, name, sessionType string, difficulty int) (*entity.GameSession, error) {
	path := filepath.Join(that.saveDir, name+".json")
	game, record, err := savegame.Load(that.registry, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	session := &entity.GameSession{
		ID:       "game_" + uuid.NewString(),
		GameType: game.Name(),
		Size:     game.Board().Size(),
		Status:   entity.StatusWaiting,
		Type:     sessionType,
	}

	session.Players = append(session.Players, that.seatFor(ctx, playerID, session.ID, engine.Black))

	if sessionType == entity.WithBotType {
		bot := &entity.Player{
			ID:         "bot_" + uuid.NewString(),
			Color:      string(engine.White),
			GameID:     session.ID,
			Bot:        true,
			Difficulty: difficulty,
		}
		session.Players = append(session.Players, bot)
		session.Status = entity.StatusOngoing
	}

	var recorder *replay.Recorder
	if record != nil {
		recorder = replay.Resume(record)
	} else {
		recorder = replay.NewRecorder(game.Name(), game.Board().Size(), that.seatName(session, engine.Black), that.seatName(session, engine.White), "")
		recorder.SetInitialBoard(game.Board())
	}

	that.mu.Lock()
	that.games[session.ID] = game
	that.recorders[session.ID] = recorder

	if session.IsOngoing() && !game.IsOver() {
		if err = that.runBotTurns(session, game, recorder); err != nil {
			that.mu.Unlock()
			return nil, err
		}
	}

	syncSession(session, game)
	that.mu.Unlock()

	if err = that.persistSession(ctx, session); err != nil {
		return nil, err
	}

	if session.IsFinished() {
		that.finishGame(ctx, session, game)
	}

	that.logger.Info("game loaded", "game_id", session.ID, "name", name, "game_type", game.Name())

	return session, nil
}

// playAction runs one human action under the manager lock, lets the
// bot reply, syncs the session and handles completion.
func (that *gameManager) playAction(ctx context.Context, gameID, playerID string, action func(engine.Game, *replay.Recorder) (string, error)) (*TurnResult, error) {
	session, err := that.sessions.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	if err = session.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	seat := session.PlayerByID(playerID)
	if seat == nil {
		return nil, apperror.ErrNotFound
	}

	that.mu.Lock()
	game, ok := that.games[gameID]
	if !ok {
		that.mu.Unlock()
		return nil, apperror.ErrGameNotFound
	}
	recorder := that.recorders[gameID]

	if string(game.CurrentPlayer()) != seat.Color {
		that.mu.Unlock()
		return nil, apperror.ErrNotYourTurn
	}

	message, err := action(game, recorder)
	if err != nil {
		that.mu.Unlock()
		return nil, err
	}

	if !game.IsOver() {
		if err = that.runBotTurns(session, game, recorder); err != nil {
			that.mu.Unlock()
			return nil, err
		}
	}

	syncSession(session, game)
	that.mu.Unlock()

	if err = that.persistSession(ctx, session); err != nil {
		return nil, err
	}

	if session.IsFinished() {
		that.finishGame(ctx, session, game)
	}

	return &TurnResult{Session: session, Message: message}, nil
}

// runBotTurns plays bot actions until a human is to move or the game
// ends. Caller holds the manager lock.
func (that *gameManager) runBotTurns(session *entity.GameSession, game engine.Game, recorder *replay.Recorder) error {
	bot := session.BotPlayer()
	if bot == nil {
		return nil
	}

	for !game.IsOver() && string(game.CurrentPlayer()) == bot.Color {
		player := game.CurrentPlayer()

		if game.MustPass() {
			if _, err := engine.NewPassCommand(game).Execute(); err != nil {
				return fmt.Errorf("bot failed to pass: %w", err)
			}
			recorder.RecordMove(replay.ActionPass, nil, player, game.Board())
			continue
		}

		strategy := that.bots.StrategyFor(game.Name(), bot.Difficulty)
		position, err := strategy.SelectMove(game)
		if err != nil {
			return fmt.Errorf("bot failed to select move: %w", err)
		}
		if _, err = engine.NewMoveCommand(game, position.Row, position.Col).Execute(); err != nil {
			return fmt.Errorf("bot failed to make turn: %w", err)
		}
		recorder.RecordMove(replay.ActionMove, &position, player, game.Board())
	}

	return nil
}

// finishGame finalizes the replay, persists it, updates account
// records for seated users and drops the live instance.
func (that *gameManager) finishGame(ctx context.Context, session *entity.GameSession, game engine.Game) {
	that.mu.Lock()
	recorder := that.recorders[session.ID]
	if recorder != nil {
		recorder.Finalize(game.Winner(), game.Board())
	}
	delete(that.games, session.ID)
	delete(that.recorders, session.ID)
	that.mu.Unlock()

	var replayID string
	if recorder != nil {
		replayID = "replay_" + uuid.NewString()
		path := filepath.Join(that.replayDir, replayID+".json")
		if err := savegame.SaveReplay(recorder.Export(), path); err != nil {
			that.logger.Error("failed to save replay", "game_id", session.ID, "error", err)
			replayID = ""
		}
	}

	winner := game.Winner()
	for _, seat := range session.Players {
		if seat.UserID == "" {
			continue
		}
		isDraw := winner == engine.Empty
		isWin := !isDraw && string(winner) == seat.Color
		if err := that.accounts.UpdateRecord(ctx, seat.UserID, session.GameType, isWin, isDraw); err != nil {
			that.logger.Error("failed to update record", "user_id", seat.UserID, "error", err)
		}
		if replayID != "" {
			if err := that.accounts.AddReplay(ctx, seat.UserID, replayID); err != nil {
				that.logger.Error("failed to attach replay", "user_id", seat.UserID, "error", err)
			}
		}
	}

	that.logger.Info("game finished", "game_id", session.ID, "winner", winner.Name(), "replay_id", replayID)
}

func (that *gameManager) persistSession(ctx context.Context, session *entity.GameSession) error {
	if err := that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to store game session: %w", err)
	}
	for _, seat := range session.Players {
		if seat.IsBot() {
			continue
		}
		if err := that.players.CreateOrUpdate(ctx, seat); err != nil {
			return fmt.Errorf("failed to store player: %w", err)
		}
	}
	return nil
}

// seatFor builds a session seat, carrying over the account id when the
// player has logged in.
func (that *gameManager) seatFor(ctx context.Context, playerID, gameID string, color engine.Stone) *entity.Player {
	seat := &entity.Player{
		ID:     playerID,
		Color:  string(color),
		GameID: gameID,
	}
	if known, err := that.players.GetByID(ctx, playerID); err == nil {
		seat.UserID = known.UserID
	}
	return seat
}

func (that *gameManager) seatName(session *entity.GameSession, color engine.Stone) string {
	for _, seat := range session.Players {
		if seat.Color == string(color) {
			if seat.IsBot() {
				return "Bot"
			}
			return seat.ID
		}
	}
	return ""
}

// syncSession flattens the live engine state into the session snapshot.
func syncSession(session *entity.GameSession, game engine.Game) {
	session.Board = game.Board().Encode()
	session.CurrentPlayer = string(game.CurrentPlayer())
	session.Winner = ""
	if game.Winner() != engine.Empty {
		session.Winner = string(game.Winner())
	}
	session.IsOver = game.IsOver()
	session.PassCount = game.PassCount()
	if game.IsOver() {
		session.Status = entity.StatusFinished
	}
}
