package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stonehall/stonehall-backend/internal/engine"
	"github.com/stonehall/stonehall-backend/internal/entity"
	"github.com/stonehall/stonehall-backend/internal/usecase"
)

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)
	BindUser(ctx context.Context, playerID, userID string) (*entity.Player, error)

	CreateGame(ctx context.Context, playerID, gameType string, size int, sessionType string, difficulty int) (*entity.GameSession, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.GameSession, error)
	GetSession(ctx context.Context, gameID string) (*entity.GameSession, error)

	MakeMove(ctx context.Context, gameID, playerID string, row, col int) (*usecase.TurnResult, error)
	Pass(ctx context.Context, gameID, playerID string) (*usecase.TurnResult, error)
	Resign(ctx context.Context, gameID, playerID string) (*usecase.TurnResult, error)
	Undo(ctx context.Context, gameID, playerID string) (*usecase.TurnResult, error)
	LegalMoves(ctx context.Context, gameID string) ([]engine.Position, error)

	SaveGame(ctx context.Context, gameID, name string) (string, error)
	LoadGame(ctx context.Context, playerID, name, sessionType string, difficulty int) (*entity.GameSession, error)
}

type userAuth interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// client is one connected peer. Gorilla connections allow a single
// concurrent writer, so every write goes through the client mutex.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (that *client) send(message *Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.conn.WriteJSON(message)
}

type Server struct {
	logger  *slog.Logger
	manager gameManager
	users   userAuth

	connectionsMutex sync.RWMutex
	connections      map[string]*client

	handlers map[string]func(ctx context.Context, message *Message, peer *client) error

	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, manager gameManager, users userAuth) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		manager:     manager,
		users:       users,
		connections: make(map[string]*client),
		handlers:    make(map[string]func(context.Context, *Message, *client) error),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:new"] = server.handleNewGame
	server.handlers["game:join"] = server.handleJoinGame
	server.handlers["game:turn"] = server.handleGameTurn
	server.handlers["game:pass"] = server.handleGamePass
	server.handlers["game:resign"] = server.handleGameResign
	server.handlers["game:undo"] = server.handleGameUndo
	server.handlers["game:legal"] = server.handleGameLegal
	server.handlers["game:save"] = server.handleGameSave
	server.handlers["game:load"] = server.handleGameLoad

	return server
}

// Start - starts the gameplay WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	peer := &client{conn: conn}
	that.handleMessages(ctx, peer)
	that.dropConnection(peer)
}

// handleMessages - processes messages from the client until the
// connection drops.
func (that *Server) handleMessages(ctx context.Context, peer *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := peer.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			if err := that.sendErrorResponse(peer, message.Action, "unknown action"); err != nil {
				return
			}
			continue
		}

		if err := handler(ctx, &message, peer); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) registerConnection(playerID string, peer *client) {
	that.connectionsMutex.Lock()
	that.connections[playerID] = peer
	that.connectionsMutex.Unlock()
}

func (that *Server) dropConnection(peer *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for playerID, connection := range that.connections {
		if connection == peer {
			delete(that.connections, playerID)
			that.logger.Info("player disconnected", "player_id", playerID)
			return
		}
	}
}

func (that *Server) sendMessage(peer *client, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: payloadBytes,
	}

	if err = peer.send(&response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(peer *client, action, errorMsg string) error {
	if err := that.sendMessage(peer, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}
	return nil
}

// broadcastSession pushes a session snapshot to every seated human.
func (that *Server) broadcastSession(action string, session *entity.GameSession, message string) {
	log := that.logger.With("method", "broadcastSession", "game_id", session.ID)

	for _, player := range session.Players {
		if player.IsBot() {
			continue
		}

		that.connectionsMutex.RLock()
		conn, ok := that.connections[player.ID]
		that.connectionsMutex.RUnlock()

		if !ok {
			log.Warn("connection not found for player", "player_id", player.ID)
			continue
		}

		payload := Payload{
			Player:  player,
			Game:    session,
			Message: message,
		}

		if err := that.sendMessage(conn, action, payload); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	}
}
