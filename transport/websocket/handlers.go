package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stonehall/stonehall-backend/internal/usecase"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, peer *client) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.manager.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(peer, msg.Action, "failed to create a new player")
	}

	// A token binds the connection to a registered account, so finished
	// games update that account's records.
	if payloadReq.Token != "" {
		user, err := that.users.Authenticate(ctx, payloadReq.Token)
		if err != nil {
			log.Error("failed to authenticate", "error", err)
			return that.sendErrorResponse(peer, msg.Action, "invalid token")
		}
		if player, err = that.manager.BindUser(ctx, player.ID, user.ID); err != nil {
			log.Error("failed to bind user", "error", err)
			return that.sendErrorResponse(peer, msg.Action, "failed to bind account")
		}
	}

	that.registerConnection(player.ID, peer)

	payloadResp := Payload{Player: player}
	if player.GameID != "" {
		if session, err := that.manager.GetSession(ctx, player.GameID); err == nil {
			payloadResp.Game = session
		}
	}

	if err = that.sendMessage(peer, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player connected", "player_id", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, peer *client) error {
	log := that.logger.With("method", "handleNewGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Player is required")
	}
	if payloadReq.GameType == "" {
		log.Error("Game type is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Game type is required")
	}

	that.registerConnection(payloadReq.Player.ID, peer)

	session, err := that.manager.CreateGame(ctx, payloadReq.Player.ID, payloadReq.GameType, payloadReq.Size, payloadReq.SessionType, payloadReq.Difficulty)
	if err != nil {
		log.Error("failed to create game", "game_type", payloadReq.GameType, "error", err)
		return that.sendErrorResponse(peer, msg.Action, fmt.Sprintf("failed to create game: %v", err))
	}

	that.broadcastSession(msg.Action, session, "")

	log.Info("game created", "game_id", session.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, peer *client) error {
	log := that.logger.With("method", "handleJoinGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil || payloadReq.Game == nil {
		log.Error("Player or Game is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Player and Game are required")
	}

	that.registerConnection(payloadReq.Player.ID, peer)

	session, err := that.manager.JoinGame(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "game_id", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(peer, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcastSession(msg.Action, session, "")

	log.Info("player joined game", "game_id", session.ID, "player_id", payloadReq.Player.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, peer *client) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil || payloadReq.Game == nil {
		log.Error("Player or Game is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Player and Game are required")
	}
	if payloadReq.Row == nil || payloadReq.Col == nil {
		log.Error("Position is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Row and Col are required")
	}

	that.registerConnection(payloadReq.Player.ID, peer)

	result, err := that.manager.MakeMove(ctx, payloadReq.Game.ID, payloadReq.Player.ID, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		log.Error("failed to make turn", "game_id", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(peer, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcastSession(msg.Action, result.Session, result.Message)

	log.Info("player made a turn", "game_id", result.Session.ID, "player_id", payloadReq.Player.ID)

	return nil
}

func (that *Server) handleGamePass(ctx context.Context, msg *Message, peer *client) error {
	return that.handleSimpleAction(ctx, msg, peer, "handleGamePass", that.manager.Pass)
}

func (that *Server) handleGameResign(ctx context.Context, msg *Message, peer *client) error {
	return that.handleSimpleAction(ctx, msg, peer, "handleGameResign", that.manager.Resign)
}

func (that *Server) handleGameUndo(ctx context.Context, msg *Message, peer *client) error {
	return that.handleSimpleAction(ctx, msg, peer, "handleGameUndo", that.manager.Undo)
}

// handleSimpleAction covers the actions that only need a seat and a
// session: pass, resign and undo.
func (that *Server) handleSimpleAction(
	ctx context.Context,
	msg *Message,
	peer *client,
	method string,
	action func(ctx context.Context, gameID, playerID string) (*usecase.TurnResult, error),
) error {
	log := that.logger.With("method", method)

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil || payloadReq.Game == nil {
		log.Error("Player or Game is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Player and Game are required")
	}

	that.registerConnection(payloadReq.Player.ID, peer)

	result, err := action(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("action failed", "game_id", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(peer, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcastSession(msg.Action, result.Session, result.Message)

	return nil
}

func (that *Server) handleGameLegal(ctx context.Context, msg *Message, peer *client) error {
	log := that.logger.With("method", "handleGameLegal")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Game == nil {
		log.Error("Game is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Game is required")
	}

	moves, err := that.manager.LegalMoves(ctx, payloadReq.Game.ID)
	if err != nil {
		log.Error("failed to get legal moves", "game_id", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(peer, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	return that.sendMessage(peer, msg.Action, Payload{LegalMoves: moves})
}

func (that *Server) handleGameSave(ctx context.Context, msg *Message, peer *client) error {
	log := that.logger.With("method", "handleGameSave")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Game == nil || payloadReq.Name == "" {
		log.Error("Game or save name is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Game and Name are required")
	}

	path, err := that.manager.SaveGame(ctx, payloadReq.Game.ID, payloadReq.Name)
	if err != nil {
		log.Error("failed to save game", "game_id", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(peer, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	log.Info("game saved", "game_id", payloadReq.Game.ID, "path", path)

	return that.sendMessage(peer, msg.Action, Payload{Path: path})
}

func (that *Server) handleGameLoad(ctx context.Context, msg *Message, peer *client) error {
	log := that.logger.With("method", "handleGameLoad")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil || payloadReq.Name == "" {
		log.Error("Player or save name is missing in payload")
		return that.sendErrorResponse(peer, msg.Action, "Player and Name are required")
	}

	that.registerConnection(payloadReq.Player.ID, peer)

	session, err := that.manager.LoadGame(ctx, payloadReq.Player.ID, payloadReq.Name, payloadReq.SessionType, payloadReq.Difficulty)
	if err != nil {
		log.Error("failed to load game", "name", payloadReq.Name, "error", err)
		return that.sendErrorResponse(peer, msg.Action, fmt.Sprintf("save %s: %v", payloadReq.Name, err))
	}

	that.broadcastSession(msg.Action, session, "")

	log.Info("game loaded", "game_id", session.ID, "name", payloadReq.Name)

	return nil
}
