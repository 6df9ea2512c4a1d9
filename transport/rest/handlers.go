package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/stonehall/stonehall-backend/internal/apperror"
	"github.com/stonehall/stonehall-backend/internal/entity"
	"github.com/stonehall/stonehall-backend/internal/savegame"
	"github.com/stonehall/stonehall-backend/internal/usecase"
)

type Handlers interface {
	Ping(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Replays(w http.ResponseWriter, r *http.Request)
	Replay(w http.ResponseWriter, r *http.Request)
}

type userUseCase interface {
	Register(ctx context.Context, username, password string) (*usecase.AuthResult, error)
	Login(ctx context.Context, username, password string) (*usecase.AuthResult, error)
	Stats(ctx context.Context, username string) (*entity.User, error)
}

type handlers struct {
	logger    *slog.Logger
	users     userUseCase
	replayDir string
}

func NewHandlers(logger *slog.Logger, users userUseCase, replayDir string) Handlers {
	return &handlers{
		logger:    logger.With("component", "rest"),
		users:     users,
		replayDir: replayDir,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type statsResponse struct {
	Username string                        `json:"username"`
	Records  map[string]*entity.GameRecord `json:"records"`
	Total    entity.GameRecord             `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := that.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		that.writeError(w, statusFor(err), err.Error())
		return
	}

	that.writeJSON(w, http.StatusCreated, authResponse{
		Username: result.User.Username,
		Token:    result.Token,
	})
}

func (that *handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := that.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		that.writeError(w, statusFor(err), err.Error())
		return
	}

	that.writeJSON(w, http.StatusOK, authResponse{
		Username: result.User.Username,
		Token:    result.Token,
	})
}

func (that *handlers) Stats(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := that.users.Stats(r.Context(), username)
	if err != nil {
		that.writeError(w, statusFor(err), err.Error())
		return
	}

	that.writeJSON(w, http.StatusOK, statsResponse{
		Username: user.Username,
		Records:  user.Records,
		Total:    user.TotalStats(),
	})
}

func (that *handlers) Replays(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := that.users.Stats(r.Context(), username)
	if err != nil {
		that.writeError(w, statusFor(err), err.Error())
		return
	}

	that.writeJSON(w, http.StatusOK, map[string][]string{"replay_ids": user.ReplayIDs})
}

// Replay serves one stored replay record by id.
func (that *handlers) Replay(w http.ResponseWriter, r *http.Request) {
	replayID := chi.URLParam(r, "id")

	record, err := savegame.LoadReplay(filepath.Join(that.replayDir, replayID+".json"))
	if err != nil {
		if errors.Is(err, savegame.ErrNotFoundFile) {
			that.writeError(w, http.StatusNotFound, "replay not found")
			return
		}
		that.logger.Error("failed to load replay", "replay_id", replayID, "error", err)
		that.writeError(w, http.StatusInternalServerError, "failed to load replay")
		return
	}

	that.writeJSON(w, http.StatusOK, record)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidUsername),
		errors.Is(err, apperror.ErrPasswordTooShort):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
