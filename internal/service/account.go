package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/stonehall/stonehall-backend/internal/apperror"
	"github.com/stonehall/stonehall-backend/internal/entity"
	"github.com/stonehall/stonehall-backend/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

const minPasswordLength = 6

type AccountService interface {
	Register(ctx context.Context, username, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateRecord(ctx context.Context, userID, gameType string, isWin, isDraw bool) error
	AddReplay(ctx context.Context, userID, replayID string) error
	Replays(ctx context.Context, userID string) ([]string, error)
}

type accountService struct {
	users repository.UserRepository
}

func NewAccountService(users repository.UserRepository) AccountService {
	return &accountService{
		users: users,
	}
}

// Register - creates a new account after validating the username
// format and the password strength.
func (that *accountService) Register(ctx context.Context, username, password string) (*entity.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, apperror.ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return nil, apperror.ErrPasswordTooShort
	}

	exists, err := that.users.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, apperror.ErrUserExists
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           "user_" + uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Format(time.RFC3339),
	}
	if err = that.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}

func (that *accountService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := that.users.FindByUsername(ctx, username)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, apperror.ErrWrongPassword
	}

	user.LastLogin = time.Now().Format(time.RFC3339)
	if err = that.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	return user, nil
}

func (that *accountService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := that.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateRecord - adds one game outcome to the user's tally for the
// given game type.
func (that *accountService) UpdateRecord(ctx context.Context, userID, gameType string, isWin, isDraw bool) error {
	user, err := that.users.FindByID(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	record := user.Record(gameType)
	record.TotalGames++
	switch {
	case isDraw:
		record.Draws++
	case isWin:
		record.Wins++
	default:
		record.Losses++
	}

	if err = that.users.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user record: %w", err)
	}
	return nil
}

func (that *accountService) AddReplay(ctx context.Context, userID, replayID string) error {
	user, err := that.users.FindByID(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	user.AddReplay(replayID)
	if err = that.users.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user replays: %w", err)
	}
	return nil
}

func (that *accountService) Replays(ctx context.Context, userID string) ([]string, error) {
	user, err := that.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user.ReplayIDs, nil
}
