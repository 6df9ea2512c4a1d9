package usecase

import (
	"context"
	"fmt"

	"github.com/stonehall/stonehall-backend/internal/entity"
)

// AuthResult is a logged-in identity: the user plus a signed token.
type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

type UserUseCase interface {
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	Stats(ctx context.Context, username string) (*entity.User, error)
}

type accountsDep interface {
	Register(ctx context.Context, username, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

type authDep interface {
	GenerateToken(username string) (string, error)
	ParseToken(tokenString string) (string, error)
}

type userUseCase struct {
	accounts accountsDep
	auth     authDep
}

func NewUserUseCase(accounts accountsDep, auth authDep) UserUseCase {
	return &userUseCase{
		accounts: accounts,
		auth:     auth,
	}
}

func (that *userUseCase) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := that.accounts.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := that.auth.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (that *userUseCase) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := that.accounts.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := that.auth.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token back to its user.
func (that *userUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	username, err := that.auth.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := that.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (that *userUseCase) Stats(ctx context.Context, username string) (*entity.User, error) {
	return that.accounts.GetByUsername(ctx, username)
}
