package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stonehall/stonehall-backend/internal/apperror"
	"github.com/stonehall/stonehall-backend/internal/entity"
)

type UserRepository interface {
	Save(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Exists(ctx context.Context, username string) (bool, error)
}

type userRepository struct {
	conn *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (that *userRepository) Save(ctx context.Context, user *entity.User) error {
	records, err := json.Marshal(user.Records)
	if err != nil {
		return fmt.Errorf("can't marshal user records: %w", err)
	}
	replayIDs, err := json.Marshal(user.ReplayIDs)
	if err != nil {
		return fmt.Errorf("can't marshal replay ids: %w", err)
	}

	query := `INSERT INTO users (id, username, password_hash, created_at, last_login, records, replay_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			password_hash = excluded.password_hash,
			last_login = excluded.last_login,
			records = excluded.records,
			replay_ids = excluded.replay_ids`

	_, err = that.conn.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt, user.LastLogin, string(records), string(replayIDs))
	if err != nil {
		return fmt.Errorf("can't save user: %w", err)
	}

	return nil
}

func (that *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT id, username, password_hash, created_at, last_login, records, replay_ids
		FROM users WHERE username = ? COLLATE NOCASE`

	return that.scanUser(that.conn.QueryRowContext(ctx, query, username))
}

func (that *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, username, password_hash, created_at, last_login, records, replay_ids
		FROM users WHERE id = ?`

	return that.scanUser(that.conn.QueryRowContext(ctx, query, id))
}

func (that *userRepository) Exists(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(1) FROM users WHERE username = ? COLLATE NOCASE`

	var count int
	if err := that.conn.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		return false, fmt.Errorf("can't check user existence: %w", err)
	}

	return count > 0, nil
}

func (that *userRepository) scanUser(row *sql.Row) (*entity.User, error) {
	var user entity.User
	var lastLogin sql.NullString
	var records, replayIDs sql.NullString

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &lastLogin, &records, &replayIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	user.LastLogin = lastLogin.String
	if records.Valid && records.String != "" {
		if err = json.Unmarshal([]byte(records.String), &user.Records); err != nil {
			return nil, fmt.Errorf("can't unmarshal user records: %w", err)
		}
	}
	if replayIDs.Valid && replayIDs.String != "" {
		if err = json.Unmarshal([]byte(replayIDs.String), &user.ReplayIDs); err != nil {
			return nil, fmt.Errorf("can't unmarshal replay ids: %w", err)
		}
	}

	return &user, nil
}
