package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/newslingo/newslingo-bot/internal/domain"
)

// UserRepository defines persistence operations for learners.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	UpsertKnownLanguage(ctx context.Context, id int64, knownLanguage string) error
	SetTargetLanguage(ctx context.Context, id int64, targetLanguage string) error
	IncrementNewsCount(ctx context.Context, id int64) error
	ListOnboarded(ctx context.Context) ([]*domain.User, error)
}

type userRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewUserRepository creates a new SQL-backed user repository.
func NewUserRepository(db *sql.DB, log *slog.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

// FindByID retrieves a user by their Telegram identifier.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT user_id, COALESCE(known_language, ''), COALESCE(target_language, ''), news_count, created_at
		FROM users
		WHERE user_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.KnownLanguage,
		&user.TargetLanguage,
		&user.NewsCount,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}

		if r.log != nil {
			r.log.Error("failed to fetch user", slog.Int64("user_id", id), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	return &user, nil
}

// UpsertKnownLanguage creates the user row if absent and records the known
// language. Re-onboarding resets the target language so the two-step dialog
// always completes with both fields freshly chosen.
func (r *userRepository) UpsertKnownLanguage(ctx context.Context, id int64, knownLanguage string) error {
	const query = `
		INSERT INTO users (user_id, known_language, news_count, created_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET known_language = EXCLUDED.known_language, target_language = NULL
	`

	if _, err := r.db.ExecContext(ctx, query, id, knownLanguage); err != nil {
		if r.log != nil {
			r.log.Error("failed to upsert known language", slog.Int64("user_id", id), slog.Any("error", err))
		}
		return fmt.Errorf("upsert known language: %w", err)
	}

	return nil
}

// SetTargetLanguage records the target language and marks the first digest
// as delivered by setting news_count to 1.
func (r *userRepository) SetTargetLanguage(ctx context.Context, id int64, targetLanguage string) error {
	const query = `
		UPDATE users
		SET target_language = $2, news_count = 1
		WHERE user_id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, targetLanguage); err != nil {
		if r.log != nil {
			r.log.Error("failed to set target language", slog.Int64("user_id", id), slog.Any("error", err))
		}
		return fmt.Errorf("set target language: %w", err)
	}

	return nil
}

// IncrementNewsCount bumps the broadcast counter by exactly one.
func (r *userRepository) IncrementNewsCount(ctx context.Context, id int64) error {
	const query = `
		UPDATE users
		SET news_count = news_count + 1
		WHERE user_id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		if r.log != nil {
			r.log.Error("failed to increment news count", slog.Int64("user_id", id), slog.Any("error", err))
		}
		return fmt.Errorf("increment news count: %w", err)
	}

	return nil
}

// ListOnboarded returns every user with both language fields populated.
func (r *userRepository) ListOnboarded(ctx context.Context) ([]*domain.User, error) {
	const query = `
		SELECT user_id, known_language, target_language, news_count, created_at
		FROM users
		WHERE known_language IS NOT NULL AND target_language IS NOT NULL
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to list onboarded users", slog.Any("error", err))
		}
		return nil, fmt.Errorf("list onboarded users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.KnownLanguage,
			&user.TargetLanguage,
			&user.NewsCount,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}
