package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/newslingo/newslingo-bot/internal/domain"
)

// UsageRepository maintains the per-user token ledger. Counts are only ever
// added to; there is no overwrite path.
type UsageRepository interface {
	Add(ctx context.Context, userID int64, inputTokens, outputTokens int) error
	Totals(ctx context.Context, userID int64) (*domain.UsageTotals, error)
}

type usageRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewUsageRepository creates a new SQL-backed usage ledger.
func NewUsageRepository(db *sql.DB, log *slog.Logger) UsageRepository {
	return &usageRepository{
		db:  db,
		log: log,
	}
}

// Add upserts the ledger row for the user, adding the reported counts to any
// existing totals.
func (r *usageRepository) Add(ctx context.Context, userID int64, inputTokens, outputTokens int) error {
	const query = `
		INSERT INTO token_usage (user_id, input_tokens, output_tokens)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET input_tokens = token_usage.input_tokens + EXCLUDED.input_tokens,
		    output_tokens = token_usage.output_tokens + EXCLUDED.output_tokens
	`

	if _, err := r.db.ExecContext(ctx, query, userID, inputTokens, outputTokens); err != nil {
		if r.log != nil {
			r.log.Error("failed to record token usage", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return fmt.Errorf("record token usage: %w", err)
	}

	return nil
}

// Totals returns the cumulative counts for the user; an absent row reads as
// zeros.
func (r *usageRepository) Totals(ctx context.Context, userID int64) (*domain.UsageTotals, error) {
	const query = `
		SELECT user_id, input_tokens, output_tokens
		FROM token_usage
		WHERE user_id = $1
	`

	var totals domain.UsageTotals
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&totals.UserID,
		&totals.InputTokens,
		&totals.OutputTokens,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.UsageTotals{UserID: userID}, nil
		}

		if r.log != nil {
			r.log.Error("failed to fetch token usage", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select token usage: %w", err)
	}

	return &totals, nil
}
