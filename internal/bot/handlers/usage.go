package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/newslingo/newslingo-bot/internal/repository"
)

// NewUsageHandler returns the /usage command handler reporting the user's
// cumulative token consumption from the ledger.
func NewUsageHandler(usage repository.UsageRepository, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		userID := c.Sender().ID

		totals, err := usage.Totals(ctx, userID)
		if err != nil {
			if log != nil {
				log.Error("usage handler failed to fetch totals", slog.Int64("user_id", userID), slog.Any("error", err))
			}
			return err
		}

		message := fmt.Sprintf(
			"📊 Token usage\n\nInput tokens: %d\nOutput tokens: %d",
			totals.InputTokens,
			totals.OutputTokens,
		)

		return c.Send(message)
	}
}
