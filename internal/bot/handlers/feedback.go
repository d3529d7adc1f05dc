package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/newslingo/newslingo-bot/internal/digest"
	"github.com/newslingo/newslingo-bot/internal/domain"
	"github.com/newslingo/newslingo-bot/internal/repository"
)

// NewFeedbackHandler handles free text from users who are not mid-dialog:
// the message is appended to the transcript, the feedback engine evaluates
// it against the latest digest, and its reply is appended and delivered.
// Users without a completed profile are ignored.
func NewFeedbackHandler(
	users repository.UserRepository,
	transcripts repository.TranscriptRepository,
	digests *digest.Service,
	log *slog.Logger,
) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		userID := c.Sender().ID
		text := c.Text()

		log.Debug("user sent message", slog.Int64("user_id", userID))

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		if !user.Onboarded() {
			return nil
		}

		transcript, err := transcripts.Get(ctx, userID)
		if err != nil {
			return err
		}

		transcript = append(transcript, domain.Message{Role: domain.RoleUser, Content: text})

		feedback, err := digests.Feedback(ctx, transcript, user.KnownLanguage, user.TargetLanguage, userID)
		if err != nil {
			return err
		}

		transcript = append(transcript, domain.Message{Role: domain.RoleAssistant, Content: feedback})

		if err := transcripts.Save(ctx, userID, transcript); err != nil {
			return err
		}

		return c.Send(feedback)
	}
}
