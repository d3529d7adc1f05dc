package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/newslingo/newslingo-bot/internal/bot/keyboard"
	"github.com/newslingo/newslingo-bot/internal/language"
	"github.com/newslingo/newslingo-bot/internal/state"
)

// NewStartHandler returns the /start handler. It restarts the onboarding
// dialog from the top regardless of the user's current state, discarding any
// in-flight selection.
func NewStartHandler(fsm state.StateMachine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		ctx := context.Background()
		userID := c.Sender().ID

		log.Debug("user started the bot", slog.Int64("user_id", userID))

		if err := fsm.SetState(ctx, userID, state.StateAwaitingKnownLanguage); err != nil {
			return err
		}

		return c.Send(language.NoticeSelectKnown, keyboard.LanguagePicker())
	}
}
