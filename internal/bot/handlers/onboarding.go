package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/newslingo/newslingo-bot/internal/bot/keyboard"
	"github.com/newslingo/newslingo-bot/internal/digest"
	"github.com/newslingo/newslingo-bot/internal/domain"
	"github.com/newslingo/newslingo-bot/internal/language"
	"github.com/newslingo/newslingo-bot/internal/news"
	"github.com/newslingo/newslingo-bot/internal/repository"
	"github.com/newslingo/newslingo-bot/internal/state"
)

// NewKnownLanguageHandler validates the first onboarding selection. An
// unknown label re-prompts without touching state or the database; a valid
// one persists the canonical tag (creating the user row) and advances the
// dialog.
func NewKnownLanguageHandler(
	fsm state.StateMachine,
	users repository.UserRepository,
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
		input := c.Text()

		tag, ok := language.Resolve(input)
		if !ok {
			log.Debug("invalid known language selection", slog.Int64("user_id", userID), slog.String("input", input))
			return c.Send(language.NoticeInvalidKnown, keyboard.LanguagePicker())
		}

		log.Debug("known language selected", slog.Int64("user_id", userID), slog.String("language", tag))

		if err := users.UpsertKnownLanguage(ctx, userID, tag); err != nil {
			return err
		}

		if err := fsm.TransitionTo(ctx, userID, state.StateAwaitingTargetLanguage); err != nil {
			return err
		}

		return c.Send(language.NoticeSelectTarget, keyboard.LanguagePicker())
	}
}

// NewTargetLanguageHandler validates the second onboarding selection and,
// once both languages are persisted, synchronously delivers the first news
// digest: fetch headline, translate and summarize, seed a fresh transcript,
// send, then end the dialog.
func NewTargetLanguageHandler(
	fsm state.StateMachine,
	users repository.UserRepository,
	transcripts repository.TranscriptRepository,
	fetcher *news.Fetcher,
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
		input := c.Text()

		tag, ok := language.Resolve(input)
		if !ok {
			log.Debug("invalid target language selection", slog.Int64("user_id", userID), slog.String("input", input))
			return c.Send(language.NoticeInvalidTarget, keyboard.LanguagePicker())
		}

		log.Debug("target language selected", slog.Int64("user_id", userID), slog.String("language", tag))

		if err := users.SetTargetLanguage(ctx, userID, tag); err != nil {
			return err
		}

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		if err := c.Send(language.NoticeLoading); err != nil {
			return err
		}

		headline, err := fetcher.TopHeadline(ctx)
		if err != nil {
			return err
		}

		translated, err := digests.TranslateAndSummarize(ctx, headline, user.KnownLanguage, user.TargetLanguage, userID)
		if err != nil {
			return err
		}

		seed := []domain.Message{{Role: domain.RoleAssistant, Content: translated}}
		if err := transcripts.Replace(ctx, userID, userID, seed); err != nil {
			return err
		}

		if err := c.Send(translated); err != nil {
			return err
		}

		return fsm.ClearState(ctx, userID)
	}
}
