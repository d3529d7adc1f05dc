package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/newslingo/newslingo-bot/internal/bot/handlers"
	"github.com/newslingo/newslingo-bot/internal/digest"
	errors "github.com/newslingo/newslingo-bot/internal/errors"
	"github.com/newslingo/newslingo-bot/internal/news"
	"github.com/newslingo/newslingo-bot/internal/repository"
	"github.com/newslingo/newslingo-bot/internal/state"
	"github.com/newslingo/newslingo-bot/pkg/config"
)

const (
	CommandStart = "/start"
	CommandUsage = "/usage"
)

// Bot wraps telebot.Bot with the application dependencies required for
// handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	fsm        state.StateMachine
	router     *Router
	dispatcher *Dispatcher
	errHandler *errors.Handler
}

// Deps bundles the collaborators the handlers need.
type Deps struct {
	FSM         state.StateMachine
	Users       repository.UserRepository
	Transcripts repository.TranscriptRepository
	Usage       repository.UsageRepository
	Fetcher     *news.Fetcher
	Digests     *digest.Service
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, log *slog.Logger, deps Deps) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen: cfg.Bot.WebhookAddr,
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	dispatcher := NewDispatcher(deps.FSM, log)
	router := NewRouter(dispatcher, log)
	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		fsm:        deps.FSM,
		router:     router,
		dispatcher: dispatcher,
		errHandler: errHandler,
	}

	b.setupRouter(deps, log)

	b.telebot.Handle(telebot.OnText, b.router.Route)

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot...")
	}

	b.telebot.Stop()
}

// Send delivers a plain text message to the given chat. Used by the
// broadcast job, which has no inbound update context.
func (b *Bot) Send(chatID int64, text string) error {
	_, err := b.telebot.Send(&telebot.Chat{ID: chatID}, text)
	return err
}

func (b *Bot) setupRouter(deps Deps, log *slog.Logger) {
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(MetricsMiddleware)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(deps.FSM, log))
	b.router.RegisterCommand(CommandUsage, handlers.NewUsageHandler(deps.Usage, log))

	b.dispatcher.RegisterStateHandler(
		state.StateAwaitingKnownLanguage,
		handlers.NewKnownLanguageHandler(deps.FSM, deps.Users, log),
	)
	b.dispatcher.RegisterStateHandler(
		state.StateAwaitingTargetLanguage,
		handlers.NewTargetLanguageHandler(deps.FSM, deps.Users, deps.Transcripts, deps.Fetcher, deps.Digests, log),
	)

	b.router.SetDefault(handlers.NewFeedbackHandler(deps.Users, deps.Transcripts, deps.Digests, log))
}
