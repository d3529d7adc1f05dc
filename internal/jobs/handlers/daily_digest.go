package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/newslingo/newslingo-bot/internal/digest"
	"github.com/newslingo/newslingo-bot/internal/domain"
	"github.com/newslingo/newslingo-bot/internal/news"
	"github.com/newslingo/newslingo-bot/internal/repository"
	"github.com/newslingo/newslingo-bot/pkg/metrics"
)

// Messenger delivers a plain text message to a chat. Implemented by the bot.
type Messenger interface {
	Send(chatID int64, text string) error
}

// Headliner supplies the day's shared headline.
type Headliner interface {
	TopHeadline(ctx context.Context) (string, error)
}

// DailyDigestHandler pushes one shared headline, personalized per user, to
// every onboarded learner in paced batches.
type DailyDigestHandler struct {
	users       repository.UserRepository
	transcripts repository.TranscriptRepository
	digests     *digest.Service
	fetcher     Headliner
	messenger   Messenger
	batchSize   int
	batchPause  time.Duration
	log         *slog.Logger
}

// NewDailyDigestHandler wires the broadcast job dependencies.
func NewDailyDigestHandler(
	users repository.UserRepository,
	transcripts repository.TranscriptRepository,
	digests *digest.Service,
	fetcher Headliner,
	messenger Messenger,
	batchSize int,
	batchPause time.Duration,
	log *slog.Logger,
) *DailyDigestHandler {
	if batchSize <= 0 {
		batchSize = 10
	}
	if log == nil {
		log = slog.Default()
	}

	return &DailyDigestHandler{
		users:       users,
		transcripts: transcripts,
		digests:     digests,
		fetcher:     fetcher,
		messenger:   messenger,
		batchSize:   batchSize,
		batchPause:  batchPause,
		log:         log,
	}
}

var _ Headliner = (*news.Fetcher)(nil)

// ProcessTask runs the daily broadcast. Every user gets the same headline
// translated into their own language pair; each user's transcript is
// replaced with a single fresh assistant entry and their news counter is
// incremented. Failures are isolated per user so one bad delivery never
// starves the rest of the batch.
func (h *DailyDigestHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	h.log.InfoContext(ctx, "daily digest: starting broadcast", slog.String("task", t.Type()))

	users, err := h.users.ListOnboarded(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		h.log.InfoContext(ctx, "daily digest: no onboarded users")
		return nil
	}

	headline, err := h.fetcher.TopHeadline(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(users); start += h.batchSize {
		end := start + h.batchSize
		if end > len(users) {
			end = len(users)
		}

		for _, user := range users[start:end] {
			if err := h.deliver(ctx, user, headline); err != nil {
				metrics.RecordBroadcastFailure()
				h.log.ErrorContext(ctx, "daily digest: delivery failed",
					slog.Int64("user_id", user.ID),
					slog.Any("error", err),
				)
			}
		}

		metrics.RecordBroadcastBatch()

		if end < len(users) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.batchPause):
			}
		}
	}

	h.log.InfoContext(ctx, "daily digest: broadcast finished", slog.Int("users", len(users)))

	return nil
}

func (h *DailyDigestHandler) deliver(ctx context.Context, user *domain.User, headline string) error {
	translated, err := h.digests.TranslateAndSummarize(ctx, headline, user.KnownLanguage, user.TargetLanguage, user.ID)
	if err != nil {
		return err
	}

	seed := []domain.Message{{Role: domain.RoleAssistant, Content: translated}}
	if err := h.transcripts.Replace(ctx, user.ID, user.ID, seed); err != nil {
		return err
	}

	if err := h.users.IncrementNewsCount(ctx, user.ID); err != nil {
		return err
	}

	return h.messenger.Send(user.ID, translated)
}
