// Package digest builds news digests and pedagogical feedback on top of the
// completion gateway, recording token usage for every call.
package digest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newslingo/newslingo-bot/internal/domain"
	"github.com/newslingo/newslingo-bot/internal/language"
	"github.com/newslingo/newslingo-bot/internal/llm"
	"github.com/newslingo/newslingo-bot/internal/repository"
	"github.com/newslingo/newslingo-bot/pkg/metrics"
)

// completionMaxTokens is the fixed ceiling for every digest and feedback call.
const completionMaxTokens = 4000

// separator divides the digest body from the call-to-action line.
const separator = "-----"

// Service runs the two completion-backed operations of the bot.
type Service struct {
	client    llm.Client
	usageRepo repository.UsageRepository
	log       *slog.Logger
}

// NewService constructs a digest service.
func NewService(client llm.Client, usageRepo repository.UsageRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		client:    client,
		usageRepo: usageRepo,
		log:       log,
	}
}

// TranslateAndSummarize turns raw news text into a simplified digest written
// in the target language, followed by the separator and a call-to-action in
// the user's known language. The returned string is the seed for a fresh
// one-entry transcript.
func (s *Service) TranslateAndSummarize(ctx context.Context, news, knownLanguage, targetLanguage string, userID int64) (string, error) {
	s.log.Debug("translating and summarizing news",
		slog.String("known_language", knownLanguage),
		slog.String("target_language", targetLanguage),
	)

	prompt := fmt.Sprintf(
		"Translate the following news to %s and summarize it for a beginner learner that is natively coming from %s but it should be written in %s, only reply with the title and summary directly (don't write TITLE besides the title for example) and do NOT add your comments or thoughts, make sure it contains the complete core of the news but also try to reduce complex words and length where possible, two paragraphs is enough:\n\n%s",
		targetLanguage, knownLanguage, targetLanguage, news,
	)

	resp, err := s.complete(ctx, userID, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   completionMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}

	metrics.RecordDigest()

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s",
		targetLanguage,
		resp.Text,
		separator,
		language.CallToAction(knownLanguage),
	), nil
}

// Feedback evaluates the user's understanding of the latest digest. The
// transcript must already include the user's newest message as its last
// entry; the caller appends the returned text as a fresh assistant entry.
func (s *Service) Feedback(ctx context.Context, transcript []domain.Message, knownLanguage, targetLanguage string, userID int64) (string, error) {
	s.log.Debug("providing feedback", slog.Int64("user_id", userID), slog.Int("transcript_len", len(transcript)))

	// The model has no persistent memory, so the language context is
	// re-asserted at the head of every call.
	messages := make([]llm.Message, 0, len(transcript)+1)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("User's known language: %s, Target language: %s", knownLanguage, targetLanguage),
	})

	for _, msg := range transcript {
		messages = append(messages, llm.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	system := fmt.Sprintf(
		"Provide feedback to the user based on their understanding of the summarized news article, remember the user is learning a new language (the one the article was written in, his understanding is after the ----- prompt asking him to do it). Let them know which parts of the article they understood correctly and which parts they missed. You MUST reply using the user native language: %s. If user wrote back to you in the same language as the article it means they are trying hard to learn so provide extra feedback on their grammar in this case!",
		knownLanguage,
	)

	resp, err := s.complete(ctx, userID, llm.Request{
		Messages:    messages,
		System:      system,
		MaxTokens:   completionMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}

func (s *Service) complete(ctx context.Context, userID int64, req llm.Request) (*llm.Response, error) {
	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		metrics.RecordCompletion("error")
		return nil, err
	}

	metrics.RecordCompletion("ok")
	metrics.RecordTokens(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	if err := s.usageRepo.Add(ctx, userID, resp.Usage.InputTokens, resp.Usage.OutputTokens); err != nil {
		return nil, err
	}

	return resp, nil
}
