package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/newslingo/newslingo-bot/internal/domain"
)

// transcriptVersion tags the serialized conversation envelope so future
// format changes can be detected instead of misparsed.
const transcriptVersion = 1

// ErrMalformedTranscript indicates the stored conversation column could not
// be decoded. Parsing fails closed: a bad row is an error, never silently
// treated as empty.
var ErrMalformedTranscript = errors.New("malformed transcript")

// TranscriptRepository persists the ordered role-tagged message history for
// one chat. An absent row reads back as an empty transcript.
type TranscriptRepository interface {
	Get(ctx context.Context, chatID int64) ([]domain.Message, error)
	Replace(ctx context.Context, chatID, userID int64, messages []domain.Message) error
	Save(ctx context.Context, chatID int64, messages []domain.Message) error
}

type transcriptRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewTranscriptRepository creates a new SQL-backed transcript repository.
func NewTranscriptRepository(db *sql.DB, log *slog.Logger) TranscriptRepository {
	return &transcriptRepository{
		db:  db,
		log: log,
	}
}

type transcriptEnvelope struct {
	Version  int              `json:"version"`
	Messages []domain.Message `json:"messages"`
}

// Get returns the stored transcript for the chat, or an empty transcript
// when no row exists.
func (r *transcriptRepository) Get(ctx context.Context, chatID int64) ([]domain.Message, error) {
	const query = `
		SELECT conversation
		FROM chats
		WHERE chat_id = $1
	`

	var raw string
	if err := r.db.QueryRowContext(ctx, query, chatID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		if r.log != nil {
			r.log.Error("failed to fetch transcript", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select transcript: %w", err)
	}

	return decodeTranscript(raw)
}

// Replace overwrites the chat's transcript with the given messages, creating
// the row if absent. Used when a fresh digest discards the previous dialog.
func (r *transcriptRepository) Replace(ctx context.Context, chatID, userID int64, messages []domain.Message) error {
	raw, err := encodeTranscript(messages)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO chats (chat_id, user_id, conversation)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE
		SET user_id = EXCLUDED.user_id, conversation = EXCLUDED.conversation
	`

	if _, err := r.db.ExecContext(ctx, query, chatID, userID, raw); err != nil {
		if r.log != nil {
			r.log.Error("failed to replace transcript", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
		return fmt.Errorf("replace transcript: %w", err)
	}

	return nil
}

// Save updates the conversation column for an existing chat row.
func (r *transcriptRepository) Save(ctx context.Context, chatID int64, messages []domain.Message) error {
	raw, err := encodeTranscript(messages)
	if err != nil {
		return err
	}

	const query = `
		UPDATE chats
		SET conversation = $2
		WHERE chat_id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, chatID, raw); err != nil {
		if r.log != nil {
			r.log.Error("failed to save transcript", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
		return fmt.Errorf("save transcript: %w", err)
	}

	return nil
}

func encodeTranscript(messages []domain.Message) (string, error) {
	envelope := transcriptEnvelope{
		Version:  transcriptVersion,
		Messages: messages,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}

	return string(data), nil
}

func decodeTranscript(raw string) ([]domain.Message, error) {
	var envelope transcriptEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTranscript, err)
	}

	if envelope.Version != transcriptVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedTranscript, envelope.Version)
	}

	for _, msg := range envelope.Messages {
		if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
			return nil, fmt.Errorf("%w: unknown role %q", ErrMalformedTranscript, msg.Role)
		}
	}

	return envelope.Messages, nil
}
