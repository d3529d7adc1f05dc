package logger

import (
	"context"
	"log/slog"
	"strings"
)

// Key fragments that mark an attribute as credential-bearing. The bot
// carries a Telegram token, provider and news API keys, a database password,
// and a Sentry DSN; matching by substring catches composite keys like
// "bot_token" or "news_api_key" as well.
var redactedKeyFragments = []string{
	"token",
	"api_key",
	"apikey",
	"password",
	"secret",
	"dsn",
	"authorization",
}

// MaskingHandler blanks the values of credential-bearing attributes before
// records reach the sink. Per-record attrs and handler-bound attrs
// (WithAttrs) are both covered.
type MaskingHandler struct {
	next slog.Handler
}

// NewMaskingHandler wraps next with attribute masking.
func NewMaskingHandler(next slog.Handler) *MaskingHandler {
	return &MaskingHandler{next: next}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		masked[i] = maskAttr(attr)
	}

	return &MaskingHandler{next: h.next.WithAttrs(masked)}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{next: h.next.WithGroup(name)}
}

func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(maskAttr(attr))
		return true
	})

	return h.next.Handle(ctx, masked)
}

func maskAttr(attr slog.Attr) slog.Attr {
	if keyCarriesSecret(attr.Key) {
		attr.Value = slog.StringValue("***")
	}

	return attr
}

func keyCarriesSecret(key string) bool {
	lower := strings.ToLower(key)
	for _, fragment := range redactedKeyFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}

	return false
}
