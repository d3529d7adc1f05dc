package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newslingo/newslingo-bot/internal/domain"
)

func TestTranscriptEnvelope_RoundTrip(t *testing.T) {
	messages := []domain.Message{
		{Role: domain.RoleAssistant, Content: "digest text"},
		{Role: domain.RoleUser, Content: "my reply"},
	}

	raw, err := encodeTranscript(messages)
	require.NoError(t, err)

	var envelope transcriptEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))
	assert.Equal(t, transcriptVersion, envelope.Version)

	decoded, err := decodeTranscript(raw)
	require.NoError(t, err)
	assert.Equal(t, messages, decoded)
}

func TestDecodeTranscript_FailsClosed(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "[('assistant', 'text')]"},
		{name: "empty string", raw: ""},
		{name: "wrong version", raw: `{"version": 99, "messages": []}`},
		{name: "unknown role", raw: `{"version": 1, "messages": [{"role": "narrator", "content": "x"}]}`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := decodeTranscript(tc.raw)
			assert.Nil(t, decoded)
			assert.ErrorIs(t, err, ErrMalformedTranscript)
		})
	}
}

func TestDecodeTranscript_EmptyMessages(t *testing.T) {
	decoded, err := decodeTranscript(`{"version": 1, "messages": []}`)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
