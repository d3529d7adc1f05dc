package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name        string
		label       string
		expectedTag string
		expectedOK  bool
	}{
		{name: "english", label: "🇺🇸 English", expectedTag: "🇺🇸 English", expectedOK: true},
		{name: "brazilian portuguese", label: "🇧🇷 Português (Brasil)", expectedTag: "🇧🇷 Português pt-BR", expectedOK: true},
		{name: "european portuguese", label: "🇵🇹 Português (Portugal)", expectedTag: "🇵🇹 Português pt-PT", expectedOK: true},
		{name: "japanese", label: "🇯🇵 日本語", expectedTag: "🇯🇵 日本語", expectedOK: true},
		{name: "free text rejected", label: "english", expectedOK: false},
		{name: "empty rejected", label: "", expectedOK: false},
		{name: "tag is not a label", label: "🇧🇷 Português pt-BR", expectedOK: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tag, ok := Resolve(tc.label)
			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedOK {
				assert.Equal(t, tc.expectedTag, tag)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	labels := Labels()

	assert.Len(t, labels, 7)
	assert.Equal(t, "🇺🇸 English", labels[0])
	assert.Equal(t, "🇷🇺 Русский", labels[len(labels)-1])

	// every label must round-trip through Resolve
	for _, label := range labels {
		_, ok := Resolve(label)
		assert.True(t, ok, "label %q must resolve", label)
	}
}

func TestCallToAction(t *testing.T) {
	// every catalog tag has its own prompt
	for _, opt := range options {
		cta := CallToAction(opt.Tag)
		assert.NotEmpty(t, cta)
	}

	assert.Equal(t,
		"🇯🇵 上記のニュースについて理解したことを書き返してください。",
		CallToAction("🇯🇵 日本語"),
	)
}

func TestCallToAction_FallbackToEnglish(t *testing.T) {
	cta := CallToAction("not a tag")
	assert.True(t, strings.HasPrefix(cta, "🇺🇸"))
	assert.Equal(t, CallToAction("🇺🇸 English"), cta)
}
