package handlers

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/newslingo/newslingo-bot/internal/digest"
	"github.com/newslingo/newslingo-bot/internal/domain"
	"github.com/newslingo/newslingo-bot/internal/language"
	"github.com/newslingo/newslingo-bot/internal/llm"
	"github.com/newslingo/newslingo-bot/internal/news"
	"github.com/newslingo/newslingo-bot/internal/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeContext implements only the telebot.Context methods the handlers
// touch; anything else panics and flags an unexpected call.
type fakeContext struct {
	telebot.Context
	sender *telebot.User
	text   string
	sent   []interface{}
}

func (f *fakeContext) Sender() *telebot.User { return f.sender }
func (f *fakeContext) Text() string          { return f.text }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

type fakeFSM struct {
	states      map[int64]state.State
	transitions []state.State
	cleared     []int64
}

func newFakeFSM() *fakeFSM {
	return &fakeFSM{states: make(map[int64]state.State)}
}

func (f *fakeFSM) GetState(_ context.Context, userID int64) (*state.UserState, error) {
	s, ok := f.states[userID]
	if !ok {
		return nil, state.ErrStateNotFound
	}
	return &state.UserState{UserID: userID, CurrentState: s}, nil
}

func (f *fakeFSM) SetState(_ context.Context, userID int64, s state.State) error {
	f.states[userID] = s
	return nil
}

func (f *fakeFSM) TransitionTo(_ context.Context, userID int64, s state.State) error {
	f.states[userID] = s
	f.transitions = append(f.transitions, s)
	return nil
}

func (f *fakeFSM) ClearState(_ context.Context, userID int64) error {
	delete(f.states, userID)
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeUsers struct {
	byID       map[int64]*domain.User
	knownSet   map[int64]string
	targetSet  map[int64]string
	increments map[int64]int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:       make(map[int64]*domain.User),
		knownSet:   make(map[int64]string),
		targetSet:  make(map[int64]string),
		increments: make(map[int64]int),
	}
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) UpsertKnownLanguage(_ context.Context, id int64, known string) error {
	f.knownSet[id] = known
	u, ok := f.byID[id]
	if !ok {
		u = &domain.User{ID: id}
		f.byID[id] = u
	}
	u.KnownLanguage = known
	u.TargetLanguage = ""
	return nil
}

func (f *fakeUsers) SetTargetLanguage(_ context.Context, id int64, target string) error {
	f.targetSet[id] = target
	if u, ok := f.byID[id]; ok {
		u.TargetLanguage = target
		u.NewsCount = 1
	}
	return nil
}

func (f *fakeUsers) IncrementNewsCount(_ context.Context, id int64) error {
	f.increments[id]++
	return nil
}

func (f *fakeUsers) ListOnboarded(context.Context) ([]*domain.User, error) {
	return nil, nil
}

type fakeTranscripts struct {
	store map[int64][]domain.Message
}

func newFakeTranscripts() *fakeTranscripts {
	return &fakeTranscripts{store: make(map[int64][]domain.Message)}
}

func (f *fakeTranscripts) Get(_ context.Context, chatID int64) ([]domain.Message, error) {
	return f.store[chatID], nil
}

func (f *fakeTranscripts) Replace(_ context.Context, chatID, _ int64, messages []domain.Message) error {
	f.store[chatID] = messages
	return nil
}

func (f *fakeTranscripts) Save(_ context.Context, chatID int64, messages []domain.Message) error {
	f.store[chatID] = messages
	return nil
}

type fakeUsage struct {
	adds      int
	inputSum  int
	outputSum int
}

func (f *fakeUsage) Add(_ context.Context, _ int64, input, output int) error {
	f.adds++
	f.inputSum += input
	f.outputSum += output
	return nil
}

func (f *fakeUsage) Totals(_ context.Context, userID int64) (*domain.UsageTotals, error) {
	return &domain.UsageTotals{UserID: userID, InputTokens: 100, OutputTokens: 40}, nil
}

type scriptedLLM struct {
	replies []string
	calls   int
}

func (s *scriptedLLM) Complete(_ context.Context, _ llm.Request) (*llm.Response, error) {
	reply := s.replies[s.calls%len(s.replies)]
	s.calls++
	return &llm.Response{
		Text:  reply,
		Usage: llm.Usage{InputTokens: 10, OutputTokens: 5},
	}, nil
}

func TestKnownLanguageHandler_InvalidInputIsInert(t *testing.T) {
	fsm := newFakeFSM()
	users := newFakeUsers()
	handler := NewKnownLanguageHandler(fsm, users, testLogger())

	c := &fakeContext{sender: &telebot.User{ID: 1}, text: "not a language"}

	require.NoError(t, handler(c))

	// re-prompt only: no user row, no state change
	assert.Empty(t, users.knownSet)
	assert.Empty(t, fsm.transitions)
	require.Len(t, c.sent, 1)
	assert.Equal(t, language.NoticeInvalidKnown, c.sent[0])
}

func TestKnownLanguageHandler_ValidSelectionAdvances(t *testing.T) {
	fsm := newFakeFSM()
	users := newFakeUsers()
	handler := NewKnownLanguageHandler(fsm, users, testLogger())

	c := &fakeContext{sender: &telebot.User{ID: 1}, text: "🇧🇷 Português (Brasil)"}

	require.NoError(t, handler(c))

	// stored value is the canonical tag, not the display label
	assert.Equal(t, "🇧🇷 Português pt-BR", users.knownSet[1])
	require.Len(t, fsm.transitions, 1)
	assert.Equal(t, state.StateAwaitingTargetLanguage, fsm.transitions[0])
	require.Len(t, c.sent, 1)
	assert.Equal(t, language.NoticeSelectTarget, c.sent[0])
}

func TestFeedbackHandler_AppendsAndPersists(t *testing.T) {
	users := newFakeUsers()
	users.byID[7] = &domain.User{
		ID:             7,
		KnownLanguage:  "🇺🇸 English",
		TargetLanguage: "🇫🇷 Français",
		NewsCount:      1,
	}

	transcripts := newFakeTranscripts()
	transcripts.store[7] = []domain.Message{
		{Role: domain.RoleAssistant, Content: "digest text"},
	}

	usage := &fakeUsage{}
	digests := digest.NewService(&scriptedLLM{replies: []string{"good effort"}}, usage, testLogger())

	handler := NewFeedbackHandler(users, transcripts, digests, testLogger())

	c := &fakeContext{sender: &telebot.User{ID: 7}, text: "I understood the news"}

	require.NoError(t, handler(c))

	// digest + user reply + assistant feedback
	stored := transcripts.store[7]
	require.Len(t, stored, 3)
	assert.Equal(t, domain.RoleAssistant, stored[0].Role)
	assert.Equal(t, domain.RoleUser, stored[1].Role)
	assert.Equal(t, "I understood the news", stored[1].Content)
	assert.Equal(t, domain.RoleAssistant, stored[2].Role)
	assert.Equal(t, "good effort", stored[2].Content)

	assert.Equal(t, 1, usage.adds)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "good effort", c.sent[0])
}

func TestFeedbackHandler_IgnoresIncompleteProfile(t *testing.T) {
	users := newFakeUsers()
	users.byID[8] = &domain.User{ID: 8, KnownLanguage: "🇺🇸 English"}

	transcripts := newFakeTranscripts()
	usage := &fakeUsage{}
	digests := digest.NewService(&scriptedLLM{replies: []string{"unused"}}, usage, testLogger())

	handler := NewFeedbackHandler(users, transcripts, digests, testLogger())

	c := &fakeContext{sender: &telebot.User{ID: 8}, text: "hello"}

	require.NoError(t, handler(c))
	assert.Empty(t, c.sent)
	assert.Equal(t, 0, usage.adds)
}

func headlineFetcher(t *testing.T, title, description string) *news.Fetcher {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		payload := `{"articles": [{"title": "` + title + `", "description": "` + description + `"}]}`
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)

	return news.NewFetcher(news.Config{APIKey: "test-key", BaseURL: server.URL}, server.Client(), testLogger())
}

func TestTargetLanguageHandler_InvalidInputIsInert(t *testing.T) {
	fsm := newFakeFSM()
	fsm.states[5] = state.StateAwaitingTargetLanguage
	users := newFakeUsers()
	users.byID[5] = &domain.User{ID: 5, KnownLanguage: "🇺🇸 English"}
	transcripts := newFakeTranscripts()
	usage := &fakeUsage{}
	digests := digest.NewService(&scriptedLLM{replies: []string{"unused"}}, usage, testLogger())

	handler := NewTargetLanguageHandler(fsm, users, transcripts, headlineFetcher(t, "t", "d"), digests, testLogger())

	c := &fakeContext{sender: &telebot.User{ID: 5}, text: "klingon"}

	require.NoError(t, handler(c))

	// re-prompt only: no persistence write, dialog stays put
	assert.Empty(t, users.targetSet)
	assert.Empty(t, transcripts.store)
	assert.Equal(t, 0, usage.adds)
	assert.Equal(t, state.StateAwaitingTargetLanguage, fsm.states[5])
	require.Len(t, c.sent, 1)
	assert.Equal(t, language.NoticeInvalidTarget, c.sent[0])
}

func TestTargetLanguageHandler_CompletesOnboarding(t *testing.T) {
	fsm := newFakeFSM()
	fsm.states[5] = state.StateAwaitingTargetLanguage
	users := newFakeUsers()
	users.byID[5] = &domain.User{ID: 5, KnownLanguage: "🇺🇸 English"}
	transcripts := newFakeTranscripts()
	usage := &fakeUsage{}
	digests := digest.NewService(&scriptedLLM{replies: []string{"Une actualité simple."}}, usage, testLogger())

	handler := NewTargetLanguageHandler(fsm, users, transcripts, headlineFetcher(t, "Big story", "More detail"), digests, testLogger())

	c := &fakeContext{sender: &telebot.User{ID: 5}, text: "🇫🇷 Français"}

	require.NoError(t, handler(c))

	// canonical tag persisted, loading notice then digest delivered
	assert.Equal(t, "🇫🇷 Français", users.targetSet[5])
	require.Len(t, c.sent, 2)
	assert.Equal(t, language.NoticeLoading, c.sent[0])

	delivered, ok := c.sent[1].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(delivered, "🇫🇷 Français\n\n"))
	assert.Contains(t, delivered, "Une actualité simple.")
	assert.Contains(t, delivered, "\n\n-----\n\n")
	assert.True(t, strings.HasSuffix(delivered, language.CallToAction("🇺🇸 English")))

	// transcript seeded with exactly the delivered digest, dialog ended
	stored := transcripts.store[5]
	require.Len(t, stored, 1)
	assert.Equal(t, domain.RoleAssistant, stored[0].Role)
	assert.Equal(t, delivered, stored[0].Content)

	assert.Equal(t, 1, usage.adds)
	assert.Contains(t, fsm.cleared, int64(5))
	assert.NotContains(t, fsm.states, int64(5))
}

func TestOnboardingThenFeedback_LedgerAccumulates(t *testing.T) {
	fsm := newFakeFSM()
	fsm.states[5] = state.StateAwaitingTargetLanguage
	users := newFakeUsers()
	users.byID[5] = &domain.User{ID: 5, KnownLanguage: "🇺🇸 English"}
	transcripts := newFakeTranscripts()
	usage := &fakeUsage{}
	digests := digest.NewService(&scriptedLLM{replies: []string{"Une actualité simple.", "well understood"}}, usage, testLogger())

	onboard := NewTargetLanguageHandler(fsm, users, transcripts, headlineFetcher(t, "Big story", "More detail"), digests, testLogger())
	require.NoError(t, onboard(&fakeContext{sender: &telebot.User{ID: 5}, text: "🇫🇷 Français"}))

	reply := &fakeContext{sender: &telebot.User{ID: 5}, text: "I got the gist"}
	feedback := NewFeedbackHandler(users, transcripts, digests, testLogger())
	require.NoError(t, feedback(reply))

	// digest + user reply + assistant feedback
	stored := transcripts.store[5]
	require.Len(t, stored, 3)
	assert.Equal(t, domain.RoleAssistant, stored[0].Role)
	assert.Equal(t, domain.RoleUser, stored[1].Role)
	assert.Equal(t, domain.RoleAssistant, stored[2].Role)
	assert.Equal(t, "well understood", stored[2].Content)

	// two completion calls, counts added not overwritten
	assert.Equal(t, 2, usage.adds)
	assert.Equal(t, 20, usage.inputSum)
	assert.Equal(t, 10, usage.outputSum)
}

func TestUsageHandler_ReportsTotals(t *testing.T) {
	handler := NewUsageHandler(&fakeUsage{}, testLogger())

	c := &fakeContext{sender: &telebot.User{ID: 9}, text: "/usage"}

	require.NoError(t, handler(c))
	require.Len(t, c.sent, 1)
	assert.Equal(t, "📊 Token usage\n\nInput tokens: 100\nOutput tokens: 40", c.sent[0])
}
