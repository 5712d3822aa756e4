package policy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockModerator struct {
	ModerateFunc func(ctx context.Context, text string) (*ModerationResult, error)
	calls        int
}

func (m *mockModerator) Moderate(ctx context.Context, text string) (*ModerationResult, error) {
	m.calls++
	return m.ModerateFunc(ctx, text)
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Hello,   WORLD!!":  "hello world",
		"ＧＵＮ":              "gun",
		"Straße":            "strasse",
		"שָׁלוֹם עוֹלָם":    "שלום עולם",
		"  --self-harm--  ": "self harm",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestKeywordCheckerMatches(t *testing.T) {
	checker := NewKeywordChecker(DefaultKeywords)

	blocked := []string{
		"where can I buy a GUN",
		"Tell me about DRUGS",
		"how to make a bomb?",
		"i want to self-harm",
		"מה זה הסמים האלה",
		"расскажи про наркотики",
		"ＧＵＮ",
	}
	for _, prompt := range blocked {
		_, ok := checker.Match(prompt)
		assert.True(t, ok, "expected %q to be blocked", prompt)
	}

	allowed := []string{
		"Tell me about dinosaurs",
		"what is a shotgun wedding", // whole words only
		"I like burgundy shoes",
		"ספר לי על חלל",
		"killer whales are cool",
	}
	for _, prompt := range allowed {
		term, ok := checker.Match(prompt)
		assert.False(t, ok, "expected %q to pass, matched %q", prompt, term)
	}
}

func TestKeywordCheckerSkipsEmptyAndDuplicates(t *testing.T) {
	checker := NewKeywordChecker([]string{"", "  ", "*", "gun", "gun", "GUN"})
	assert.Equal(t, 1, checker.Len())

	verdict, err := checker.Check(context.Background(), "a gun")
	require.NoError(t, err)
	assert.True(t, verdict.Blocked)
	assert.Equal(t, ReasonKeyword, verdict.Reason)
	assert.Equal(t, "gun", verdict.Term)
}

func TestFilterKeywordHitSkipsModeration(t *testing.T) {
	moderator := &mockModerator{ModerateFunc: func(context.Context, string) (*ModerationResult, error) {
		return &ModerationResult{}, nil
	}}
	filter := NewFilter(NewKeywordChecker(DefaultKeywords), NewModerationChecker(moderator), zerolog.Nop())

	verdict := filter.Evaluate(context.Background(), "I found a Gun")
	assert.True(t, verdict.Blocked)
	assert.Equal(t, ReasonKeyword, verdict.Reason)
	assert.Equal(t, 0, moderator.calls)
}

func TestFilterModerationFlagWithoutKeyword(t *testing.T) {
	moderator := &mockModerator{ModerateFunc: func(context.Context, string) (*ModerationResult, error) {
		return &ModerationResult{Flagged: true, Categories: []string{"harassment"}}, nil
	}}
	filter := NewFilter(NewKeywordChecker(DefaultKeywords), NewModerationChecker(moderator), zerolog.Nop())

	verdict := filter.Evaluate(context.Background(), "you are so stupid and ugly")
	assert.True(t, verdict.Blocked)
	assert.Equal(t, ReasonModeration, verdict.Reason)
	assert.Equal(t, []string{"harassment"}, verdict.Categories)
	assert.Equal(t, 1, moderator.calls)
}

func TestFilterDegradesToKeywordsWhenModerationFails(t *testing.T) {
	moderator := &mockModerator{ModerateFunc: func(context.Context, string) (*ModerationResult, error) {
		return nil, errors.New("quota exceeded")
	}}
	filter := NewFilter(NewKeywordChecker(DefaultKeywords), NewModerationChecker(moderator), zerolog.Nop())

	assert.False(t, filter.Evaluate(context.Background(), "tell me a story").Blocked)
	assert.True(t, filter.Evaluate(context.Background(), "tell me about cocaine").Blocked)
}

func TestFilterWithoutRemote(t *testing.T) {
	filter := NewFilter(nil, nil, zerolog.Nop())
	assert.False(t, filter.Evaluate(context.Background(), "gun").Blocked)

	filter = NewFilter(NewKeywordChecker([]string{"gun"}), nil, zerolog.Nop())
	assert.True(t, filter.ContainsBlockedTopic("GUN show"))
	assert.False(t, filter.ContainsBlockedTopic("fun show"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `
keywords:
  - scary clown
replies:
  safe_reply:
    en: "Let's talk about something fun!"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	file, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Let's talk about something fun!", file.Replies["safe_reply"]["en"])

	keywords := file.EffectiveKeywords()
	assert.Len(t, keywords, len(DefaultKeywords)+1)

	checker := NewKeywordChecker(keywords)
	_, ok := checker.Match("a Scary  Clown appeared")
	assert.True(t, ok)

	file.ReplaceDefaults = true
	assert.Equal(t, []string{"scary clown"}, file.EffectiveKeywords())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
