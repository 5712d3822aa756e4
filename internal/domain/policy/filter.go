package policy

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/infrastructure/observability"
)

type Reason string

const (
	ReasonKeyword    Reason = "keyword"
	ReasonModeration Reason = "moderation"
)

type Verdict struct {
	Blocked    bool
	Reason     Reason
	Term       string
	Categories []string
}

// Checker inspects text for disallowed topics.
type Checker interface {
	Check(ctx context.Context, text string) (Verdict, error)
}

// Filter runs the local denylist first and the remote classifier second. A remote failure
// leaves the keyword verdict in place.
type Filter struct {
	keywords *KeywordChecker
	remote   Checker
	log      zerolog.Logger
}

// NewFilter composes the checks. remote may be nil when moderation is disabled.
func NewFilter(keywords *KeywordChecker, remote Checker, log zerolog.Logger) *Filter {
	if keywords == nil {
		keywords = NewKeywordChecker(nil)
	}
	return &Filter{keywords: keywords, remote: remote, log: log}
}

// Evaluate never fails; errors from the remote classifier are logged and dropped.
func (f *Filter) Evaluate(ctx context.Context, text string) Verdict {
	if verdict, _ := f.keywords.Check(ctx, text); verdict.Blocked {
		f.record(ctx, verdict)
		return verdict
	}
	if f.remote == nil {
		return Verdict{}
	}

	verdict, err := f.remote.Check(ctx, text)
	if err != nil {
		observability.AddSpanEvent(ctx, "moderation.failed")
		f.log.Warn().Err(err).Msg("moderation check failed, continuing with keyword filter only")
		return Verdict{}
	}
	if verdict.Blocked {
		f.record(ctx, verdict)
	}
	return verdict
}

// ContainsBlockedTopic runs only the local denylist.
func (f *Filter) ContainsBlockedTopic(text string) bool {
	_, ok := f.keywords.Match(text)
	return ok
}

func (f *Filter) record(ctx context.Context, verdict Verdict) {
	metrics.RecordPolicyBlock(string(verdict.Reason))
	observability.AddSpanAttributes(ctx,
		attribute.Bool("policy.blocked", true),
		attribute.String("policy.reason", string(verdict.Reason)),
	)
	f.log.Info().Str("reason", string(verdict.Reason)).Str("term", verdict.Term).Strs("categories", verdict.Categories).Msg("prompt blocked by content policy")
}
