package policy

import "context"

type ModerationResult struct {
	Flagged    bool
	Categories []string
}

// Moderator classifies text with a remote moderation model.
type Moderator interface {
	Moderate(ctx context.Context, text string) (*ModerationResult, error)
}

// ModerationChecker adapts a Moderator to the Checker interface.
type ModerationChecker struct {
	moderator Moderator
}

func NewModerationChecker(moderator Moderator) *ModerationChecker {
	return &ModerationChecker{moderator: moderator}
}

func (m *ModerationChecker) Check(ctx context.Context, text string) (Verdict, error) {
	result, err := m.moderator.Moderate(ctx, text)
	if err != nil {
		return Verdict{}, err
	}
	if result == nil || !result.Flagged {
		return Verdict{}, nil
	}
	return Verdict{Blocked: true, Reason: ReasonModeration, Categories: result.Categories}, nil
}
