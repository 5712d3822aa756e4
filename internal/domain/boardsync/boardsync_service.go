package boardsync

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

// BoardSyncService mirrors stored conversations to the board, one mutation per interval.
type BoardSyncService struct {
	board         Board
	conversations *conversation.ConversationService
	limiter       *rate.Limiter
	log           zerolog.Logger
}

func NewBoardSyncService(board Board, conversations *conversation.ConversationService, interval time.Duration, log zerolog.Logger) *BoardSyncService {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &BoardSyncService{
		board:         board,
		conversations: conversations,
		limiter:       rate.NewLimiter(limit, 1),
		log:           log,
	}
}

// MirrorConversation creates or refreshes the board item of one conversation.
func (s *BoardSyncService) MirrorConversation(ctx context.Context, conversationID string) error {
	conv, err := s.conversations.GetConversation(ctx, conversationID, "")
	if err != nil {
		return err
	}
	item, err := s.board.FindItem(ctx, conversationID)
	if err != nil {
		metrics.RecordBoardSyncItem("failed")
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up board item")
	}
	result, err := s.write(ctx, item, ValuesFor(conv))
	metrics.RecordBoardSyncItem(result)
	return err
}

// SyncAll walks every conversation and writes those whose board date is out of date. A
// failing item is logged and counted; the walk continues.
func (s *BoardSyncService) SyncAll(ctx context.Context) (Stats, error) {
	var stats Stats
	started := time.Now()

	items, err := s.board.Items(ctx)
	if err != nil {
		return stats, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list board items")
	}
	byConversation := make(map[string]Item, len(items))
	for _, item := range items {
		if item.ConversationID != "" {
			byConversation[item.ConversationID] = item
		}
	}

	err = s.conversations.EachConversation(ctx, func(conv *conversation.Conversation) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		values := ValuesFor(conv)
		var existing *Item
		if item, ok := byConversation[conv.ConversationID]; ok {
			if item.Date == values.Date {
				stats.Skipped++
				metrics.RecordBoardSyncItem("skipped")
				return nil
			}
			existing = &item
		}

		result, err := s.write(ctx, existing, values)
		metrics.RecordBoardSyncItem(result)
		switch result {
		case "created":
			stats.Created++
		case "updated":
			stats.Updated++
		default:
			stats.Failed++
			s.log.Warn().Err(err).Str("conversation_id", conv.ConversationID).Msg("board sync item failed")
		}
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	})

	s.log.Info().
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Dur("duration", time.Since(started)).
		Msg("board sync finished")
	if err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *BoardSyncService) write(ctx context.Context, item *Item, values ItemValues) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "failed", err
	}
	if item == nil {
		if _, err := s.board.CreateItem(ctx, values); err != nil {
			return "failed", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create board item")
		}
		return "created", nil
	}
	if err := s.board.UpdateItem(ctx, item.ID, values); err != nil {
		return "failed", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update board item")
	}
	return "updated", nil
}
