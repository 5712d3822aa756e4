package conversation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/infrastructure/memstore"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

type steppingClock struct {
	current time.Time
}

func (c *steppingClock) Now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func newService() (*conversation.ConversationService, *steppingClock) {
	clock := &steppingClock{current: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := memstore.NewConversationStore().WithClock(clock.Now)
	return conversation.NewConversationService(store), clock
}

func TestAppendMessageCreatesConversationWithOwner(t *testing.T) {
	svc, clock := newService()
	ctx := context.Background()
	id := uuid.NewString()

	conv, err := svc.AppendMessage(ctx, id, "user-1", conversation.NewUserMessage("hello", clock.Now()))
	require.NoError(t, err)

	assert.Equal(t, id, conv.ConversationID)
	assert.Equal(t, "user-1", conv.UserID)
	assert.Equal(t, conversation.DefaultTitle, conv.Title)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, conversation.SenderUser, conv.Messages[0].Sender)
	assert.Equal(t, "hello", conv.Messages[0].Text)
	assert.False(t, conv.LastUpdate.IsZero())
}

func TestAppendMessagePreservesOrder(t *testing.T) {
	svc, clock := newService()
	ctx := context.Background()
	id := uuid.NewString()

	const n = 7
	var conv *conversation.Conversation
	var err error
	for i := 0; i < n; i++ {
		msg := conversation.NewUserMessage(fmt.Sprintf("m%d", i), clock.Now())
		if i%2 == 1 {
			msg = conversation.NewBotMessage(fmt.Sprintf("m%d", i), "resp", clock.Now())
		}
		conv, err = svc.AppendMessage(ctx, id, "user-1", msg)
		require.NoError(t, err)
	}

	require.Len(t, conv.Messages, n)
	for i, msg := range conv.Messages {
		assert.Equal(t, fmt.Sprintf("m%d", i), msg.Text)
	}
	assert.Equal(t, n, conv.MessageCount())
}

func TestAppendMessageRejectsForeignOwner(t *testing.T) {
	svc, clock := newService()
	ctx := context.Background()
	id := uuid.NewString()

	_, err := svc.AppendMessage(ctx, id, "owner", conversation.NewUserMessage("hi", clock.Now()))
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, id, "intruder", conversation.NewUserMessage("hi", clock.Now()))
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestAppendMessageValidatesInput(t *testing.T) {
	svc, clock := newService()
	ctx := context.Background()

	_, err := svc.AppendMessage(ctx, "not-a-uuid", "user", conversation.NewUserMessage("hi", clock.Now()))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = svc.AppendMessage(ctx, uuid.NewString(), "", conversation.NewUserMessage("hi", clock.Now()))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = svc.AppendMessage(ctx, uuid.NewString(), "user", conversation.Message{Sender: "robot", Text: "x", Timestamp: clock.Now()})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestListConversationsNewestFirst(t *testing.T) {
	svc, clock := newService()
	ctx := context.Background()
	first, second, other := uuid.NewString(), uuid.NewString(), uuid.NewString()

	for _, id := range []string{first, second} {
		_, err := svc.AppendMessage(ctx, id, "user-1", conversation.NewUserMessage("hi", clock.Now()))
		require.NoError(t, err)
	}
	_, err := svc.AppendMessage(ctx, other, "user-2", conversation.NewUserMessage("hi", clock.Now()))
	require.NoError(t, err)

	// touching the first conversation moves it to the top
	_, err = svc.AppendMessage(ctx, first, "user-1", conversation.NewBotMessage("hello", "", clock.Now()))
	require.NoError(t, err)

	list, err := svc.ListConversations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ConversationID)
	assert.Equal(t, second, list[1].ConversationID)

	empty, err := svc.ListConversations(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetConversationNotFound(t *testing.T) {
	svc, clock := newService()
	ctx := context.Background()

	_, err := svc.GetConversation(ctx, uuid.NewString(), "")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	id := uuid.NewString()
	_, err = svc.AppendMessage(ctx, id, "owner", conversation.NewUserMessage("hi", clock.Now()))
	require.NoError(t, err)

	_, err = svc.GetConversation(ctx, id, "someone-else")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	messages, err := svc.GetMessages(ctx, id, "owner")
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestUpdateTitle(t *testing.T) {
	svc, clock := newService()
	ctx := context.Background()
	id := uuid.NewString()

	_, err := svc.UpdateTitle(ctx, id, "", "Dinosaurs")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	_, err = svc.AppendMessage(ctx, id, "owner", conversation.NewUserMessage("hi", clock.Now()))
	require.NoError(t, err)

	conv, err := svc.UpdateTitle(ctx, id, "owner", "  Dinosaurs  ")
	require.NoError(t, err)
	assert.Equal(t, "Dinosaurs", conv.Title)

	_, err = svc.UpdateTitle(ctx, id, "owner", "   ")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestMoveToFront(t *testing.T) {
	list := []conversation.Summary{
		{ConversationID: "a", Title: "A"},
		{ConversationID: "b", Title: "B"},
		{ConversationID: "c", Title: "C"},
	}

	moved := conversation.MoveToFront(list, "c", conversation.Summary{})
	assert.Equal(t, []string{"c", "a", "b"}, ids(moved))
	assert.Equal(t, "C", moved[0].Title)
	assert.Equal(t, []string{"a", "b", "c"}, ids(list), "input must not be modified")

	inserted := conversation.MoveToFront(list, "new", conversation.Summary{Title: "New chat"})
	assert.Equal(t, []string{"new", "a", "b", "c"}, ids(inserted))
	assert.Equal(t, "New chat", inserted[0].Title)
}

func ids(list []conversation.Summary) []string {
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = item.ConversationID
	}
	return out
}
