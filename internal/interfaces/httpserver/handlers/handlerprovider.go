package handlers

import (
	"github.com/google/wire"

	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/userhandler"
)

var HandlerProvider = wire.NewSet(
	chathandler.NewChatHandler,
	conversationhandler.NewConversationHandler,
	userhandler.NewUserHandler,
)
