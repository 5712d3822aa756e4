package routes

import (
	"github.com/google/wire"

	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/chat"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/conversation"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/users"
)

var RouteProvider = wire.NewSet(
	// Handlers
	handlers.HandlerProvider,
	middlewares.NewAuthenticator,

	// Routes
	api.NewAPIRoute,
	chat.NewChatRoute,
	conversation.NewConversationRoute,
	users.NewUsersRoute,
)
