package api

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/chat"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/conversation"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/users"
)

type APIRoute struct {
	chat         *chat.ChatRoute
	conversation *conversation.ConversationRoute
	users        *users.UsersRoute
}

func NewAPIRoute(
	chat *chat.ChatRoute,
	conversation *conversation.ConversationRoute,
	users *users.UsersRoute,
) *APIRoute {
	return &APIRoute{
		chat,
		conversation,
		users,
	}
}

func (apiRoute *APIRoute) RegisterRouter(router gin.IRouter) {
	apiRouter := router.Group("/api")
	apiRoute.chat.RegisterRouter(apiRouter)
	apiRoute.conversation.RegisterRouter(apiRouter)
	apiRoute.users.RegisterRouter(apiRouter)
}
