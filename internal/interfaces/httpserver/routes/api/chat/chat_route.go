package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/requests"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/responses"
)

// ChatRoute serves /api/chat and /api/generate-title.
type ChatRoute struct {
	chatHandler *chathandler.ChatHandler
	auth        *middlewares.Authenticator
}

func NewChatRoute(chatHandler *chathandler.ChatHandler, auth *middlewares.Authenticator) *ChatRoute {
	return &ChatRoute{
		chatHandler: chatHandler,
		auth:        auth,
	}
}

func (route *ChatRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/chat", route.auth.Chain(route.postChat)...)
	router.POST("/generate-title", route.auth.Chain(route.postGenerateTitle)...)
}

// postChat answers a prompt within a conversation.
// @Summary Send a chat message
// @Tags Chat API
// @Accept json
// @Produce json
// @Param request body requests.ChatRequest true "Prompt and conversation"
// @Success 200 {object} responses.ChatResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /api/chat [post]
func (route *ChatRoute) postChat(reqCtx *gin.Context) {
	var req requests.ChatRequest
	if !requests.BindJSON(reqCtx, &req) {
		return
	}
	userID, err := middlewares.ResolveUserID(reqCtx, req.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process chat")
		return
	}

	resp, err := route.chatHandler.Chat(reqCtx.Request.Context(), userID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process chat")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

// postGenerateTitle regenerates a conversation title synchronously.
// @Summary Generate a conversation title
// @Tags Chat API
// @Accept json
// @Produce json
// @Param request body requests.GenerateTitleRequest true "Conversation id"
// @Success 200 {object} responses.TitleResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/generate-title [post]
func (route *ChatRoute) postGenerateTitle(reqCtx *gin.Context) {
	var req requests.GenerateTitleRequest
	if !requests.BindJSON(reqCtx, &req) {
		return
	}
	userID, err := middlewares.ResolveUserID(reqCtx, req.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to generate title")
		return
	}

	resp, err := route.chatHandler.GenerateTitle(reqCtx.Request.Context(), userID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to generate title")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}
