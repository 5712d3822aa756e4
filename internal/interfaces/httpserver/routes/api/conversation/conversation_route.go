package conversation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/requests"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/responses"
)

type ConversationRoute struct {
	handler *conversationhandler.ConversationHandler
	auth    *middlewares.Authenticator
}

func NewConversationRoute(handler *conversationhandler.ConversationHandler, auth *middlewares.Authenticator) *ConversationRoute {
	return &ConversationRoute{
		handler: handler,
		auth:    auth,
	}
}

func (route *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")
	conversations.GET("", route.auth.Chain(route.listConversations)...)
	conversations.GET("/:id", route.auth.Chain(route.getConversation)...)
	conversations.GET("/:id/messages", route.auth.Chain(route.getMessages)...)
	conversations.PUT("/:id", route.auth.Chain(route.updateConversation)...)
}

// listConversations returns the caller's conversations ordered by lastUpdate, newest first.
// @Summary List conversations
// @Tags Conversations API
// @Produce json
// @Param userId query string false "Owner id, taken from the token when omitted"
// @Success 200 {array} responses.ConversationSummaryResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /api/conversations [get]
func (route *ConversationRoute) listConversations(reqCtx *gin.Context) {
	userID, err := middlewares.ResolveUserID(reqCtx, reqCtx.Query("userId"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list conversations")
		return
	}

	resp, err := route.handler.ListConversations(reqCtx.Request.Context(), userID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list conversations")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

// @Summary Get a conversation
// @Tags Conversations API
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} responses.ConversationResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/conversations/{id} [get]
func (route *ConversationRoute) getConversation(reqCtx *gin.Context) {
	userID, err := middlewares.ResolveUserID(reqCtx, reqCtx.Query("userId"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get conversation")
		return
	}

	resp, err := route.handler.GetConversation(reqCtx.Request.Context(), reqCtx.Param("id"), userID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get conversation")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

// @Summary List conversation messages
// @Tags Conversations API
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {array} responses.MessageResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/conversations/{id}/messages [get]
func (route *ConversationRoute) getMessages(reqCtx *gin.Context) {
	userID, err := middlewares.ResolveUserID(reqCtx, reqCtx.Query("userId"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get messages")
		return
	}

	resp, err := route.handler.GetMessages(reqCtx.Request.Context(), reqCtx.Param("id"), userID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get messages")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

// @Summary Rename a conversation
// @Tags Conversations API
// @Accept json
// @Produce json
// @Param id path string true "Conversation id"
// @Param request body requests.UpdateConversationRequest true "New title"
// @Success 200 {object} responses.ConversationResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/conversations/{id} [put]
func (route *ConversationRoute) updateConversation(reqCtx *gin.Context) {
	var req requests.UpdateConversationRequest
	if !requests.BindJSON(reqCtx, &req) {
		return
	}
	userID, err := middlewares.ResolveUserID(reqCtx, req.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update conversation")
		return
	}

	resp, err := route.handler.UpdateTitle(reqCtx.Request.Context(), reqCtx.Param("id"), req.ConversationID, userID, req.Title)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update conversation")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}
