package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/userhandler"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/requests"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/responses"
)

// UsersRoute handles registration, login and /api/users routes
type UsersRoute struct {
	handler *userhandler.UserHandler
	auth    *middlewares.Authenticator
}

func NewUsersRoute(handler *userhandler.UserHandler, auth *middlewares.Authenticator) *UsersRoute {
	return &UsersRoute{
		handler: handler,
		auth:    auth,
	}
}

func (r *UsersRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/register", r.register)
	router.POST("/login", r.login)

	usersGroup := router.Group("/users")
	{
		usersGroup.PUT("/:id/background", r.auth.Chain(r.updateBackground)...)
	}
}

// @Summary Register an account
// @Tags Users API
// @Accept json
// @Produce json
// @Param request body requests.RegisterRequest true "Name, password and optional gender"
// @Success 201 {object} responses.RegisterResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /api/register [post]
func (r *UsersRoute) register(reqCtx *gin.Context) {
	var req requests.RegisterRequest
	if !requests.BindJSON(reqCtx, &req) {
		return
	}

	resp, err := r.handler.Register(reqCtx.Request.Context(), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to register")
		return
	}
	reqCtx.JSON(http.StatusCreated, resp)
}

// @Summary Log in
// @Tags Users API
// @Accept json
// @Produce json
// @Param request body requests.LoginRequest true "Credentials"
// @Success 200 {object} responses.LoginResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /api/login [post]
func (r *UsersRoute) login(reqCtx *gin.Context) {
	var req requests.LoginRequest
	if !requests.BindJSON(reqCtx, &req) {
		return
	}

	resp, err := r.handler.Login(reqCtx.Request.Context(), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to log in")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

// @Summary Update the selected background
// @Tags Users API
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param request body requests.BackgroundRequest true "Background reference"
// @Success 200 {object} responses.UserResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/users/{id}/background [put]
func (r *UsersRoute) updateBackground(reqCtx *gin.Context) {
	var req requests.BackgroundRequest
	if !requests.BindJSON(reqCtx, &req) {
		return
	}
	userID, err := middlewares.ResolveUserID(reqCtx, reqCtx.Param("id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update background")
		return
	}

	resp, err := r.handler.UpdateBackground(reqCtx.Request.Context(), userID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update background")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}
