package userhandler

import (
	"context"

	"github.com/janhq/chat-assistant/internal/domain/user"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/requests"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/responses"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const registeredMessage = "User registered"

// UserHandler handles account registration, login and profile updates.
type UserHandler struct {
	userService *user.UserService
}

func NewUserHandler(userService *user.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(ctx context.Context, req requests.RegisterRequest) (*responses.RegisterResponse, error) {
	result, err := h.userService.Register(ctx, user.RegisterInput{
		Name:     req.Name,
		Password: req.Password,
		Gender:   user.Gender(req.Gender),
	})
	if err != nil {
		metrics.RecordAuth("register", "failure")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to register")
	}
	metrics.RecordAuth("register", "success")
	return &responses.RegisterResponse{
		Token:   result.Token,
		UserID:  result.User.ID,
		Message: registeredMessage,
	}, nil
}

func (h *UserHandler) Login(ctx context.Context, req requests.LoginRequest) (*responses.LoginResponse, error) {
	result, err := h.userService.Login(ctx, req.Name, req.Password)
	if err != nil {
		metrics.RecordAuth("login", "failure")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to log in")
	}
	metrics.RecordAuth("login", "success")
	return &responses.LoginResponse{
		Token:      result.Token,
		UserID:     result.User.ID,
		Name:       result.User.Name,
		Background: result.User.Background,
		Gender:     string(result.User.Gender),
	}, nil
}

func (h *UserHandler) UpdateBackground(ctx context.Context, userID string, req requests.BackgroundRequest) (*responses.UserResponse, error) {
	u, err := h.userService.UpdateBackground(ctx, userID, req.Background)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update background")
	}
	resp := responses.NewUserResponse(u)
	return &resp, nil
}
