package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/janhq/chat-assistant/internal/config"
	"github.com/janhq/chat-assistant/internal/domain/chat"
	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/domain/locale"
	"github.com/janhq/chat-assistant/internal/domain/policy"
	"github.com/janhq/chat-assistant/internal/domain/title"
	"github.com/janhq/chat-assistant/internal/domain/user"
	"github.com/janhq/chat-assistant/internal/infrastructure"
	"github.com/janhq/chat-assistant/internal/infrastructure/auth"
	"github.com/janhq/chat-assistant/internal/infrastructure/memstore"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/handlers/userhandler"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api"
	chatroute "github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/chat"
	conversationroute "github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/conversation"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api/users"
)

const convID = "7f0c1e2a-3b4d-4c5e-8f6a-9b0c1d2e3f4a"

type fakeChatModel struct {
	CreateCompletionFunc func(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error)
}

func (m *fakeChatModel) CreateCompletion(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	return m.CreateCompletionFunc(ctx, req)
}

type fakeResponseModel struct{}

func (fakeResponseModel) CreateResponse(context.Context, llm.ResponseRequest) (*llm.Completion, error) {
	return nil, errors.New("not used")
}

type testServer struct {
	server *HTTPServer
	model  *fakeChatModel
}

func newTestServer(t *testing.T, ping func(ctx context.Context) error) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServiceName:        "chat-assistant-test",
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeout:    time.Second,
	}
	model := &fakeChatModel{CreateCompletionFunc: func(context.Context, llm.CompletionRequest) (*llm.Completion, error) {
		return &llm.Completion{ID: "chatcmpl-1", Content: "Hi there"}, nil
	}}

	store := infrastructure.NewStore(config.StoreDriverMemory, memstore.NewConversationStore(), memstore.NewUserStore(), ping)
	jwt, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	conversations := conversation.NewConversationService(store.Conversations)
	titles := title.NewGenerator(model, conversations, "gpt-4o-mini", zerolog.Nop())
	filter := policy.NewFilter(policy.NewKeywordChecker(policy.DefaultKeywords), nil, zerolog.Nop())
	chatService := chat.NewChatService(conversations, filter, locale.NewLocalizer("en"), model, fakeResponseModel{}, nil, titles, nil, chat.Options{Model: "gpt-4o-mini"}, zerolog.Nop())
	userService := user.NewUserService(store.Users, jwt, 4)

	authenticator := middlewares.NewAuthenticatorWith(jwt, false, zerolog.Nop())
	apiRoute := api.NewAPIRoute(
		chatroute.NewChatRoute(chathandler.NewChatHandler(chatService, titles), authenticator),
		conversationroute.NewConversationRoute(conversationhandler.NewConversationHandler(conversations), authenticator),
		users.NewUsersRoute(userhandler.NewUserHandler(userService), authenticator),
	)
	infra := infrastructure.NewInfrastructure(store, nil, nil, zerolog.Nop())
	return &testServer{server: NewHttpServer(apiRoute, infra, cfg), model: model}
}

func (s *testServer) do(t *testing.T, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, target, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields"`
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/healthz", nil, "").Code)
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/readyz", nil, "").Code)

	down := newTestServer(t, func(context.Context) error { return errors.New("connection refused") })
	require.Equal(t, http.StatusServiceUnavailable, down.do(t, http.MethodGet, "/readyz", nil, "").Code)
}

func TestChatStoresExchange(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/chat", gin.H{"prompt": "hello", "conversationId": convID, "userId": "u1"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Hi there", decode[map[string]string](t, rec)["message"])

	rec = srv.do(t, http.MethodGet, "/api/conversations/"+convID+"/messages", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decode[[]map[string]any](t, rec)
	require.Len(t, messages, 2)
	require.Equal(t, "user", messages[0]["sender"])
	require.Equal(t, "hello", messages[0]["text"])
	require.Equal(t, "bot", messages[1]["sender"])
}

func TestChatValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/chat", gin.H{"conversationId": "not-a-uuid"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	require.Equal(t, []string{"is required"}, body.Fields["prompt"])
	require.Equal(t, []string{"must be a UUID"}, body.Fields["conversationId"])

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	raw := httptest.NewRecorder()
	srv.server.Handler().ServeHTTP(raw, req)
	require.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestChatPromptLimitAppliesAfterTrim(t *testing.T) {
	srv := newTestServer(t, nil)

	padded := "  " + strings.Repeat("a", chat.MaxPromptLength) + "  "
	rec := srv.do(t, http.MethodPost, "/api/chat", gin.H{"prompt": padded, "conversationId": convID, "userId": "u1"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/conversations/"+convID+"/messages?userId=u1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decode[[]map[string]any](t, rec)
	require.Equal(t, strings.Repeat("a", chat.MaxPromptLength), messages[0]["text"])

	rec = srv.do(t, http.MethodPost, "/api/chat", gin.H{"prompt": "   ", "conversationId": convID, "userId": "u1"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"is required"}, decode[errorBody](t, rec).Fields["prompt"])

	rec = srv.do(t, http.MethodPost, "/api/chat", gin.H{"prompt": strings.Repeat("b", chat.MaxPromptLength+1), "conversationId": convID, "userId": "u1"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"must be at most 1000 characters"}, decode[errorBody](t, rec).Fields["prompt"])
}

func TestGenerateTitleRequiresConversationID(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/generate-title", gin.H{}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	require.Equal(t, []string{"is required"}, decode[errorBody](t, rec).Fields["conversationId"])
}

func TestChatRejectsForeignConversation(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/chat", gin.H{"prompt": "hello", "conversationId": convID, "userId": "u1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/chat", gin.H{"prompt": "hello", "conversationId": convID, "userId": "u2"}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProviderFailureStillAnswers(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.model.CreateCompletionFunc = func(context.Context, llm.CompletionRequest) (*llm.Completion, error) {
		return nil, errors.New("upstream down")
	}

	rec := srv.do(t, http.MethodPost, "/api/chat", gin.H{"prompt": "hello", "conversationId": convID, "userId": "u1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decode[map[string]string](t, rec)["message"])
}

func TestAccountFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/register", gin.H{"name": "dana", "password": "secret1", "gender": "female"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decode[map[string]string](t, rec)
	require.Equal(t, "User registered", registered["message"])
	require.NotEmpty(t, registered["token"])

	rec = srv.do(t, http.MethodPost, "/api/register", gin.H{"name": "dana", "password": "secret2"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Name already taken", decode[errorBody](t, rec).Error)

	rec = srv.do(t, http.MethodPost, "/api/login", gin.H{"name": "dana", "password": "wrong-password"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid name or password", decode[errorBody](t, rec).Error)

	rec = srv.do(t, http.MethodPost, "/api/login", gin.H{"name": "dana", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[map[string]string](t, rec)
	require.Equal(t, registered["userId"], login["userId"])
	require.Equal(t, "female", login["gender"])
	token := login["token"]

	rec = srv.do(t, http.MethodPut, "/api/users/"+login["userId"]+"/background", gin.H{"background": "space.png"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "space.png", decode[map[string]string](t, rec)["background"])

	rec = srv.do(t, http.MethodPut, "/api/users/someone-else/background", gin.H{"background": "space.png"}, token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPut, "/api/users/ghost/background", gin.H{"background": "space.png"}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversationsWithToken(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/register", gin.H{"name": "noa", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decode[map[string]string](t, rec)
	token := registered["token"]

	rec = srv.do(t, http.MethodPost, "/api/chat", gin.H{"prompt": "hello", "conversationId": convID}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/conversations", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	require.Equal(t, convID, list[0]["conversationId"])
	require.Equal(t, registered["userId"], list[0]["userId"])

	rec = srv.do(t, http.MethodGet, "/api/conversations?userId=other", nil, token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/conversations", nil, "forged")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPut, "/api/conversations/"+convID, gin.H{"conversationId": convID, "title": "  Space trip  "}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Space trip", decode[map[string]any](t, rec)["title"])

	rec = srv.do(t, http.MethodPost, "/api/generate-title", gin.H{"prompt": convID}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Hi there", decode[map[string]string](t, rec)["title"])
}

func TestConversationNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/conversations/"+convID, nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/conversations", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"is required"}, decode[errorBody](t, rec).Fields["userId"])

	rec = srv.do(t, http.MethodPost, "/api/generate-title", gin.H{"conversationId": convID, "userId": "u1"}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
