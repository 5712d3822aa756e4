package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/chat-assistant/internal/config"
	"github.com/janhq/chat-assistant/internal/infrastructure/auth"
)

// Authenticator prepends the auth middleware to protected route handlers.
type Authenticator struct {
	middleware gin.HandlerFunc
}

func NewAuthenticator(cfg *config.Config, jwt *auth.JWTManager, logger zerolog.Logger) *Authenticator {
	return &Authenticator{middleware: AuthMiddleware(jwt, cfg.AuthRequired, logger)}
}

// NewAuthenticatorWith builds an Authenticator around any token parser.
func NewAuthenticatorWith(parser TokenParser, required bool, logger zerolog.Logger) *Authenticator {
	return &Authenticator{middleware: AuthMiddleware(parser, required, logger)}
}

// Chain returns the auth middleware followed by handlers.
func (a *Authenticator) Chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{a.middleware}, handlers...)
}
