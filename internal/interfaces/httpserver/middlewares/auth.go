package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/chat-assistant/internal/domain"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/responses"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const principalContextKey = "principal"

// TokenParser validates a bearer token and returns its principal.
type TokenParser interface {
	Parse(raw string) (domain.Principal, error)
}

// AuthMiddleware reads an optional bearer token. A token that is present must be valid;
// a missing token is rejected only when required is set.
func AuthMiddleware(parser TokenParser, required bool, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, hasToken := bearerToken(c)
		if !hasToken {
			if required {
				metrics.RecordAuth("token", "missing")
				responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "5b0e7c2a-8f4d-4a1b-9e3c-6d2f8a4b1c75")
				return
			}
			c.Next()
			return
		}

		principal, err := parser.Parse(raw)
		if err != nil {
			metrics.RecordAuth("token", "invalid")
			logger.Warn().Err(err).Str("path", c.FullPath()).Msg("jwt validation failed")
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "invalid token", "c9a3e5f1-2b7d-4c8e-a6f4-1e9b3d7a5c28")
			return
		}
		metrics.RecordAuth("token", "valid")
		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

// ResolveUserID picks the acting user. The token principal fills in an omitted userId and
// an explicit userId that differs from it is FORBIDDEN. Without a token the explicit value
// is used as is.
func ResolveUserID(c *gin.Context, explicit string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return explicit, nil
	}
	if explicit != "" && explicit != principal.ID {
		return "", platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeForbidden, "userId does not match the authenticated user", nil, "7e1d5b9f-4a3c-4f2e-b8d6-2c5a9e1f7b34")
	}
	return principal.ID, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return header, true
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
