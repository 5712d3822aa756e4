package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/chat-assistant/internal/infrastructure/logger"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string              `json:"code,omitempty"` // UUID from PlatformError
	Error         string              `json:"error"`
	Message       string              `json:"message,omitempty"`
	Fields        map[string][]string `json:"fields,omitempty"`
	ErrorInstance error               `json:"-"`
	RequestID     string              `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses. Server side
// failures answer with message only so store and provider details stay in the logs.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errorMessage := platformerrors.RootMessage(domainErr)
		if errorMessage == "" || statusCode >= http.StatusInternalServerError {
			errorMessage = message
		}
		if statusCode >= http.StatusInternalServerError {
			platformerrors.LogError(logger.GetLogger(), domainErr)
		}

		_ = reqCtx.Error(err)
		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Code:          domainErr.GetUUID(),
			Error:         errorMessage,
			Message:       errorMessage,
			Fields:        platformerrors.Fields(domainErr),
			ErrorInstance: domainErr,
			RequestID:     domainErr.GetRequestID(),
		})
		return
	}

	log := logger.GetLogger()
	log.Error().Err(err).Str("request_id", platformerrors.RequestIDFromContext(reqCtx.Request.Context())).Msg(message)
	_ = reqCtx.Error(err)
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:         message,
		Message:       message,
		ErrorInstance: err,
		RequestID:     platformerrors.RequestIDFromContext(reqCtx.Request.Context()),
	})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid)

	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType()), ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		Message:       message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	})
}

// HandleValidationError answers 400 with the failing fields and their reasons.
func HandleValidationError(reqCtx *gin.Context, fields map[string][]string, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, platformerrors.ErrorTypeValidation, message, nil, uuid)

	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		Message:       message,
		Fields:        fields,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	})
}
