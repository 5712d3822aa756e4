package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

const fieldsContextKey = "fields"

// WithRequestID stores the inbound request id so errors created further down carry it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeValidation     ErrorType = "VALIDATION"
	ErrorTypeConflict       ErrorType = "CONFLICT"
	ErrorTypeUnauthorized   ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden      ErrorType = "FORBIDDEN"
	ErrorTypeInternal       ErrorType = "INTERNAL"
	ErrorTypeExternal       ErrorType = "EXTERNAL"
	ErrorTypeDatabaseError  ErrorType = "DATABASE_ERROR"
)

// Layer represents the application layer where the error occurred
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerRoute          Layer = "route"
	LayerInfrastructure Layer = "infrastructure"
)

// PlatformError represents an error with context and metadata
type PlatformError struct {
	UUID      string
	Type      ErrorType
	Message   string
	Err       error
	Context   map[string]any
	RequestID string
	Layer     Layer
	Timestamp time.Time
}

// Error implements the error interface
func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s][%s] %s: %v", e.Layer, e.Type, e.UUID, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s][%s] %s", e.Layer, e.Type, e.UUID, e.Message)
}

// Unwrap returns the underlying error
func (e *PlatformError) Unwrap() error {
	return e.Err
}

func (e *PlatformError) GetErrorType() ErrorType {
	return e.Type
}

func (e *PlatformError) GetRequestID() string {
	return e.RequestID
}

func (e *PlatformError) GetUUID() string {
	return e.UUID
}

// NewError creates a new PlatformError with the specified parameters
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, customUUID string) *PlatformError {
	return NewErrorWithContext(ctx, layer, errorType, message, err, customUUID, nil)
}

// NewErrorWithContext creates a new PlatformError with additional context fields
func NewErrorWithContext(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, customUUID string, contextFields map[string]any) *PlatformError {
	errorContext := make(map[string]any, len(contextFields))
	for k, v := range contextFields {
		errorContext[k] = v
	}

	// Stamped at creation; handlers read it back for the response body.
	return &PlatformError{
		UUID:      customUUID,
		Type:      errorType,
		Message:   message,
		Err:       err,
		RequestID: RequestIDFromContext(ctx),
		Layer:     layer,
		Timestamp: time.Now().UTC(),
		Context:   errorContext,
	}
}

// NewFieldError is a VALIDATION error attributed to one request field, rendered under
// "fields" in the 400 body.
func NewFieldError(ctx context.Context, layer Layer, field, reason string, err error, customUUID string) *PlatformError {
	return NewErrorWithContext(ctx, layer, ErrorTypeValidation, field+" "+reason, err, customUUID, map[string]any{
		fieldsContextKey: map[string][]string{field: {reason}},
	})
}

// AsError wraps an error with layer context, keeping the type and UUID of a wrapped PlatformError.
func AsError(ctx context.Context, layer Layer, err error, message string) *PlatformError {
	if err == nil {
		return nil
	}

	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return NewError(ctx, layer, platformErr.Type, fmt.Sprintf("%s: %s", message, platformErr.Message), platformErr, platformErr.UUID)
	}

	return NewError(ctx, layer, ErrorTypeInternal, message, err, "")
}

var httpStatus = map[ErrorType]int{
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeExternal:     http.StatusBadGateway,
}

// ErrorTypeToHTTPStatus maps error types to HTTP status codes; unknown types are 500.
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	if status, ok := httpStatus[errorType]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsErrorType reports whether the outermost PlatformError in err's chain has errorType.
func IsErrorType(err error, errorType ErrorType) bool {
	var platformErr *PlatformError
	return errors.As(err, &platformErr) && platformErr.Type == errorType
}

// RootMessage returns the message of the innermost PlatformError in the chain. Wrapping
// layers prefix their own text, callers want the original one.
func RootMessage(err error) string {
	var message string
	for err != nil {
		if platformErr, ok := err.(*PlatformError); ok {
			message = platformErr.Message
		}
		err = errors.Unwrap(err)
	}
	return message
}

// Fields merges the field reasons recorded anywhere in the chain.
func Fields(err error) map[string][]string {
	var fields map[string][]string
	for ; err != nil; err = errors.Unwrap(err) {
		platformErr, ok := err.(*PlatformError)
		if !ok {
			continue
		}
		recorded, ok := platformErr.Context[fieldsContextKey].(map[string][]string)
		if !ok {
			continue
		}
		if fields == nil {
			fields = make(map[string][]string, len(recorded))
		}
		for field, reasons := range recorded {
			fields[field] = append(fields[field], reasons...)
		}
	}
	return fields
}

// LogError writes err with its uuid, layer and context. Client-side types are logged at
// warn, everything else at error.
func LogError(logger zerolog.Logger, err *PlatformError) {
	if err == nil {
		return
	}

	event := logger.Error()
	if ErrorTypeToHTTPStatus(err.Type) < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event = event.
		Str("error_uuid", err.UUID).
		Str("error_type", string(err.Type)).
		Str("layer", string(err.Layer)).
		Time("timestamp_utc", err.Timestamp).
		Fields(err.Context)
	if err.RequestID != "" {
		event = event.Str("request_id", err.RequestID)
	}
	if err.Err != nil {
		event = event.Err(err.Err)
	}
	event.Msg(err.Message)
}
