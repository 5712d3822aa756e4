package requests

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/responses"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

// checker is implemented by requests whose rules need the decoded value, such as
// trimming before a length check. Returned fields are merged with the tag failures.
type checker interface {
	Check() map[string][]string
}

// BindJSON decodes the body into obj and answers 400 when it is malformed or fails
// validation. It reports whether the handler may continue.
func BindJSON(reqCtx *gin.Context, obj any) bool {
	fields := map[string][]string{}
	if err := reqCtx.ShouldBindJSON(obj); err != nil {
		tagFields, ok := FieldErrors(err)
		if !ok {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "a8d2f6c0-5e1b-4a7d-9c3f-1b6e8a4d2c95")
			return false
		}
		fields = tagFields
	}
	if c, ok := obj.(checker); ok {
		for field, reasons := range c.Check() {
			if _, seen := fields[field]; !seen {
				fields[field] = reasons
			}
		}
	}
	if len(fields) > 0 {
		responses.HandleValidationError(reqCtx, fields, "Validation failed", "0f6b3d8a-2c7e-4b9f-a1d5-8e3c6f0b2a47")
		return false
	}
	return true
}
