package requests

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/janhq/chat-assistant/internal/domain/chat"
)

type ChatRequest struct {
	Prompt         string `json:"prompt" binding:"required"`
	ConversationID string `json:"conversationId" binding:"required,uuid"`
	UserID         string `json:"userId" binding:"omitempty,max=128"`
}

// Check trims the prompt in place, so the length limit applies to what will be stored.
func (r *ChatRequest) Check() map[string][]string {
	prompt, err := chat.ValidatePrompt(r.Prompt)
	if err != nil {
		return map[string][]string{"prompt": {err.Error()}}
	}
	r.Prompt = prompt
	return nil
}

// GenerateTitleRequest accepts the conversation id either as conversationId or, as older
// clients send it, as prompt.
type GenerateTitleRequest struct {
	ConversationID string `json:"conversationId" binding:"omitempty,uuid"`
	Prompt         string `json:"prompt" binding:"omitempty,uuid"`
	UserID         string `json:"userId" binding:"omitempty,max=128"`
}

func (r GenerateTitleRequest) TargetID() string {
	if r.ConversationID != "" {
		return r.ConversationID
	}
	return r.Prompt
}

func (r *GenerateTitleRequest) Check() map[string][]string {
	if r.TargetID() == "" {
		return map[string][]string{"conversationId": {"is required"}}
	}
	return nil
}

type UpdateConversationRequest struct {
	ConversationID string `json:"conversationId" binding:"omitempty,uuid"`
	Title          string `json:"title" binding:"required,max=200"`
	UserID         string `json:"userId" binding:"omitempty,max=128"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Gender   string `json:"gender" binding:"omitempty,oneof=male female"`
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type BackgroundRequest struct {
	Background string `json:"background" binding:"required,max=512"`
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	}
}

// FieldErrors maps binding failures to {field: [reasons]}. ok is false when err is not a
// validation failure, such as malformed JSON.
func FieldErrors(err error) (map[string][]string, bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}
	fields := make(map[string][]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = append(fields[fe.Field()], reason(fe))
	}
	return fields, true
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "uuid":
		return "must be a UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
