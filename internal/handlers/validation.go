package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators installs the custom rules used by the request DTOs on
// gin's validator. Field errors are reported under their JSON names.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return utils.IsValidUsername(fl.Field().String())
		})
		_ = v.RegisterValidation("mcversion", func(fl validator.FieldLevel) bool {
			return utils.IsValidServerVersion(fl.Field().String())
		})
	})
}

// fieldMessages holds the client-facing message for each validated field.
// A tag-specific entry ("field.tag") wins over the field default.
var fieldMessages = map[string]string{
	"username":          "Username must be between 3 and 30 characters",
	"username.username": "Username can only contain letters, numbers, and underscores",
	"email":             "Please enter a valid email",
	"password":          "Password must be at least 6 characters long",
	"password.required": "Password is required",
	"password.max":      "Password cannot exceed 72 characters",
	"newPassword":       "New password must be at least 6 characters long",
	"newPassword.max":   "New password cannot exceed 72 characters",
	"name":              "Server name must be between 3 and 50 characters",
	"description":       "Description cannot exceed 500 characters",
	"version":           "Version must be in format X.Y or X.Y.Z",
	"type":              "Invalid server type",
	"maxPlayers":        "Max players must be between 1 and 100",
	"billing":           "Billing must be monthly or yearly",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// bindingError converts a binding failure into a validation AppError.
func bindingError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		fields := make([]apperrors.FieldError, 0, len(ves))
		for _, fe := range ves {
			fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return apperrors.NewValidationFailedError(fields)
	}
	return apperrors.NewBadRequestError("Invalid request body")
}

// bindJSON binds and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

// bindQuery binds and validates query parameters, answering 400 on failure.
func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}
