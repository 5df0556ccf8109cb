package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/campus-resource-service/pkg/util"
)

var validate = validator.New()

// Validate runs struct-tag validation and converts failures into the
// domain validation error with per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return util.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return util.NewValidationError("validation failed", details)
}
