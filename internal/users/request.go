package users

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared, validator.Validate caches struct metadata and is safe for concurrent use.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}()

type RegisterRequest struct {
	Username        string  `json:"username" validate:"required,min=2,max=50"`
	Email           string  `json:"email" validate:"required,email,max=255"`
	Password        string  `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required,eqfield=Password"`
	HeightCm        float64 `json:"heightCm" validate:"gt=0,lt=300"`
	WeightKg        float64 `json:"weightKg" validate:"gt=0,lt=700"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type DifficultyRequest struct {
	Tier             string   `json:"tier" validate:"omitempty,oneof=beginner intermediate advanced"`
	CustomMultiplier *float64 `json:"customMultiplier" validate:"omitempty,gt=0"`
}

// validationError flattens validator errors into a single message naming the json fields.
func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s %s", e.Field(), friendlyMessage(e)))
	}
	return errors.New(strings.Join(messages, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "eqfield":
		return "must match " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	default:
		return "is invalid"
	}
}
