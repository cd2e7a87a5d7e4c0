package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages line up with request bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and converts failures to a
// *ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}

// Inputs

type CreatePostInput struct {
	Content string `json:"content" validate:"required,max=280"`
}

type UpdatePostInput struct {
	Content string `json:"content" validate:"required,max=280"`
}

type FinishOnboardingInput struct {
	Name     string  `json:"name" validate:"required,min=3,max=255"`
	Email    string  `json:"email" validate:"required,email"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	PhotoURL *string `json:"photoUrl" validate:"omitempty,url"`
	Bio      *string `json:"bio" validate:"omitempty,max=160"`
}

// UpdateProfileInput is a partial edit; nil fields are left alone and an
// empty bio or location clears it. Bounds are the column widths.
type UpdateProfileInput struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

type UpdatePhotoInput struct {
	URL string `json:"url" validate:"required,url"`
}

// ProvisionInput is the identity the auth collaborator vouches for.
type ProvisionInput struct {
	ID    string
	Name  string
	Email string
	Image string
}
