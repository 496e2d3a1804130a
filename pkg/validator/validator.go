package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// request_status accepts only the two terminal states of an inventory request
	_ = validate.RegisterValidation("request_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "Approved" || s == "Rejected"
	})
}

// FieldError describes one failed validation rule
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("field '%s' failed on '%s=%s'", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("field '%s' failed on '%s'", e.Field, e.Tag)
}

// Errors is returned by Struct when one or more rules fail
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates data against its `validate` tags
func Struct(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
