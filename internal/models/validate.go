package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ValidationError lists the fields of a payload that failed validation,
// keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldMessages are the user-facing messages of the post form.
var fieldMessages = map[string]string{
	"title":       "Title is required.",
	"description": "Description is required.",
	"content":     "Content is required.",
	"image":       "Please enter a valid URL.",
}

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every required field is present and that image is
// an absolute http(s) URL. It returns a *ValidationError on failure.
func (in PostInput) Validate() error {
	return validateStruct(in)
}

// Validate checks only the fields the patch carries.
func (p PostPatch) Validate() error {
	return validateStruct(p)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating %T: %w", v, err)
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("failed %q validation.", fe.Tag())
		}
		verr.Fields[fe.Field()] = msg
	}
	return verr
}
