// Package service implements the business operations of the API on top
// of an injected storage.Storage. Handlers call services; services never
// know about HTTP.
//
// Every operation validates its input first and reports failures as one
// of three error types: *ValidationError, *NotFoundError or
// *ConflictError. Anything else is an unexpected store failure.
package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// validate is shared: a *validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names ("student_id", not "StudentID")
	// so error messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return v
}

// validateStruct runs the validate:"..." rules on req.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: fieldErrs}
	}
	return err
}
