package behavior

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bjaus/mediator"
)

// ErrValidation is matched by ValidationError.
var ErrValidation = errors.New("behavior: request validation failed")

var errNilRequest = errors.New("request is a nil pointer")

// ValidationError reports a request rejected before reaching its handler.
type ValidationError struct {
	Request string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrValidation, e.Request, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error { return e.Err }

// Is allows errors.Is to match ValidationError with ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// validatable is the interface for request self-validation.
// Compatible with github.com/go-ozzo/ozzo-validation/v4.
type validatable interface {
	Validate() error
}

// Validation returns a behavior that validates requests before the rest of
// the pipeline runs. Requests implementing Validate() error are validated by
// that method; struct requests are then checked against their `validate`
// tags with v. A nil v skips tag validation. A nil pointer request is
// rejected without calling its Validate method.
//
// Example:
//
//	type CreateUser struct {
//	    Email string `validate:"required,email"`
//	}
//
//	mediator.AddOpenBehavior(c, behavior.Validation(validator.New(validator.WithRequiredStructEnabled())))
func Validation(v *validator.Validate) mediator.Behavior {
	return func(ctx context.Context, request any, next mediator.Next) (any, error) {
		if rv := reflect.ValueOf(request); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, &ValidationError{Request: RequestName(request), Err: errNilRequest}
		}

		if val, ok := request.(validatable); ok {
			if err := val.Validate(); err != nil {
				return nil, &ValidationError{Request: RequestName(request), Err: err}
			}
		}

		if v != nil && isStruct(request) {
			if err := v.StructCtx(ctx, request); err != nil {
				return nil, &ValidationError{Request: RequestName(request), Err: formatValidationError(err)}
			}
		}

		return next(ctx)
	}
}

func isStruct(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

// formatValidationError converts validator errors into a readable message.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(messages, "; "), err)
}
