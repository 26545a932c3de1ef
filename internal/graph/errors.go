package graph

import (
	"errors"

	"go.uber.org/zap"

	"github.com/fathima-sithara/person-service/internal/repository"
	"github.com/fathima-sithara/person-service/internal/validation"
)

const (
	CodeBadUserInput = "BAD_USER_INPUT"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// Error is a resolver error carrying GraphQL response extensions.
type Error struct {
	Message    string
	Code       string
	InvalidArg interface{}
	Fields     []validation.FieldError
	cause      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if e.InvalidArg != nil {
		ext["invalidArgs"] = e.InvalidArg
	}
	if len(e.Fields) > 0 {
		ext["fields"] = e.Fields
	}
	return ext
}

func (r *Resolver) mutationError(field string, err error, name string, args map[string]interface{}) error {
	if errors.Is(err, repository.ErrDuplicateName) {
		return &Error{Message: "Name must be unique", Code: CodeBadUserInput, InvalidArg: name, cause: err}
	}
	var ve *validation.Error
	if errors.As(err, &ve) {
		return &Error{Message: ve.Error(), Code: CodeBadUserInput, InvalidArg: args, Fields: ve.Fields, cause: err}
	}
	return r.internal(field, err)
}

func (r *Resolver) internal(field string, err error) error {
	r.log.Error("resolver failed", zap.String("field", field), zap.Error(err))
	return &Error{Message: "internal server error", Code: CodeInternal, cause: err}
}
