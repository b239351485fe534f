package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrDanglingSentryRef       = errors.New("referenced sentry does not exist")
	ErrDanglingSourceRef       = errors.New("referenced plan item does not exist")
	ErrInvalidOnPart           = errors.New("invalid on part")
	ErrInvalidSentry           = errors.New("invalid sentry")
	ErrMissingDefinition       = errors.New("plan item definition not found")
	ErrUnsupportedElement      = errors.New("unsupported plan item definition")
	ErrInvalidBinding          = errors.New("invalid binding")
	ErrMissingFieldName        = errors.New("field has no name")
	ErrMissingFieldValue       = errors.New("field has no value")
	ErrMissingDelegate         = errors.New("listener has no delegate")
	ErrInvalidParameterMapping = errors.New("invalid parameter mapping")
	ErrInvalidTimer            = errors.New("invalid timer expression")
	ErrInvalidScript           = errors.New("invalid script")
	ErrMissingCasePlanModel    = errors.New("case has no case plan model")
)

// CompileError is a structural error of the compiled document. It aborts the
// compilation of the whole case.
type CompileError struct {
	ElementId string
	Msg       string
	Err       error
}

func (e *CompileError) Error() string {
	msg := e.Err.Error()
	if e.Msg != "" {
		msg = msg + ": " + e.Msg
	}
	if e.ElementId != "" {
		return fmt.Sprintf("element [%s]: %s", e.ElementId, msg)
	}
	return msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func newCompileErrorf(elementId string, err error, format string, a ...any) error {
	return &CompileError{
		ElementId: elementId,
		Msg:       fmt.Sprintf(format, a...),
		Err:       err,
	}
}
