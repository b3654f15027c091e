package tokens

import (
	"errors"
	"fmt"

	"tokflow/internal/source"
)

// InternalError reports a malformed analysis pass. It is raised with panic and
// aborts the current translation unit.
type InternalError struct {
	Pos     source.Pos
	Token   string
	Message string
}

func (e *InternalError) Error() string {
	if e.Token == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (token %q at %s)", e.Message, e.Token, e.Pos)
}

// internalError panics with an InternalError positioned at tok (which may be nil).
func internalError(tok *Token, msg string) {
	panic(newInternalError(tok, msg))
}

func newInternalError(tok *Token, msg string) *InternalError {
	e := &InternalError{Message: msg}
	if tok != nil {
		e.Token = tok.str
		e.Pos = tok.Pos()
	}
	return e
}

// AsInternalError unwraps a recovered panic value.
func AsInternalError(r any) (*InternalError, bool) {
	err, ok := r.(error)
	if !ok {
		return nil, false
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
