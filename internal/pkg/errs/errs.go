/*
Package errs defines the relay's coded errors.

Every failure a client can see, over REST or as a socket error frame, is a
*CustomError: a numeric code from the constants table, the message shown to the
user, and the HTTP status used when the error leaves through a handler.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"relaychat/internal/pkg/logx"
)

// CustomError is a coded error. Two CustomErrors match under errors.Is when
// their codes are equal, whatever their formatted messages.
type CustomError struct {
	Code    int
	Message string

	// Status is the HTTP status for REST responses; socket error frames ignore it.
	Status int
}

func (e CustomError) Error() string {
	return fmt.Sprintf("relay error %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// Is matches target by code, so errors.Is(err, errs.NewError(errs.ErrNotJoined)) works.
func (e CustomError) Is(target error) bool {
	var other *CustomError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// NewError returns a copy of the registered error for code.
//
// details fill the message's printf verbs. For ErrUnknown the first detail may
// be the underlying error instead; it is logged and never shown to the client.
// An unregistered code yields ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	tmpl, ok := errorMap[code]
	if !ok {
		logx.Warn("Unregistered error code, reporting ErrUnknown", "requested_code", code)
		tmpl = errorMap[ErrUnknown]
	}

	e := tmpl
	if e.Status == 0 {
		e.Status = http.StatusOK
	}

	if len(details) == 0 || !ok {
		return &e
	}

	switch {
	case code == ErrUnknown:
		if cause, isErr := details[0].(error); isErr {
			logx.Error(cause, "Unexpected error reported to client as ErrUnknown")
		}
	case strings.Contains(e.Message, "%"):
		e.Message = fmt.Sprintf(e.Message, details...)
	default:
		logx.Debug("Error details ignored: message has no placeholders", "code", code)
	}

	return &e
}

// CodeOf returns err's code: 0 for nil, ErrUnknown for errors that carry none.
func CodeOf(err error) int {
	if err == nil {
		return 0
	}

	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return ErrUnknown
}

// HasCode reports whether err carries code.
func HasCode(err error, code int) bool {
	return err != nil && CodeOf(err) == code
}
