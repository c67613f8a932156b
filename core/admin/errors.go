package admin

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData means the response carried no payload for the requested root.
var ErrNoData = errors.New("no data in response")

// TransportError covers network failures, non-2xx statuses and bodies that
// are not JSON.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("admin api: status %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("admin api: %v", e.Err)
	case e.Body != "":
		return fmt.Sprintf("admin api: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("admin api: status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError wraps a non-empty top-level "errors" list.
type ResponseError struct {
	Errors []Error
}

func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		if code := err.Code(); code != "" {
			msgs = append(msgs, fmt.Sprintf("%s (%s)", err.Message, code))
			continue
		}
		msgs = append(msgs, err.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// UserError is a mutation payload's in-band validation failure.
type UserError struct {
	Field   []string `json:"field" mapstructure:"field"`
	Message string   `json:"message" mapstructure:"message"`
	Code    string   `json:"code,omitempty" mapstructure:"code"`
}

func (u UserError) String() string {
	if len(u.Field) == 0 {
		return u.Message
	}
	return strings.Join(u.Field, ".") + ": " + u.Message
}

// UserErrorsError reports the userErrors of one mutation.
type UserErrorsError struct {
	Operation string
	Errors    []UserError
}

func (e *UserErrorsError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, u := range e.Errors {
		parts = append(parts, u.String())
	}
	return fmt.Sprintf("%s user errors: %s", e.Operation, strings.Join(parts, "; "))
}

// CheckUserErrors returns a *UserErrorsError when errs is non-empty.
func CheckUserErrors(operation string, errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	return &UserErrorsError{Operation: operation, Errors: errs}
}
