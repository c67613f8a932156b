package admin

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Outcome tags what a response carried.
type Outcome int

const (
	OutcomeData Outcome = iota
	OutcomeGraphQLErrors
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeData:
		return "data"
	case OutcomeGraphQLErrors:
		return "graphql-errors"
	case OutcomeTransportFailure:
		return "transport-failure"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Error is one entry of the top-level "errors" list.
type Error struct {
	Message    string                 `json:"message"`
	Locations  []ErrorLocation        `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Code returns extensions.code, e.g. THROTTLED or ACCESS_DENIED.
func (e Error) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

type Result struct {
	Outcome    Outcome
	StatusCode int
	Data       json.RawMessage
	Errors     []Error
	Extensions map[string]interface{}
	Failure    error
}

// Parse decodes a 2xx response body. A body that is not JSON is a transport
// failure; a non-empty "errors" member wins over any partial data.
func Parse(status int, raw []byte) *Result {
	if !gjson.ValidBytes(raw) {
		return &Result{
			Outcome:    OutcomeTransportFailure,
			StatusCode: status,
			Failure:    &TransportError{StatusCode: status, Body: truncate(string(raw), 512), Err: errors.New("response is not JSON")},
		}
	}

	res := &Result{Outcome: OutcomeData, StatusCode: status}
	if data := gjson.GetBytes(raw, "data"); data.Exists() && data.Type != gjson.Null {
		res.Data = json.RawMessage(data.Raw)
	}
	if ext := gjson.GetBytes(raw, "extensions"); ext.IsObject() {
		_ = json.Unmarshal([]byte(ext.Raw), &res.Extensions)
	}

	errs := gjson.GetBytes(raw, "errors")
	switch {
	case errs.IsArray():
		if err := json.Unmarshal([]byte(errs.Raw), &res.Errors); err != nil {
			res.Errors = []Error{{Message: errs.Raw}}
		}
	case errs.IsObject():
		// {"errors": {"field": ["message"]}} style
		errs.ForEach(func(key, value gjson.Result) bool {
			res.Errors = append(res.Errors, Error{Message: key.String() + ": " + value.String()})
			return true
		})
	case errs.Type == gjson.String && errs.String() != "":
		res.Errors = []Error{{Message: errs.String()}}
	}
	if len(res.Errors) > 0 {
		res.Outcome = OutcomeGraphQLErrors
	}
	return res
}

// Err returns nil only for OutcomeData.
func (r *Result) Err() error {
	switch r.Outcome {
	case OutcomeGraphQLErrors:
		return &ResponseError{Errors: r.Errors}
	case OutcomeTransportFailure:
		if r.Failure == nil {
			return &TransportError{StatusCode: r.StatusCode}
		}
		return r.Failure
	}
	return nil
}

// Has reports whether path exists and is not null in the data payload.
func (r *Result) Has(path string) bool {
	v := gjson.GetBytes(r.Data, path)
	return v.Exists() && v.Type != gjson.Null
}

// Field returns the raw value at path in the data payload.
func (r *Result) Field(path string) gjson.Result {
	return gjson.GetBytes(r.Data, path)
}

// Decode unmarshals the payload found at path (gjson syntax) into out,
// flattening edge/node containers on the way. A missing or null payload
// yields ErrNoData.
func (r *Result) Decode(path string, out interface{}) error {
	if err := r.Err(); err != nil {
		return err
	}
	v := gjson.GetBytes(r.Data, path)
	if !v.Exists() || v.Type == gjson.Null {
		return fmt.Errorf("%w: %s", ErrNoData, path)
	}
	return Decode(v.Value(), out)
}
