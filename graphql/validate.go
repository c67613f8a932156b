package graphql

import (
	"fmt"
	"strings"
	"sync"

	gql "github.com/graph-gophers/graphql-go"
)

var (
	parsedOnce   sync.Once
	parsedSchema *gql.Schema
	parseErr     error
)

// ParsedSchema parses the embedded schema once, without resolvers.
func ParsedSchema() (*gql.Schema, error) {
	parsedOnce.Do(func() {
		parsedSchema, parseErr = gql.ParseSchema(Schema(), nil)
	})
	return parsedSchema, parseErr
}

// Validate checks a document that declares no required variables against
// the embedded schema.
func Validate(doc string) error {
	return ValidateWithVariables(doc, nil)
}

// ValidateWithVariables checks a document against the embedded schema,
// coercing vars against its variable definitions.
func ValidateWithVariables(doc string, vars map[string]interface{}) error {
	schema, err := ParsedSchema()
	if err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}
	errs := schema.ValidateWithVariables(doc, vars)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("invalid document: %s", strings.Join(msgs, "; "))
}

// ValidateAll validates every known document and returns failures by
// operation name.
func ValidateAll() map[string]error {
	failures := make(map[string]error)
	for _, name := range DocumentNames() {
		if err := ValidateWithVariables(documents[name], SampleVariables(name)); err != nil {
			failures[name] = err
		}
	}
	return failures
}
