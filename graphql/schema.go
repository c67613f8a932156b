package graphql

import (
	_ "embed"
)

//go:embed schema.graphqls
var schemaBase string

// Schema returns the Admin API schema subset the documents are written
// against.
func Schema() string {
	return schemaBase
}
