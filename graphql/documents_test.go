package graphql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaParses(t *testing.T) {
	_, err := ParsedSchema()
	require.NoError(t, err)
}

func TestDocumentsValidate(t *testing.T) {
	for name, err := range ValidateAll() {
		t.Errorf("%s: %v", name, err)
	}
}

func TestValidateRejectsUnknownField(t *testing.T) {
	err := Validate(`query { products(first: 1) { edges { node { sku } } } }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sku")
}

func TestDocumentNamesMatchOperations(t *testing.T) {
	names := DocumentNames()
	assert.Len(t, names, 8)
	for _, name := range names {
		doc := Documents()[name]
		if !strings.Contains(doc, " "+name+"(") && !strings.Contains(doc, " "+name+" {") {
			t.Errorf("document %q does not declare operation %q", doc[:30], name)
		}
	}
}

func TestProductsQueryNestedCaps(t *testing.T) {
	for _, field := range []string{"media(first: $mediaFirst)", "variants(first: $variantsFirst)", "inventoryLevels(first: $levelsFirst)", "metafields(first: $metafieldsFirst)", `quantities(names: ["available"])`} {
		assert.Contains(t, ProductsQuery, field)
	}
}
