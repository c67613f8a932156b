package config

import (
	"fmt"
	"strings"
)

// StoreDomain turns a store name into its myshopify host. A full host is
// returned unchanged.
func StoreDomain(store string) string {
	store = strings.TrimSpace(store)
	store = strings.TrimPrefix(store, "https://")
	store = strings.TrimSuffix(store, "/")
	if strings.HasSuffix(store, ".myshopify.com") {
		return store
	}
	return store + ".myshopify.com"
}

// GraphQLEndpoint is the Admin API URL for a store and API version.
func GraphQLEndpoint(store, version string) string {
	if version == "" {
		version = DefaultAPIVersion
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", StoreDomain(store), version)
}

// AdminProductURL links to the product page in the store admin.
func AdminProductURL(store, legacyID string) string {
	return fmt.Sprintf("https://%s/admin/products/%s", StoreDomain(store), legacyID)
}
