// Package product holds the normalized catalog records read from and written
// to the Admin API. Every nested connection is a plain slice.
package product

import (
	"strings"
	"time"
)

type Product struct {
	ID          string      `json:"id" mapstructure:"id"`
	Title       string      `json:"title" mapstructure:"title"`
	Handle      string      `json:"handle" mapstructure:"handle"`
	Status      string      `json:"status" mapstructure:"status"`
	Description string      `json:"description" mapstructure:"description"`
	ProductType string      `json:"productType" mapstructure:"productType"`
	Vendor      string      `json:"vendor" mapstructure:"vendor"`
	Tags        []string    `json:"tags" mapstructure:"tags"`
	CreatedAt   time.Time   `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" mapstructure:"updatedAt"`
	Media       []Media     `json:"media" mapstructure:"media"`
	Variants    []Variant   `json:"variants" mapstructure:"variants"`
	Options     []Option    `json:"options" mapstructure:"options"`
	Metafields  []Metafield `json:"metafields" mapstructure:"metafields"`
}

// LegacyID is the numeric tail of the product GID.
func (p Product) LegacyID() string {
	return LegacyID(p.ID)
}

// TotalInventory sums "available" quantities over every variant and location.
func (p Product) TotalInventory() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Available("")
	}
	return total
}

// Metafield looks up a metafield by namespace and key.
func (p Product) Metafield(namespace, key string) (Metafield, bool) {
	for _, m := range p.Metafields {
		if m.Namespace == namespace && m.Key == key {
			return m, true
		}
	}
	return Metafield{}, false
}

type Media struct {
	ID               string        `json:"id" mapstructure:"id"`
	Alt              string        `json:"alt,omitempty" mapstructure:"alt"`
	MediaContentType string        `json:"mediaContentType" mapstructure:"mediaContentType"`
	Status           string        `json:"status,omitempty" mapstructure:"status"`
	Image            *Image        `json:"image,omitempty" mapstructure:"image"`
	Sources          []VideoSource `json:"sources" mapstructure:"sources"`
	EmbedURL         string        `json:"embedUrl,omitempty" mapstructure:"embedUrl"`
	Host             string        `json:"host,omitempty" mapstructure:"host"`
}

type Image struct {
	ID      string `json:"id,omitempty" mapstructure:"id"`
	URL     string `json:"url" mapstructure:"url"`
	AltText string `json:"altText,omitempty" mapstructure:"altText"`
	Width   int    `json:"width,omitempty" mapstructure:"width"`
	Height  int    `json:"height,omitempty" mapstructure:"height"`
}

type VideoSource struct {
	URL      string `json:"url" mapstructure:"url"`
	MimeType string `json:"mimeType" mapstructure:"mimeType"`
	Format   string `json:"format" mapstructure:"format"`
}

type Variant struct {
	ID                string           `json:"id" mapstructure:"id"`
	Title             string           `json:"title" mapstructure:"title"`
	SKU               string           `json:"sku" mapstructure:"sku"`
	Price             string           `json:"price" mapstructure:"price"`
	CompareAtPrice    *string          `json:"compareAtPrice" mapstructure:"compareAtPrice"`
	InventoryQuantity int              `json:"inventoryQuantity" mapstructure:"inventoryQuantity"`
	InventoryItem     *InventoryItem   `json:"inventoryItem,omitempty" mapstructure:"inventoryItem"`
	SelectedOptions   []SelectedOption `json:"selectedOptions" mapstructure:"selectedOptions"`
}

// Available returns the "available" quantity at locationID, or across all
// locations when locationID is empty.
func (v Variant) Available(locationID string) int {
	if v.InventoryItem == nil {
		return 0
	}
	total := 0
	for _, level := range v.InventoryItem.InventoryLevels {
		if locationID != "" && level.Location.ID != locationID {
			continue
		}
		for _, q := range level.Quantities {
			if q.Name == "available" {
				total += q.Quantity
			}
		}
	}
	return total
}

type SelectedOption struct {
	Name  string `json:"name" mapstructure:"name"`
	Value string `json:"value" mapstructure:"value"`
}

type InventoryItem struct {
	ID              string           `json:"id" mapstructure:"id"`
	Tracked         bool             `json:"tracked" mapstructure:"tracked"`
	InventoryLevels []InventoryLevel `json:"inventoryLevels" mapstructure:"inventoryLevels"`
}

type InventoryLevel struct {
	ID         string     `json:"id" mapstructure:"id"`
	Quantities []Quantity `json:"quantities" mapstructure:"quantities"`
	Location   Location   `json:"location" mapstructure:"location"`
}

type Quantity struct {
	Name     string `json:"name" mapstructure:"name"`
	Quantity int    `json:"quantity" mapstructure:"quantity"`
}

type Location struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	IsActive bool   `json:"isActive,omitempty" mapstructure:"isActive"`
}

type Option struct {
	ID       string   `json:"id" mapstructure:"id"`
	Name     string   `json:"name" mapstructure:"name"`
	Position int      `json:"position,omitempty" mapstructure:"position"`
	Values   []string `json:"values" mapstructure:"values"`
}

type Metafield struct {
	ID        string `json:"id,omitempty" mapstructure:"id" yaml:"-"`
	Namespace string `json:"namespace" mapstructure:"namespace" yaml:"namespace"`
	Key       string `json:"key" mapstructure:"key" yaml:"key"`
	Value     string `json:"value" mapstructure:"value" yaml:"value"`
	Type      string `json:"type" mapstructure:"type" yaml:"type"`
}

type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage" mapstructure:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage" mapstructure:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor" mapstructure:"startCursor"`
	EndCursor       *string `json:"endCursor" mapstructure:"endCursor"`
}

// NextCursor reports the cursor to continue from. ok is false when the page
// says it is the last one or when the server omitted the end cursor.
func (pi PageInfo) NextCursor() (cursor string, ok bool) {
	if !pi.HasNextPage || pi.EndCursor == nil || *pi.EndCursor == "" {
		return "", false
	}
	return *pi.EndCursor, true
}

type Publication struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

type Shop struct {
	ID              string `json:"id" mapstructure:"id"`
	Name            string `json:"name" mapstructure:"name"`
	MyshopifyDomain string `json:"myshopifyDomain" mapstructure:"myshopifyDomain"`
	CurrencyCode    string `json:"currencyCode" mapstructure:"currencyCode"`
}

// LegacyID returns the last path segment of a GID such as
// gid://shopify/Product/123. Non-GID input is returned as is.
func LegacyID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		gid = gid[i+1:]
	}
	if i := strings.IndexByte(gid, '?'); i >= 0 {
		gid = gid[:i]
	}
	return gid
}

// GID builds a GID for a resource type and numeric id.
func GID(resource, id string) string {
	return "gid://shopify/" + resource + "/" + id
}
