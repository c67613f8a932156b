package product

import (
	"context"
	"fmt"

	"shopify.GO/core/admin"
	"shopify.GO/graphql"
	productEntity "shopify.GO/model/entity/product"
)

const (
	ContentTypeImage         = "IMAGE"
	ContentTypeExternalVideo = "EXTERNAL_VIDEO"

	// DefaultVideoAlt is the alt text used when none is given.
	DefaultVideoAlt = "Product demonstration video"
)

// MediaReference points a product mutation at media that already exists
// somewhere reachable: a staged upload's resourceUrl or a video page.
type MediaReference struct {
	ContentType    string `json:"contentType"`
	OriginalSource string `json:"originalSource"`
	Alt            string `json:"alt,omitempty"`
}

// ImageReference references a staged target by its resourceUrl. The upload
// URL itself is never a valid source.
func ImageReference(target productEntity.StagedTarget, alt string) MediaReference {
	return MediaReference{ContentType: ContentTypeImage, OriginalSource: target.ResourceURL, Alt: alt}
}

func VideoReference(url, alt string) MediaReference {
	return MediaReference{ContentType: ContentTypeExternalVideo, OriginalSource: url, Alt: alt}
}

type optionValueInput struct {
	Name string `json:"name"`
}

type optionInput struct {
	Name     string             `json:"name"`
	Position int                `json:"position"`
	Values   []optionValueInput `json:"values"`
}

type variantOptionValue struct {
	OptionName string `json:"optionName"`
	Name       string `json:"name"`
}

type weightInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type measurementInput struct {
	Weight *weightInput `json:"weight,omitempty"`
}

type inventoryItemInput struct {
	Tracked     bool              `json:"tracked"`
	Measurement *measurementInput `json:"measurement,omitempty"`
}

type inventoryQuantityInput struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

type variantInput struct {
	OptionValues        []variantOptionValue     `json:"optionValues"`
	Price               string                   `json:"price"`
	CompareAtPrice      string                   `json:"compareAtPrice,omitempty"`
	Taxable             bool                     `json:"taxable"`
	SKU                 string                   `json:"sku,omitempty"`
	InventoryItem       inventoryItemInput       `json:"inventoryItem"`
	InventoryQuantities []inventoryQuantityInput `json:"inventoryQuantities,omitempty"`
}

type metafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type productSetInput struct {
	Title           string           `json:"title"`
	DescriptionHTML string           `json:"descriptionHtml,omitempty"`
	Vendor          string           `json:"vendor,omitempty"`
	ProductType     string           `json:"productType,omitempty"`
	Status          string           `json:"status,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Files           []MediaReference `json:"files,omitempty"`
	ProductOptions  []optionInput    `json:"productOptions"`
	Variants        []variantInput   `json:"variants"`
	Metafields      []metafieldInput `json:"metafields,omitempty"`
}

// buildProductSetInput maps a definition onto productSet's input. The single
// variant uses Title/Default Title so the store treats it as the default
// variant.
func buildProductSetInput(def *Definition, refs []MediaReference) productSetInput {
	variant := variantInput{
		OptionValues:   []variantOptionValue{{OptionName: "Title", Name: "Default Title"}},
		Price:          def.Price,
		CompareAtPrice: def.CompareAtPrice,
		Taxable:        def.Taxable,
		SKU:            def.ResolvedSKU(),
		InventoryItem:  inventoryItemInput{Tracked: true},
	}
	if def.Weight != nil {
		variant.InventoryItem.Measurement = &measurementInput{
			Weight: &weightInput{Value: def.Weight.Value, Unit: def.Weight.Unit},
		}
	}
	for _, q := range def.Inventory {
		variant.InventoryQuantities = append(variant.InventoryQuantities, inventoryQuantityInput{
			LocationID: q.LocationID, Name: q.Name, Quantity: q.Quantity,
		})
	}

	in := productSetInput{
		Title:           def.Title,
		DescriptionHTML: def.Description,
		Vendor:          def.Vendor,
		ProductType:     def.ProductType,
		Status:          def.Status,
		Tags:            def.Tags,
		Files:           refs,
		ProductOptions: []optionInput{{
			Name: "Title", Position: 1, Values: []optionValueInput{{Name: "Default Title"}},
		}},
		Variants: []variantInput{variant},
	}
	for _, m := range def.Metafields {
		in.Metafields = append(in.Metafields, metafieldInput{
			Namespace: m.Namespace, Key: m.Key, Value: m.Value, Type: m.Type,
		})
	}
	return in
}

// CreateWithMedia creates the product in one synchronous productSet call.
func CreateWithMedia(ctx context.Context, cfg admin.Config, def *Definition, refs []MediaReference) (*productEntity.Product, error) {
	res := admin.Execute(ctx, cfg, admin.Request{
		Query:         graphql.ProductSetMutation,
		OperationName: "ProductSet",
		Variables:     map[string]interface{}{"input": buildProductSetInput(def, refs)},
	})
	var payload struct {
		Product    *productEntity.Product `mapstructure:"product"`
		UserErrors []admin.UserError      `mapstructure:"userErrors"`
	}
	if err := res.Decode("productSet", &payload); err != nil {
		return nil, fmt.Errorf("productSet: %w", err)
	}
	if err := admin.CheckUserErrors("productSet", payload.UserErrors); err != nil {
		return nil, err
	}
	if payload.Product == nil {
		return nil, fmt.Errorf("productSet: %w: product", admin.ErrNoData)
	}
	return payload.Product, nil
}
