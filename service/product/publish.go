package product

import (
	"context"
	"fmt"

	"shopify.GO/core/admin"
	"shopify.GO/graphql"
	productEntity "shopify.GO/model/entity/product"
)

// Publish makes the product visible on each publication and returns how
// many publications it is now available on.
func Publish(ctx context.Context, cfg admin.Config, productID string, targets []PublicationTarget) (int, error) {
	if len(targets) == 0 {
		return 0, fmt.Errorf("publishablePublish: no publications given")
	}
	res := admin.Execute(ctx, cfg, admin.Request{
		Query:         graphql.PublishablePublishMutation,
		OperationName: "PublishablePublish",
		Variables:     map[string]interface{}{"id": productID, "input": targets},
	})
	var payload struct {
		Publishable *struct {
			AvailablePublicationsCount *struct {
				Count int `mapstructure:"count"`
			} `mapstructure:"availablePublicationsCount"`
		} `mapstructure:"publishable"`
		UserErrors []admin.UserError `mapstructure:"userErrors"`
	}
	if err := res.Decode("publishablePublish", &payload); err != nil {
		return 0, fmt.Errorf("publishablePublish: %w", err)
	}
	if err := admin.CheckUserErrors("publishablePublish", payload.UserErrors); err != nil {
		return 0, err
	}
	if payload.Publishable == nil || payload.Publishable.AvailablePublicationsCount == nil {
		return 0, nil
	}
	return payload.Publishable.AvailablePublicationsCount.Count, nil
}

// AddExternalVideo attaches a YouTube or Vimeo video to an existing product.
func AddExternalVideo(ctx context.Context, cfg admin.Config, productID, videoURL, alt string) ([]productEntity.Media, error) {
	if alt == "" {
		alt = DefaultVideoAlt
	}
	res := admin.Execute(ctx, cfg, admin.Request{
		Query:         graphql.ProductCreateMediaMutation,
		OperationName: "ProductCreateMedia",
		Variables: map[string]interface{}{
			"productId": productID,
			"media": []map[string]interface{}{{
				"originalSource":   videoURL,
				"alt":              alt,
				"mediaContentType": ContentTypeExternalVideo,
			}},
		},
	})
	var payload struct {
		Media           []productEntity.Media `mapstructure:"media"`
		MediaUserErrors []admin.UserError     `mapstructure:"mediaUserErrors"`
	}
	if err := res.Decode("productCreateMedia", &payload); err != nil {
		return nil, fmt.Errorf("productCreateMedia: %w", err)
	}
	if err := admin.CheckUserErrors("productCreateMedia", payload.MediaUserErrors); err != nil {
		return nil, err
	}
	return payload.Media, nil
}
