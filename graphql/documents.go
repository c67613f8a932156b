package graphql

import "sort"

// ProductsQuery reads one page of products with their nested connections.
// The nested page sizes are variables so callers can raise the caps.
const ProductsQuery = `query Products($first: Int!, $after: String, $mediaFirst: Int!, $variantsFirst: Int!, $levelsFirst: Int!, $metafieldsFirst: Int!) {
  products(first: $first, after: $after) {
    edges {
      node {
        id
        title
        handle
        status
        description
        productType
        vendor
        tags
        createdAt
        updatedAt
        media(first: $mediaFirst) {
          edges {
            node {
              id
              alt
              mediaContentType
              status
              ... on MediaImage {
                image {
                  id
                  url
                  altText
                  width
                  height
                }
              }
              ... on Video {
                sources {
                  url
                  mimeType
                  format
                }
              }
              ... on ExternalVideo {
                embedUrl
                host
              }
            }
          }
        }
        variants(first: $variantsFirst) {
          edges {
            node {
              id
              title
              sku
              price
              compareAtPrice
              inventoryQuantity
              inventoryItem {
                id
                tracked
                inventoryLevels(first: $levelsFirst) {
                  edges {
                    node {
                      id
                      quantities(names: ["available"]) {
                        name
                        quantity
                      }
                      location {
                        id
                        name
                      }
                    }
                  }
                }
              }
              selectedOptions {
                name
                value
              }
            }
          }
        }
        options {
          id
          name
          position
          values
        }
        metafields(first: $metafieldsFirst) {
          edges {
            node {
              id
              namespace
              key
              value
              type
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
      startCursor
      endCursor
    }
  }
}`

const ShopQuery = `query Shop {
  shop {
    id
    name
    myshopifyDomain
    currencyCode
  }
}`

const PublicationsQuery = `query Publications($first: Int!, $after: String) {
  publications(first: $first, after: $after) {
    edges {
      node {
        id
        name
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const LocationsQuery = `query Locations($first: Int!, $after: String) {
  locations(first: $first, after: $after) {
    edges {
      node {
        id
        name
        isActive
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const StagedUploadsCreateMutation = `mutation StagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters {
        name
        value
      }
    }
    userErrors {
      field
      message
    }
  }
}`

// ProductSetMutation runs synchronously so the created product comes back
// in the same response.
const ProductSetMutation = `mutation ProductSet($input: ProductSetInput!) {
  productSet(input: $input, synchronous: true) {
    product {
      id
      title
      handle
      status
      variants(first: 1) {
        nodes {
          id
          price
          sku
        }
      }
    }
    userErrors {
      field
      message
      code
    }
  }
}`

const PublishablePublishMutation = `mutation PublishablePublish($id: ID!, $input: [PublicationInput!]!) {
  publishablePublish(id: $id, input: $input) {
    publishable {
      availablePublicationsCount {
        count
      }
    }
    userErrors {
      field
      message
    }
  }
}`

const ProductCreateMediaMutation = `mutation ProductCreateMedia($productId: ID!, $media: [CreateMediaInput!]!) {
  productCreateMedia(productId: $productId, media: $media) {
    media {
      id
      alt
      mediaContentType
      status
      ... on ExternalVideo {
        embedUrl
        host
      }
    }
    mediaUserErrors {
      field
      message
      code
    }
  }
}`

var documents = map[string]string{
	"Products":            ProductsQuery,
	"Shop":                ShopQuery,
	"Publications":        PublicationsQuery,
	"Locations":           LocationsQuery,
	"StagedUploadsCreate": StagedUploadsCreateMutation,
	"ProductSet":          ProductSetMutation,
	"PublishablePublish":  PublishablePublishMutation,
	"ProductCreateMedia":  ProductCreateMediaMutation,
}

// sampleVariables satisfies every required variable of a document so it can
// be validated offline. graphql-go coerces variables during validation and
// treats a missing required one as null.
var sampleVariables = map[string]map[string]interface{}{
	"Products": {
		"first": 50, "mediaFirst": 10, "variantsFirst": 20, "levelsFirst": 5, "metafieldsFirst": 20,
	},
	"Shop":         {},
	"Publications": {"first": 50},
	"Locations":    {"first": 50},
	"StagedUploadsCreate": {
		"input": []interface{}{map[string]interface{}{
			"resource": "IMAGE", "filename": "image.jpg", "mimeType": "image/jpeg", "httpMethod": "PUT",
		}},
	},
	"ProductSet": {
		"input": map[string]interface{}{"title": "Sample"},
	},
	"PublishablePublish": {
		"id":    "gid://shopify/Product/1",
		"input": []interface{}{map[string]interface{}{"publicationId": "gid://shopify/Publication/1"}},
	},
	"ProductCreateMedia": {
		"productId": "gid://shopify/Product/1",
		"media": []interface{}{map[string]interface{}{
			"originalSource": "https://vimeo.com/1", "mediaContentType": "EXTERNAL_VIDEO",
		}},
	},
}

// SampleVariables returns a copy of the variables used to validate the named
// document.
func SampleVariables(name string) map[string]interface{} {
	out := make(map[string]interface{}, len(sampleVariables[name]))
	for k, v := range sampleVariables[name] {
		out[k] = v
	}
	return out
}

// Documents returns every operation keyed by operation name.
func Documents() map[string]string {
	out := make(map[string]string, len(documents))
	for k, v := range documents {
		out[k] = v
	}
	return out
}

// DocumentNames lists the operation names in sorted order.
func DocumentNames() []string {
	names := make([]string, 0, len(documents))
	for k := range documents {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
