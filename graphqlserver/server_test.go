package graphqlserver

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify.GO/core/admin"
	"shopify.GO/graphql"
	"shopify.GO/model/entity/product"
)

func startServer(t *testing.T) (*Server, admin.Config) {
	t.Helper()
	srv, err := New()
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, admin.Config{
		Endpoint:   ts.URL + "/admin/api/2025-07/graphql.json",
		Credential: DefaultToken,
		Tenant:     "mock-store",
	}
}

func productsPage(t *testing.T, cfg admin.Config, first int, after *string) (*admin.Result, []product.Product, product.PageInfo) {
	t.Helper()
	vars := map[string]interface{}{
		"first": first, "mediaFirst": 10, "variantsFirst": 20, "levelsFirst": 5, "metafieldsFirst": 20,
	}
	if after != nil {
		vars["after"] = *after
	}
	res := admin.Execute(context.Background(), cfg, admin.Request{Query: graphql.ProductsQuery, OperationName: "Products", Variables: vars})
	if res.Err() != nil {
		return res, nil, product.PageInfo{}
	}
	var (
		items []product.Product
		info  product.PageInfo
	)
	require.NoError(t, res.Decode("products", &items))
	require.NoError(t, res.Decode("products.pageInfo", &info))
	return res, items, info
}

func TestProductsPagination(t *testing.T) {
	srv, cfg := startServer(t)
	srv.Store().Seed(5)

	var titles []string
	var after *string
	calls := 0
	for {
		res, items, info := productsPage(t, cfg, 2, after)
		require.NoError(t, res.Err())
		calls++
		for _, p := range items {
			titles = append(titles, p.Title)
			assert.Len(t, p.Variants, 1)
			assert.Equal(t, "Default Title", p.Variants[0].SelectedOptions[0].Value)
		}
		next, ok := info.NextCursor()
		if !ok {
			break
		}
		after = &next
	}

	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"Product 001", "Product 002", "Product 003", "Product 004", "Product 005"}, titles)
	assert.Equal(t, 3, srv.Store().OperationCount("Products"))
}

func TestProductsRequiresFirst(t *testing.T) {
	_, cfg := startServer(t)
	res := admin.Execute(context.Background(), cfg, admin.Request{Query: `{ products { edges { node { id } } } }`})
	assert.Equal(t, admin.OutcomeGraphQLErrors, res.Outcome)
}

func TestRejectsBadTokenAndVersion(t *testing.T) {
	_, cfg := startServer(t)

	bad := cfg
	bad.Credential = "shpat_wrong"
	res := admin.Execute(context.Background(), bad, admin.Request{Query: graphql.ShopQuery})
	assert.Equal(t, admin.OutcomeTransportFailure, res.Outcome)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	bad = cfg
	bad.Endpoint = strings.Replace(cfg.Endpoint, "2025-07", "latest", 1)
	res = admin.Execute(context.Background(), bad, admin.Request{Query: graphql.ShopQuery})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestFailProductsAfter(t *testing.T) {
	srv, cfg := startServer(t)
	srv.Store().Seed(3)
	srv.Store().FailProductsAfter(1, "Internal error")

	res, _, _ := productsPage(t, cfg, 1, nil)
	require.NoError(t, res.Err())
	res, _, _ = productsPage(t, cfg, 1, nil)
	require.Equal(t, admin.OutcomeGraphQLErrors, res.Outcome)
	assert.Contains(t, res.Err().Error(), "Internal error")
}

func stage(t *testing.T, cfg admin.Config, method, mime string) (url, resourceURL string, params []map[string]interface{}) {
	t.Helper()
	res := admin.Execute(context.Background(), cfg, admin.Request{
		Query:         graphql.StagedUploadsCreateMutation,
		OperationName: "StagedUploadsCreate",
		Variables: map[string]interface{}{"input": []map[string]interface{}{
			{"filename": "image.jpg", "mimeType": mime, "resource": "IMAGE", "httpMethod": method},
		}},
	})
	require.NoError(t, res.Err())
	var payload struct {
		StagedTargets []struct {
			URL         string                   `mapstructure:"url"`
			ResourceURL string                   `mapstructure:"resourceUrl"`
			Parameters  []map[string]interface{} `mapstructure:"parameters"`
		} `mapstructure:"stagedTargets"`
		UserErrors []admin.UserError `mapstructure:"userErrors"`
	}
	require.NoError(t, res.Decode("stagedUploadsCreate", &payload))
	require.Empty(t, payload.UserErrors)
	require.Len(t, payload.StagedTargets, 1)
	target := payload.StagedTargets[0]
	return target.URL, target.ResourceURL, target.Parameters
}

func put(t *testing.T, url string, params []map[string]interface{}, body []byte) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	require.NoError(t, err)
	for _, p := range params {
		req.Header.Set(p["name"].(string), p["value"].(string))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func productSet(t *testing.T, cfg admin.Config, files []map[string]interface{}) (*admin.Result, []admin.UserError) {
	t.Helper()
	res := admin.Execute(context.Background(), cfg, admin.Request{
		Query:         graphql.ProductSetMutation,
		OperationName: "ProductSet",
		Variables: map[string]interface{}{"input": map[string]interface{}{
			"title": "Elbaite",
			"files": files,
			"variants": []map[string]interface{}{{
				"optionValues": []map[string]interface{}{{"optionName": "Title", "name": "Default Title"}},
				"price":        "1000.00",
			}},
		}},
	})
	require.NoError(t, res.Err())
	var payload struct {
		UserErrors []admin.UserError `mapstructure:"userErrors"`
	}
	require.NoError(t, res.Decode("productSet", &payload))
	return res, payload.UserErrors
}

func TestNewBuildsSchema(t *testing.T) {
	srv, err := New()
	require.NoError(t, err)
	require.NotNil(t, srv)
}

func TestStagedUploadsCreateDefaultsToPut(t *testing.T) {
	srv, cfg := startServer(t)
	res := admin.Execute(context.Background(), cfg, admin.Request{
		Query: graphql.StagedUploadsCreateMutation,
		Variables: map[string]interface{}{"input": []map[string]interface{}{
			{"filename": "a.jpg", "mimeType": "image/jpeg", "resource": "IMAGE"},
		}},
	})
	require.NoError(t, res.Err())
	uploads := srv.Store().StagedUploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "PUT", uploads[0].Method)
}

func TestStagedUploadPutAndProductSet(t *testing.T) {
	srv, cfg := startServer(t)

	url, resourceURL, params := stage(t, cfg, "PUT", "image/jpeg")
	assert.NotEqual(t, url, resourceURL)
	assert.Equal(t, http.StatusForbidden, put(t, url, nil, []byte("jpeg")), "headers must be replayed")
	assert.Equal(t, http.StatusOK, put(t, url, params, []byte("jpeg")))

	resp, err := http.Get(resourceURL)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "jpeg", string(body))

	res, userErrors := productSet(t, cfg, []map[string]interface{}{
		{"contentType": "IMAGE", "originalSource": resourceURL},
		{"contentType": "EXTERNAL_VIDEO", "originalSource": "https://player.vimeo.com/video/1093648744?autoplay=1"},
	})
	require.Empty(t, userErrors)
	var created product.Product
	require.NoError(t, res.Decode("productSet.product", &created))
	assert.Equal(t, "Elbaite", created.Title)
	assert.Equal(t, "elbaite", created.Handle)
	require.Len(t, created.Variants, 1)
	assert.Equal(t, "1000.00", created.Variants[0].Price)

	stored, ok := srv.Store().Product(created.ID)
	require.True(t, ok)
	require.Len(t, stored.Media, 2)
	assert.Equal(t, "IMAGE", stored.Media[0].MediaContentType)
	assert.Equal(t, "https://player.vimeo.com/video/1093648744", stored.Media[1].EmbedURL)
	assert.Equal(t, "VIMEO", stored.Media[1].Host)
}

func TestProductSetRejectsUnuploadedOrUploadURL(t *testing.T) {
	_, cfg := startServer(t)
	url, resourceURL, _ := stage(t, cfg, "PUT", "image/jpeg")

	_, userErrors := productSet(t, cfg, []map[string]interface{}{{"contentType": "IMAGE", "originalSource": resourceURL}})
	require.Len(t, userErrors, 1)
	assert.Contains(t, userErrors[0].Message, "was not uploaded")

	_, userErrors = productSet(t, cfg, []map[string]interface{}{{"contentType": "IMAGE", "originalSource": url}})
	require.Len(t, userErrors, 1)
	assert.Contains(t, userErrors[0].Message, "resourceUrl")
}

func TestStagedUploadsCreateUserErrors(t *testing.T) {
	srv, cfg := startServer(t)
	res := admin.Execute(context.Background(), cfg, admin.Request{
		Query: graphql.StagedUploadsCreateMutation,
		Variables: map[string]interface{}{"input": []map[string]interface{}{
			{"filename": "notes.txt", "mimeType": "text/plain", "resource": "IMAGE"},
		}},
	})
	require.NoError(t, res.Err())
	var payload struct {
		StagedTargets []interface{}     `mapstructure:"stagedTargets"`
		UserErrors    []admin.UserError `mapstructure:"userErrors"`
	}
	require.NoError(t, res.Decode("stagedUploadsCreate", &payload))
	assert.Empty(t, payload.StagedTargets)
	require.Len(t, payload.UserErrors, 1)
	assert.Equal(t, []string{"input", "0", "mimeType"}, payload.UserErrors[0].Field)
	assert.Empty(t, srv.Store().StagedUploads())
}

func TestPublishAndCreateMedia(t *testing.T) {
	srv, cfg := startServer(t)
	p := srv.Store().AddProduct(product.Product{Title: "Quartz"})

	publish := func(pubs ...string) (*admin.Result, []admin.UserError) {
		input := make([]map[string]interface{}, 0, len(pubs))
		for _, id := range pubs {
			input = append(input, map[string]interface{}{"publicationId": id, "publishDate": "2025-08-29T00:00:00Z"})
		}
		res := admin.Execute(context.Background(), cfg, admin.Request{
			Query:     graphql.PublishablePublishMutation,
			Variables: map[string]interface{}{"id": p.ID, "input": input},
		})
		require.NoError(t, res.Err())
		var payload struct {
			UserErrors []admin.UserError `mapstructure:"userErrors"`
		}
		require.NoError(t, res.Decode("publishablePublish", &payload))
		return res, payload.UserErrors
	}

	_, userErrors := publish("gid://shopify/Publication/1")
	require.Len(t, userErrors, 1)
	assert.Empty(t, srv.Store().ProductPublications(p.ID))

	res, userErrors := publish(
		"gid://shopify/Publication/154328137891",
		"gid://shopify/Publication/154328203427",
		"gid://shopify/Publication/154328268963",
	)
	require.Empty(t, userErrors)
	assert.Equal(t, int64(3), res.Field("publishablePublish.publishable.availablePublicationsCount.count").Int())

	res = admin.Execute(context.Background(), cfg, admin.Request{
		Query: graphql.ProductCreateMediaMutation,
		Variables: map[string]interface{}{
			"productId": p.ID,
			"media": []map[string]interface{}{{
				"originalSource": "https://vimeo.com/1099782710", "alt": "Demo", "mediaContentType": "EXTERNAL_VIDEO",
			}},
		},
	})
	require.NoError(t, res.Err())
	var payload struct {
		Media           []product.Media   `mapstructure:"media"`
		MediaUserErrors []admin.UserError `mapstructure:"mediaUserErrors"`
	}
	require.NoError(t, res.Decode("productCreateMedia", &payload))
	require.Empty(t, payload.MediaUserErrors)
	require.Len(t, payload.Media, 1)
	assert.Equal(t, "https://player.vimeo.com/video/1099782710", payload.Media[0].EmbedURL)
	assert.Equal(t, "EXTERNAL_VIDEO", payload.Media[0].MediaContentType)
}

func TestShopPublicationsAndLocations(t *testing.T) {
	_, cfg := startServer(t)

	res := admin.Execute(context.Background(), cfg, admin.Request{Query: graphql.ShopQuery})
	var shop product.Shop
	require.NoError(t, res.Decode("shop", &shop))
	assert.Equal(t, "mock-store.myshopify.com", shop.MyshopifyDomain)

	res = admin.Execute(context.Background(), cfg, admin.Request{Query: graphql.PublicationsQuery, Variables: map[string]interface{}{"first": 10}})
	var pubs []product.Publication
	require.NoError(t, res.Decode("publications", &pubs))
	assert.Len(t, pubs, 3)

	res = admin.Execute(context.Background(), cfg, admin.Request{Query: graphql.LocationsQuery, Variables: map[string]interface{}{"first": 10}})
	var locs []product.Location
	require.NoError(t, res.Decode("locations", &locs))
	require.Len(t, locs, 1)
	assert.Equal(t, "gid://shopify/Location/74448765091", locs[0].ID)
}

func TestPaginateCursors(t *testing.T) {
	first := int32(2)
	conn, err := paginate([]string{"a", "b", "c"}, &first, nil)
	require.NoError(t, err)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.Equal(t, []string{"a", "b"}, conn.Nodes)

	conn, err = paginate([]string{"a", "b", "c"}, &first, conn.PageInfo.EndCursor)
	require.NoError(t, err)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.Equal(t, []string{"c"}, conn.Nodes)

	bad := "not-a-cursor"
	_, err = paginate([]string{"a"}, &first, &bad)
	assert.Error(t, err)

	empty, err := paginate([]string{}, &first, nil)
	require.NoError(t, err)
	assert.Nil(t, empty.PageInfo.EndCursor)
	assert.False(t, empty.PageInfo.HasNextPage)
}

func TestHandleize(t *testing.T) {
	assert.Equal(t, "elbaite-with-cleavelandite-and-lepidolite", handleize("ELBAITE with Cleavelandite and Lepidolite"))
	assert.Equal(t, "a-b", handleize("  a -- b!! "))
}
