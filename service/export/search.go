package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/tidwall/gjson"

	productEntity "shopify.GO/model/entity/product"
)

// SearchDocument is the indexed form of a product.
type SearchDocument struct {
	ID             string            `json:"id"`
	LegacyID       string            `json:"legacy_id"`
	Store          string            `json:"store"`
	Title          string            `json:"title"`
	Handle         string            `json:"handle"`
	Status         string            `json:"status"`
	Description    string            `json:"description"`
	Vendor         string            `json:"vendor,omitempty"`
	ProductType    string            `json:"product_type,omitempty"`
	Tags           []string          `json:"tags"`
	SKUs           []string          `json:"skus"`
	Price          string            `json:"price,omitempty"`
	TotalInventory int               `json:"total_inventory"`
	Metafields     map[string]string `json:"metafields"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewSearchDocument(store string, p productEntity.Product) SearchDocument {
	doc := SearchDocument{
		ID:             p.ID,
		LegacyID:       p.LegacyID(),
		Store:          store,
		Title:          p.Title,
		Handle:         p.Handle,
		Status:         p.Status,
		Description:    p.Description,
		Vendor:         p.Vendor,
		ProductType:    p.ProductType,
		Tags:           p.Tags,
		SKUs:           make([]string, 0, len(p.Variants)),
		TotalInventory: p.TotalInventory(),
		Metafields:     make(map[string]string, len(p.Metafields)),
		UpdatedAt:      p.UpdatedAt,
	}
	for _, v := range p.Variants {
		if v.SKU != "" {
			doc.SKUs = append(doc.SKUs, v.SKU)
		}
	}
	if len(p.Variants) > 0 {
		doc.Price = p.Variants[0].Price
	}
	for _, m := range p.Metafields {
		doc.Metafields[m.Namespace+"."+m.Key] = m.Value
	}
	return doc
}

// IndexName is <prefix>_catalog_product_<store>.
func IndexName(prefix, store string) string {
	if prefix == "" {
		prefix = "shopify"
	}
	return fmt.Sprintf("%s_catalog_product_%s", prefix, strings.ToLower(store))
}

// SearchSink bulk-indexes one document per product.
type SearchSink struct {
	client *elasticsearch.Client
	prefix string
}

func NewSearchSink(client *elasticsearch.Client, prefix string) *SearchSink {
	return &SearchSink{client: client, prefix: prefix}
}

func (s *SearchSink) Name() string { return "search" }

func (s *SearchSink) Write(ctx context.Context, batch *Batch) (int, error) {
	if s.client == nil {
		return 0, fmt.Errorf("elasticsearch not configured")
	}
	if len(batch.Products) == 0 {
		return 0, nil
	}
	index := IndexName(s.prefix, batch.Store)

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, p := range batch.Products {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": index, "_id": p.LegacyID()}}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(NewSearchDocument(batch.Store, p)); err != nil {
			return 0, err
		}
	}

	res, err := s.client.Bulk(
		bytes.NewReader(body.Bytes()),
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithIndex(index),
		s.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, err
	}
	if res.IsError() {
		return 0, fmt.Errorf("elasticsearch error: %s", res.Status())
	}

	failed := 0
	var firstReason string
	gjson.GetBytes(raw, "items").ForEach(func(_, item gjson.Result) bool {
		if item.Get("index.error").Exists() {
			failed++
			if firstReason == "" {
				firstReason = item.Get("index.error.reason").String()
			}
		}
		return true
	})
	written := len(batch.Products) - failed
	if failed > 0 {
		return written, fmt.Errorf("elasticsearch rejected %d documents: %s", failed, firstReason)
	}
	return written, nil
}

func (s *SearchSink) Close() error { return nil }

// SearchResult is one page of matching documents.
type SearchResult struct {
	Total     int
	Documents []SearchDocument
}

// Search runs a multi_match query over an exported store's index.
func Search(ctx context.Context, client *elasticsearch.Client, prefix, store, query string, size int) (*SearchResult, error) {
	if client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}
	if size <= 0 {
		size = 20
	}
	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "skus^2", "description", "tags", "metafields.*"},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(IndexName(prefix, store)),
		client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source SearchDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}
	out := &SearchResult{Total: esResp.Hits.Total.Value, Documents: make([]SearchDocument, 0, len(esResp.Hits.Hits))}
	for _, hit := range esResp.Hits.Hits {
		out.Documents = append(out.Documents, hit.Source)
	}
	return out, nil
}
