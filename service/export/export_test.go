package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"shopify.GO/config"
	productEntity "shopify.GO/model/entity/product"
)

func sampleBatch() *Batch {
	return &Batch{
		Store:    "mock-store",
		Pages:    1,
		Stop:     "exhausted",
		Complete: true,
		Products: []productEntity.Product{
			{
				ID: "gid://shopify/Product/1", Title: "Quartz", Handle: "quartz", Status: "ACTIVE", Tags: []string{"clear"},
				Variants:   []productEntity.Variant{{SKU: "Q-1", Price: "12.00"}},
				Metafields: []productEntity.Metafield{{Namespace: "custom", Key: "locality_country", Value: "Brazil"}},
			},
			{ID: "gid://shopify/Product/2", Title: "Beryl", Handle: "beryl", Status: "DRAFT", Tags: []string{}},
		},
		StartedAt:  time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC),
		ExportedAt: time.Date(2025, 8, 29, 0, 1, 0, 0, time.UTC),
	}
}

type failingSink struct{ closed bool }

func (f *failingSink) Name() string { return "failing" }
func (f *failingSink) Write(context.Context, *Batch) (int, error) {
	return 0, errors.New("disk full")
}
func (f *failingSink) Close() error { f.closed = true; return nil }

func TestRunContinuesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	bad := &failingSink{}
	reports := Run(context.Background(), nil, sampleBatch(), bad, NewJSONSink(&buf))

	require.Len(t, reports, 2)
	assert.EqualError(t, reports[0].Err, "disk full")
	assert.NoError(t, reports[1].Err)
	assert.Equal(t, 2, reports[1].Written)
	assert.EqualError(t, FirstError(reports), "disk full")

	require.NoError(t, CloseAll(bad))
	assert.True(t, bad.closed)
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewJSONSink(&buf).Write(context.Background(), sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	doc := gjson.ParseBytes(buf.Bytes())
	assert.Equal(t, "mock-store", doc.Get("store").String())
	assert.Equal(t, int64(2), doc.Get("count").Int())
	assert.True(t, doc.Get("complete").Bool())
	assert.Equal(t, "Beryl", doc.Get("products.1.title").String())
	assert.Equal(t, "Q-1", doc.Get("products.0.variants.0.sku").String())
}

func TestJSONFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	sink, err := NewJSONFileSink(path)
	require.NoError(t, err)
	_, err = sink.Write(context.Background(), sampleBatch())
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc jsonDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Products, 2)
}

func TestSQLSink(t *testing.T) {
	db, err := config.NewDB(filepath.Join(t.TempDir(), "export.db"), "off", nil)
	require.NoError(t, err)
	sink, err := NewSQLSink(db, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })

	n, err := sink.Write(context.Background(), sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := sink.Repository().ListByStore("mock-store")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Beryl", rows[0].Title)

	// A partial listing keeps rows it did not see.
	partial := sampleBatch()
	partial.Products = partial.Products[:1]
	partial.Complete = false
	partial.Stop = "error"
	_, err = sink.Write(context.Background(), partial)
	require.NoError(t, err)
	count, err := sink.Repository().CountByStore("mock-store")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A complete one drops them.
	complete := sampleBatch()
	complete.Products = complete.Products[:1]
	_, err = sink.Write(context.Background(), complete)
	require.NoError(t, err)
	count, err = sink.Repository().CountByStore("mock-store")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	run, err := sink.Repository().LastRun("mock-store")
	require.NoError(t, err)
	assert.True(t, run.Complete)
	assert.Equal(t, "exhausted", run.Stop)
}

func TestNewSearchDocument(t *testing.T) {
	doc := NewSearchDocument("mock-store", sampleBatch().Products[0])
	assert.Equal(t, "1", doc.LegacyID)
	assert.Equal(t, []string{"Q-1"}, doc.SKUs)
	assert.Equal(t, "12.00", doc.Price)
	assert.Equal(t, "Brazil", doc.Metafields["custom.locality_country"])
	assert.Equal(t, "shop_catalog_product_mock-store", IndexName("shop", "Mock-Store"))
}

// fakeElasticsearch records bulk bodies and answers searches from them.
type fakeElasticsearch struct {
	mu   sync.Mutex
	docs []json.RawMessage
	path []string
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.path = append(f.path, r.URL.Path)
	body, _ := io.ReadAll(r.Body)

	switch {
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		items := make([]string, 0, len(lines)/2)
		for i := 1; i < len(lines); i += 2 {
			f.docs = append(f.docs, json.RawMessage(lines[i]))
			items = append(items, `{"index":{"status":201}}`)
		}
		_, _ = w.Write([]byte(`{"errors":false,"items":[` + strings.Join(items, ",") + `]}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		query := gjson.GetBytes(body, "query.multi_match.query").String()
		hits := make([]string, 0)
		for _, d := range f.docs {
			if strings.Contains(strings.ToLower(gjson.GetBytes(d, "title").String()), strings.ToLower(query)) {
				hits = append(hits, `{"_source":`+string(d)+`}`)
			}
		}
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":` + strconv.Itoa(len(hits)) + `},"hits":[` + strings.Join(hits, ",") + `]}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}
}

func TestSearchSinkAndSearch(t *testing.T) {
	fake := &fakeElasticsearch{}
	ts := httptest.NewServer(fake)
	defer ts.Close()
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{ts.URL}})
	require.NoError(t, err)

	n, err := NewSearchSink(client, "shop").Write(context.Background(), sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "/shop_catalog_product_mock-store/_bulk", fake.path[0])

	res, err := Search(context.Background(), client, "shop", "mock-store", "quartz", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "gid://shopify/Product/1", res.Documents[0].ID)

	_, err = Search(context.Background(), nil, "shop", "mock-store", "quartz", 5)
	assert.Error(t, err)
}

func TestRedisKeys(t *testing.T) {
	s := NewRedisSink(nil, "", 0)
	assert.Equal(t, "shopify:mock-store:product:1", s.ProductKey("mock-store", "1"))
	assert.Equal(t, "shopify:mock-store:products", s.IndexKey("mock-store"))
	_, err := s.Write(context.Background(), sampleBatch())
	assert.Error(t, err)
}

// recordingHook answers SMEMBERS from a fixed set and records pipelined
// commands without touching the network.
type recordingHook struct {
	members   []string
	pipelined [][]interface{}
}

func (h *recordingHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *recordingHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		if c, ok := cmd.(*redis.StringSliceCmd); ok && cmd.Name() == "smembers" {
			c.SetVal(append([]string(nil), h.members...))
		}
		return nil
	}
}

func (h *recordingHook) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.pipelined = append(h.pipelined, cmd.Args())
		}
		return nil
	}
}

func (h *recordingHook) deleted() []string {
	var keys []string
	for _, args := range h.pipelined {
		if len(args) == 2 && args[0] == "del" {
			keys = append(keys, args[1].(string))
		}
	}
	return keys
}

func TestStaleIDs(t *testing.T) {
	current := map[string][]byte{"1": nil, "3": nil}
	assert.Equal(t, []string{"2", "4"}, staleIDs([]string{"4", "1", "2"}, current))
	assert.Empty(t, staleIDs(nil, current))
	assert.Empty(t, staleIDs([]string{"1", "3"}, current))
}

func TestRedisCompleteBatchDropsStaleProducts(t *testing.T) {
	hook := &recordingHook{members: []string{"1", "2", "9"}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(hook)
	sink := NewRedisSink(client, "", time.Minute)
	t.Cleanup(func() { _ = sink.Close() })

	n, err := sink.Write(context.Background(), sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"shopify:mock-store:product:9",
		"shopify:mock-store:products",
	}, hook.deleted())

	hook.pipelined = nil
	partial := sampleBatch()
	partial.Complete = false
	_, err = sink.Write(context.Background(), partial)
	require.NoError(t, err)
	assert.Empty(t, hook.deleted(), "partial batches keep existing keys")
}

func TestRedisSinkIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := config.NewRedis(addr, os.Getenv("REDIS_PASS"), 0)
	prefix := "shopify_test_" + time.Now().Format("150405.000")
	sink := NewRedisSink(client, prefix, time.Minute)
	t.Cleanup(func() { _ = sink.Close() })

	n, err := sink.Write(context.Background(), sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ctx := context.Background()
	members, err := client.SMembers(ctx, sink.IndexKey("mock-store")).Result()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, members)

	raw, err := client.Get(ctx, sink.ProductKey("mock-store", "1")).Bytes()
	require.NoError(t, err)
	assert.Equal(t, "Quartz", gjson.GetBytes(raw, "title").String())

	_, err = client.Get(ctx, sink.ProductKey("mock-store", "3")).Result()
	assert.ErrorIs(t, err, redis.Nil)

	shrunk := sampleBatch()
	shrunk.Products = shrunk.Products[:1]
	_, err = sink.Write(ctx, shrunk)
	require.NoError(t, err)
	_, err = client.Get(ctx, sink.ProductKey("mock-store", "2")).Result()
	assert.ErrorIs(t, err, redis.Nil)
	members, err = client.SMembers(ctx, sink.IndexKey("mock-store")).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, members)
}
