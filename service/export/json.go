package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	productEntity "shopify.GO/model/entity/product"
)

// JSONSink dumps the batch as one indented JSON document.
type JSONSink struct {
	w      io.Writer
	closer io.Closer
}

type jsonDocument struct {
	Store      string                  `json:"store"`
	ExportedAt time.Time               `json:"exportedAt"`
	Complete   bool                    `json:"complete"`
	Stop       string                  `json:"stop"`
	Count      int                     `json:"count"`
	Products   []productEntity.Product `json:"products"`
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

// NewJSONFileSink writes to path, truncating it.
func NewJSONFileSink(path string) (*JSONSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &JSONSink{w: f, closer: f}, nil
}

func (s *JSONSink) Name() string { return "json" }

func (s *JSONSink) Write(ctx context.Context, batch *Batch) (int, error) {
	doc := jsonDocument{
		Store:      batch.Store,
		ExportedAt: batch.ExportedAt,
		Complete:   batch.Complete,
		Stop:       batch.Stop,
		Count:      len(batch.Products),
		Products:   batch.Products,
	}
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("encode json export: %w", err)
	}
	return len(batch.Products), nil
}

func (s *JSONSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
