package config

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewSearchClient returns nil when no host is configured.
func NewSearchClient(host string) (*elasticsearch.Client, error) {
	if host == "" {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{host},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}
