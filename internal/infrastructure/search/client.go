package search

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewClient creates an Elasticsearch client with optional basic auth.
func NewClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
}

const userMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "username":   {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "name":       {"type": "text"},
      "bio":        {"type": "text"},
      "location":   {"type": "text"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

// EnsureIndex creates the user index with its mapping when it is missing.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Indices.Exists([]string{x.Index}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.ES.Indices.Create(x.Index,
		x.ES.Indices.Create.WithContext(c),
		x.ES.Indices.Create.WithBody(strings.NewReader(userMapping)))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}
