package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mstgnz/paybridge/infra/config"
	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Activity kinds, one index each
const (
	KindCheckout = "checkout"
	KindWebhook  = "webhook"
	KindNotify   = "notify"
)

var activityKinds = []string{KindCheckout, KindWebhook, KindNotify}

// Client wraps the OpenSearch client
type Client struct {
	client *opensearch.Client
	config config.OpenSearchConfig
}

// NewClient creates a new OpenSearch client and makes sure the activity indices exist
func NewClient(ctx context.Context, cfg config.OpenSearchConfig) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses: []string{cfg.URL},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // self-signed development clusters
			},
		},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.Username != "" && cfg.Password != "" {
		opensearchConfig.Username = cfg.Username
		opensearchConfig.Password = cfg.Password
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, err
	}

	osClient := &Client{
		client: client,
		config: cfg,
	}

	if cfg.Enabled {
		if err := osClient.setupIndices(ctx); err != nil {
			logger.Warn("failed to set up OpenSearch indices", logger.LogContext{
				Fields: map[string]any{"error": err.Error()},
			})
		}
	}

	return osClient, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// IsEnabled returns whether OpenSearch logging is enabled
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// GetLogIndexName returns the index name for one activity kind
func (c *Client) GetLogIndexName(kind string) string {
	return "paybridge-" + kind + "-logs"
}

func (c *Client) setupIndices(ctx context.Context) error {
	var failed []string

	for _, kind := range activityKinds {
		indexName := c.GetLogIndexName(kind)

		exists, err := c.indexExists(ctx, indexName)
		if err != nil {
			failed = append(failed, indexName)
			continue
		}

		if !exists {
			if err := c.createLogIndex(ctx, indexName); err != nil {
				failed = append(failed, indexName)
				continue
			}
			logger.Info("created OpenSearch index", logger.LogContext{
				Fields: map[string]any{"index": indexName},
			})
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("indices not ready: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (c *Client) indexExists(ctx context.Context, indexName string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK, nil
}

const activityMapping = `{
	"mappings": {
		"properties": {
			"timestamp": {"type": "date", "format": "strict_date_optional_time||epoch_millis"},
			"kind": {"type": "keyword"},
			"provider": {"type": "keyword"},
			"method": {"type": "keyword"},
			"endpoint": {"type": "keyword"},
			"request_id": {"type": "keyword"},
			"user_agent": {"type": "text"},
			"client_ip": {"type": "ip"},
			"status_code": {"type": "integer"},
			"processing_time_ms": {"type": "integer"},
			"outcome": {"type": "keyword"},
			"request_body": {"type": "text"},
			"error": {"type": "text"}
		}
	},
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	}
}`

func (c *Client) createLogIndex(ctx context.Context, indexName string) error {
	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(activityMapping),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index creation error: %s", res.String())
	}

	return nil
}
