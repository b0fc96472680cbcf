package elastic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// maxErrorBody caps how much of an error response is copied into errors.
const maxErrorBody = 512

// Client talks to the three store endpoints the indexer uses:
//
//	GET {base}/{index}             existence probe
//	PUT {base}/{index}             index creation with mapping
//	PUT {base}/{index}/_doc/{id}   document write
type Client struct {
	es      *elasticsearch.Client
	baseURL string
}

// NewClient returns a client for baseURL. A nil httpClient keeps the
// transport defaults. Retries are off: a failed call is reported once.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	cfg := elasticsearch.Config{
		Addresses:    []string{baseURL},
		DisableRetry: true,
	}
	if httpClient != nil && httpClient.Transport != nil {
		cfg.Transport = httpClient.Transport
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Client{es: es, baseURL: baseURL}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) IndexURL(index string) string {
	return c.baseURL + "/" + index
}

func (c *Client) DocumentURL(index, id string) string {
	return c.IndexURL(index) + "/_doc/" + id
}

// IndexExists returns nil when the probe gets a 2xx answer and an error for
// anything else, including 404.
func (c *Client) IndexExists(ctx context.Context, index string) error {
	req := esapi.IndicesGetRequest{Index: []string{index}}
	return c.do(ctx, req, http.MethodGet, c.IndexURL(index))
}

func (c *Client) CreateIndex(ctx context.Context, index string, body []byte) error {
	req := esapi.IndicesCreateRequest{Index: index, Body: bytes.NewReader(body)}
	return c.do(ctx, req, http.MethodPut, c.IndexURL(index))
}

// PutDocument writes body under id. Setting DocumentID makes the request a
// PUT to _doc/{id}.
func (c *Client) PutDocument(ctx context.Context, index, id string, body []byte) error {
	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: bytes.NewReader(body)}
	return c.do(ctx, req, http.MethodPut, c.DocumentURL(index, id))
}

// method and target only label errors; esapi builds the request itself.
func (c *Client) do(ctx context.Context, req esapi.Request, method, target string) error {
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &StatusError{Method: method, URL: target, Code: res.StatusCode, Body: string(snippet)}
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Code)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Code, e.Body)
}
