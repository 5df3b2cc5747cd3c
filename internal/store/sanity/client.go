package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/internal/runtimeconfig"
	"github.com/goliatone/go-locale-sync/internal/store"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// ErrProjectRequired is returned when the client has no project to address.
var ErrProjectRequired = errors.New("sanity: project id is required")

// Client talks to the hosted document store over its HTTP query and mutate
// endpoints. It implements interfaces.DocumentStore.
type Client struct {
	http       *http.Client
	baseURL    string
	dataset    string
	token      string
	apiVersion string
	logger     interfaces.Logger
}

var _ interfaces.DocumentStore = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.http = c
		}
	}
}

// WithLogger attaches a logger used for request tracing.
func WithLogger(logger interfaces.Logger) Option {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// New builds a client from the store configuration.
func New(cfg runtimeconfig.StoreConfig, opts ...Option) (*Client, error) {
	project := strings.TrimSpace(cfg.ProjectID)
	if project == "" && strings.TrimSpace(cfg.APIHost) == "" {
		return nil, ErrProjectRequired
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.APIHost), "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.api.sanity.io", project)
	}
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = runtimeconfig.DefaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		http:       &http.Client{Timeout: timeout},
		baseURL:    base,
		dataset:    strings.TrimSpace(cfg.Dataset),
		token:      strings.TrimSpace(cfg.Token),
		apiVersion: strings.TrimPrefix(version, "v"),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Ms     int             `json:"ms"`
}

type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string                 `json:"id"`
		Operation string                 `json:"operation"`
		Document  interfaces.RawDocument `json:"document"`
	} `json:"results"`
}

type errorResponse struct {
	Error struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		Items       []struct {
			Error struct {
				Type        string `json:"type"`
				Description string `json:"description"`
				ID          string `json:"id"`
			} `json:"error"`
		} `json:"items"`
	} `json:"error"`
	Message string `json:"message"`
}

// Fetch runs a raw query expression with parameters and decodes the result into out.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("sanity: encode param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}
	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", c.baseURL, c.apiVersion, url.PathEscape(c.dataset), values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	var resp queryResponse
	if err := c.do(req, "query", "", &resp); err != nil {
		return err
	}
	c.logger.Debug("sanity.query", "query", query, "ms", resp.Ms)
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}

// Query implements interfaces.DocumentStore.
func (c *Client) Query(ctx context.Context, filter interfaces.DocumentFilter) ([]interfaces.RawDocument, error) {
	query, params := BuildQuery(filter)
	var docs []interfaces.RawDocument
	if err := c.Fetch(ctx, query, params, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Patch implements interfaces.DocumentStore.
func (c *Client) Patch(ctx context.Context, id string, set map[string]any) error {
	_, err := c.mutate(ctx, "patch", id, map[string]any{
		"patch": map[string]any{"id": id, "set": set},
	})
	return err
}

// Create implements interfaces.DocumentStore.
func (c *Client) Create(ctx context.Context, doc interfaces.RawDocument) (interfaces.RawDocument, error) {
	id, _ := doc["_id"].(string)
	return c.mutate(ctx, "create", id, map[string]any{"create": doc})
}

// CreateOrReplace implements interfaces.DocumentStore.
func (c *Client) CreateOrReplace(ctx context.Context, doc interfaces.RawDocument) (interfaces.RawDocument, error) {
	id, _ := doc["_id"].(string)
	return c.mutate(ctx, "createOrReplace", id, map[string]any{"createOrReplace": doc})
}

func (c *Client) mutate(ctx context.Context, op, id string, mutation map[string]any) (interfaces.RawDocument, error) {
	body, err := json.Marshal(map[string]any{"mutations": []any{mutation}})
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/v%s/data/mutate/%s?returnDocuments=true&visibility=sync", c.baseURL, c.apiVersion, url.PathEscape(c.dataset))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp mutateResponse
	if err := c.do(req, op, id, &resp); err != nil {
		return nil, err
	}
	c.logger.Debug("sanity.mutate", "operation", op, "doc_id", id, "transaction_id", resp.TransactionID)
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return resp.Results[0].Document, nil
}

func (c *Client) do(req *http.Request, op, id string, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sanity: %s %s: %w", op, id, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("sanity: read %s response: %w", op, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return decodeError(op, id, res.StatusCode, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, out)
}

func decodeError(op, id string, status int, payload []byte) error {
	reqErr := &store.RequestError{Op: op, ID: id, StatusCode: status}
	var body errorResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		reqErr.Message = strings.TrimSpace(string(payload))
		return reqErr
	}
	reqErr.Kind = body.Error.Type
	reqErr.Message = body.Error.Description
	for _, item := range body.Error.Items {
		if item.Error.Type != "" {
			reqErr.Kind = item.Error.Type
			reqErr.Message = item.Error.Description
			break
		}
	}
	if reqErr.Message == "" {
		reqErr.Message = body.Message
	}
	return reqErr
}
