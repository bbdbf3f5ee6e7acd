package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second

	maxErrorBody = 512
)

// ErrOrderNotFound is returned when the order service does not know the order.
var ErrOrderNotFound = errors.New("orders: order not found")

// RemoteError wraps an order-service API failure.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("order service: %s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("order service: %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// HTTPClient implements Client against the order service's REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the HTTP client, including its timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates an order-service client for the given base URL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// orderEnvelope matches the order service's {message, data} responses.
type orderEnvelope struct {
	Message string `json:"message"`
	Data    *Order `json:"data"`
}

// CreateOrder submits the draft to the order service.
func (c *HTTPClient) CreateOrder(ctx context.Context, draft OrderDraft) (*Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/order", "create_order", draft, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &RemoteError{Op: "create_order", Err: errors.New("empty order in response")}
	}
	return env.Data, nil
}

// GetOrder fetches an order by id within a store.
func (c *HTTPClient) GetOrder(ctx context.Context, storeID, orderID int64) (*Order, error) {
	path := fmt.Sprintf("/store/%d/order/%d", storeID, orderID)

	var env orderEnvelope
	err := c.do(ctx, http.MethodGet, path, "get_order", nil, &env)
	if err != nil {
		var rerr *RemoteError
		if errors.As(err, &rerr) && rerr.StatusCode == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if env.Data == nil {
		return nil, ErrOrderNotFound
	}
	return env.Data, nil
}

// VoidOrder cancels an order. Used to compensate when the charge for a
// freshly created order cannot be opened.
func (c *HTTPClient) VoidOrder(ctx context.Context, storeID, orderID int64) error {
	path := fmt.Sprintf("/store/%d/order/%d", storeID, orderID)

	err := c.do(ctx, http.MethodDelete, path, "void_order", nil, nil)
	if err != nil {
		var rerr *RemoteError
		if errors.As(err, &rerr) && rerr.StatusCode == http.StatusNotFound {
			// already gone, compensation goal reached
			return nil
		}
		return err
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, op string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("orders: encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("orders: build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
