package payment

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
	// DefaultBaseURL is the processor's production API endpoint.
	DefaultBaseURL = "https://api.tap.company/v2"

	// defaultTimeout bounds every processor call. A hung processor must
	// not hang our request handlers.
	defaultTimeout = 15 * time.Second

	// sourceAllPaymentMethods tells the processor to offer every enabled
	// payment method on the hosted page.
	sourceAllPaymentMethods = "src_all"

	// defaultCountryCode is prepended to customer phone numbers.
	defaultCountryCode = "20"

	// maxErrorBody caps how much of an error response we keep for logs.
	maxErrorBody = 512
)

// TapClient implements Gateway using the Tap Payments REST API.
type TapClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// TapOption configures a TapClient.
type TapOption func(*TapClient)

// WithBaseURL overrides the API endpoint. Used for sandbox and tests.
func WithBaseURL(url string) TapOption {
	return func(c *TapClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client, including its timeout.
func WithHTTPClient(client *http.Client) TapOption {
	return func(c *TapClient) {
		c.client = client
	}
}

// NewTapClient creates a Tap gateway client authenticated with the
// given secret key (sk_...).
func NewTapClient(secretKey string, opts ...TapOption) *TapClient {
	c := &TapClient{
		baseURL:   DefaultBaseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tapChargeRequest is the wire shape of POST /charges.
type tapChargeRequest struct {
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Customer    tapCustomer       `json:"customer"`
	Source      tapSource         `json:"source"`
	Redirect    *tapURL           `json:"redirect,omitempty"`
	Post        *tapURL           `json:"post,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type tapCustomer struct {
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	Phone     *tapPhone `json:"phone,omitempty"`
}

type tapPhone struct {
	CountryCode string `json:"country_code"`
	Number      string `json:"number"`
}

type tapSource struct {
	ID string `json:"id"`
}

type tapURL struct {
	URL string `json:"url"`
}

// tapChargeResponse is the wire shape of a charge object.
type tapChargeResponse struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Transaction *tapTransaction   `json:"transaction,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type tapTransaction struct {
	URL string `json:"url"`
}

// CreateCharge opens a charge with Tap and returns the hosted payment URL.
func (c *TapClient) CreateCharge(ctx context.Context, params CreateChargeParams) (*Charge, error) {
	req := tapChargeRequest{
		Amount:      params.Amount,
		Currency:    params.Currency,
		Description: params.Description,
		Customer: tapCustomer{
			FirstName: params.CustomerName,
			Email:     params.CustomerEmail,
		},
		Source:   tapSource{ID: sourceAllPaymentMethods},
		Metadata: params.Metadata,
	}
	if params.CustomerPhone != "" {
		req.Customer.Phone = &tapPhone{
			CountryCode: defaultCountryCode,
			Number:      params.CustomerPhone,
		}
	}
	if params.RedirectURL != "" {
		req.Redirect = &tapURL{URL: params.RedirectURL}
	}
	if params.PostURL != "" {
		req.Post = &tapURL{URL: params.PostURL}
	}

	var resp tapChargeResponse
	if err := c.do(ctx, http.MethodPost, "/charges", "create_charge", &req, &resp); err != nil {
		return nil, err
	}

	return chargeFromResponse(&resp), nil
}

// RetrieveCharge fetches a charge by its processor reference.
func (c *TapClient) RetrieveCharge(ctx context.Context, chargeID string) (*Charge, error) {
	var resp tapChargeResponse
	err := c.do(ctx, http.MethodGet, "/charges/"+chargeID, "retrieve_charge", nil, &resp)
	if err != nil {
		var gerr *GatewayError
		if errors.As(err, &gerr) && gerr.StatusCode == http.StatusNotFound {
			return nil, ErrChargeNotFound
		}
		return nil, err
	}

	return chargeFromResponse(&resp), nil
}

// do runs one processor call and decodes the response into out.
func (c *TapClient) do(ctx context.Context, method, path, op string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("payment: encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("payment: build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrInvalidAPIKey
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func chargeFromResponse(resp *tapChargeResponse) *Charge {
	ch := &Charge{
		ID:        resp.ID,
		Status:    mapStatus(resp.Status),
		RawStatus: resp.Status,
		Amount:    resp.Amount,
		Currency:  resp.Currency,
		Metadata:  resp.Metadata,
	}
	if resp.Transaction != nil {
		ch.PaymentURL = resp.Transaction.URL
	}
	return ch
}
