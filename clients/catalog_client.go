package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pos-terminal/models"
)

// APIError is a non-2xx reply from the Catalog & Order Service. Message holds
// the service's own explanation when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListItems calls GET /items
func (c *CatalogClient) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.getEnvelope(ctx, "/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListCustomers calls GET /customers
func (c *CatalogClient) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.getEnvelope(ctx, "/customers", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// PlaceOrder calls POST /orders. Any 2xx reply counts as acceptance; the body
// is not interpreted.
func (c *CatalogClient) PlaceOrder(ctx context.Context, order models.OrderRequest) error {
	jsonData, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call order service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return nil
}

func (c *CatalogClient) getEnvelope(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call catalog service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var envelope models.RawAPIResponse
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
		return nil
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
}

// errorMessage picks the most specific explanation out of an error body:
// a string in "data", else "message", else nothing.
func errorMessage(body []byte) string {
	var envelope models.RawAPIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	var detail string
	if err := json.Unmarshal(envelope.Data, &detail); err == nil && strings.TrimSpace(detail) != "" {
		return detail
	}
	return strings.TrimSpace(envelope.Message)
}
