package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client calls the delivery-volume service that backs the outstation
// minimum-activity check. The service is outside our control: calls carry a
// short timeout and every failure is surfaced to the caller.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError represents a delivery service error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("delivery API error [%d]: %s", e.StatusCode, e.Message)
}

type countResponse struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Completed  int    `json:"completed"`
}

// DeliveryCount returns the completed-delivery count for an employee on a
// date.
func (c *Client) DeliveryCount(ctx context.Context, employeeID string, date time.Time) (int, error) {
	endpoint := fmt.Sprintf("%s/v1/deliveries/count?employee_id=%s&date=%s",
		c.baseURL, url.QueryEscape(employeeID), date.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build delivery count request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("delivery count request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var body countResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode delivery count response: %w", err)
	}

	return body.Completed, nil
}
