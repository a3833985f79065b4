package address

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fjod/go_ordering/internal/domain"
)

// HTTPClient queries an external suggestion provider over a simple
// query-string GET API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (c *HTTPClient) Lookup(ctx context.Context, postcode string) ([]Suggestion, error) {
	lookupURL := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape(postcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, domain.Categorize(domain.KindValidation, fmt.Errorf("build suggestion request failed: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.Categorize(domain.KindNetwork, fmt.Errorf("failed to reach address provider: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Categorize(domain.KindNetwork, fmt.Errorf("read address response failed: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		kind := domain.KindProcessing
		if resp.StatusCode >= 500 {
			kind = domain.KindServer
		}
		return nil, domain.Categorize(kind, fmt.Errorf("address provider error (%d): %s", resp.StatusCode, string(body)))
	}

	var result struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, domain.Categorize(domain.KindProcessing, fmt.Errorf("parse address response failed: %w", err))
	}
	return result.Suggestions, nil
}
