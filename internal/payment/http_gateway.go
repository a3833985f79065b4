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

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/sony/gobreaker/v2"
)

type HTTPGatewayConfig struct {
	BaseURL string
	StoreID string
	AuthKey string
	Timeout time.Duration
}

// HTTPGateway talks to the payment provider over a single JSON endpoint
// with a "method" discriminator. All calls go through a circuit breaker;
// business outcomes (declines, validation rejections) do not trip it.
type HTTPGateway struct {
	cfg     HTTPGatewayConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewHTTPGateway(cfg HTTPGatewayConfig) *HTTPGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			switch domain.KindOf(err) {
			case domain.KindValidation, domain.KindAuthentication, domain.KindDeclined:
				return true
			}
			return false
		},
	}

	return &HTTPGateway{
		cfg:     cfg,
		client:  &http.Client{},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (g *HTTPGateway) CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResult, error) {
	body, err := g.call(ctx, "create", map[string]any{
		"store":          g.cfg.StoreID,
		"authkey":        g.cfg.AuthKey,
		"amount":         req.AmountMinor,
		"currency":       req.Currency,
		"description":    req.Description,
		"customerName":   req.CustomerName,
		"customerEmail":  req.CustomerEmail,
		"idempotencyKey": req.IdempotencyKey,
		"metadata":       req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	result, err := decodeResult(body)
	if err != nil {
		return nil, err
	}
	if result.Status == "" {
		result.Status = domain.IntentStatusCreated
	}
	return result, nil
}

func (g *HTTPGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethodRef string) (*IntentResult, error) {
	body, err := g.call(ctx, "confirm", map[string]any{
		"store":            g.cfg.StoreID,
		"authkey":          g.cfg.AuthKey,
		"intentId":         intentID,
		"paymentMethodRef": paymentMethodRef,
	})
	if err != nil {
		return nil, err
	}

	result, err := decodeResult(body)
	if err != nil {
		return nil, err
	}
	if result.Status == domain.IntentStatusFailed {
		return result, domain.Categorize(domain.KindDeclined, fmt.Errorf("payment declined: %s", result.Message))
	}
	return result, nil
}

func (g *HTTPGateway) CancelIntent(ctx context.Context, intentID string) error {
	_, err := g.call(ctx, "cancel", map[string]any{
		"store":    g.cfg.StoreID,
		"authkey":  g.cfg.AuthKey,
		"intentId": intentID,
	})
	return err
}

func (g *HTTPGateway) RefundIntent(ctx context.Context, intentID string) error {
	_, err := g.call(ctx, "refund", map[string]any{
		"store":    g.cfg.StoreID,
		"authkey":  g.cfg.AuthKey,
		"intentId": intentID,
	})
	return err
}

func (g *HTTPGateway) RetrieveIntent(ctx context.Context, intentID string) (*IntentResult, error) {
	body, err := g.call(ctx, "status", map[string]any{
		"store":    g.cfg.StoreID,
		"authkey":  g.cfg.AuthKey,
		"intentId": intentID,
	})
	if err != nil {
		return nil, err
	}
	return decodeResult(body)
}

func (g *HTTPGateway) call(ctx context.Context, method string, payload map[string]any) ([]byte, error) {
	payload["method"] = method

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.Categorize(domain.KindValidation, fmt.Errorf("marshal gateway request failed: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	body, err := g.breaker.Execute(func() ([]byte, error) {
		return g.doRequest(ctx, jsonData)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, domain.Categorize(domain.KindNetwork, fmt.Errorf("payment gateway unavailable: %w", err))
	}
	return body, err
}

func (g *HTTPGateway) doRequest(ctx context.Context, jsonData []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, domain.Categorize(domain.KindValidation, fmt.Errorf("build gateway request failed: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, domain.Categorize(domain.KindNetwork, fmt.Errorf("failed to reach payment gateway: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Categorize(domain.KindNetwork, fmt.Errorf("read gateway response failed: %w", err))
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}
	return nil, domain.Categorize(kindForStatus(resp.StatusCode),
		fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(body)))
}

func kindForStatus(status int) domain.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.KindAuthentication
	case status == http.StatusPaymentRequired:
		return domain.KindDeclined
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return domain.KindValidation
	case status >= 500:
		return domain.KindServer
	}
	return domain.KindProcessing
}

func decodeResult(body []byte) (*IntentResult, error) {
	var result IntentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, domain.Categorize(domain.KindProcessing, fmt.Errorf("parse gateway response failed: %w", err))
	}
	if result.IntentID == "" {
		return nil, domain.Categorize(domain.KindProcessing, errors.New("gateway returned no intent id"))
	}
	return &result, nil
}
