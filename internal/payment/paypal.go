package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"

	// accessCodePrice is the fixed price of one access code.
	accessCodePrice = "5.00"
	priceCurrency   = "USD"
)

// payPalProvider implements Provider against the PayPal REST v1 payments API
type payPalProvider struct {
	baseURL      string
	clientID     string
	clientSecret string
	returnURL    string
	cancelURL    string
	httpClient   *http.Client
	logger       *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func newPayPalProvider(cfg Config, logger *slog.Logger) *payPalProvider {
	baseURL := sandboxBaseURL
	if cfg.Mode == "live" {
		baseURL = liveBaseURL
	}

	return &payPalProvider{
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		returnURL:    cfg.ReturnURL,
		cancelURL:    cfg.CancelURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// Create starts a sale for one access code and returns PayPal's payment id
func (p *payPalProvider) Create(ctx context.Context) (string, error) {
	body := map[string]any{
		"intent": "sale",
		"payer":  map[string]string{"payment_method": "paypal"},
		"redirect_urls": map[string]string{
			"return_url": p.returnURL,
			"cancel_url": p.cancelURL,
		},
		"transactions": []map[string]any{{
			"item_list": map[string]any{
				"items": []map[string]string{{
					"name":     "Access Code",
					"sku":      "001",
					"price":    accessCodePrice,
					"currency": priceCurrency,
					"quantity": "1",
				}},
			},
			"amount": map[string]string{
				"currency": priceCurrency,
				"total":    accessCodePrice,
			},
			"description": "Purchase access code for the site",
		}},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := p.post(ctx, "/v1/payments/payment", body, &result); err != nil {
		return "", err
	}

	p.logger.Info("Created PayPal payment", "payment_id", result.ID)
	return result.ID, nil
}

// Execute completes an approved payment
func (p *payPalProvider) Execute(ctx context.Context, paymentID, payerID string) error {
	path := fmt.Sprintf("/v1/payments/payment/%s/execute", url.PathEscape(paymentID))
	body := map[string]string{"payer_id": payerID}

	var result struct {
		State string `json:"state"`
	}
	if err := p.post(ctx, path, body, &result); err != nil {
		return err
	}

	if result.State != "approved" {
		return fmt.Errorf("%w: payment state %q", ErrPaymentFailed, result.State)
	}

	p.logger.Info("Executed PayPal payment", "payment_id", paymentID)
	return nil
}

// post sends an authenticated JSON request and decodes the response into out
func (p *payPalProvider) post(ctx context.Context, path string, body, out any) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		p.logger.Warn("PayPal request rejected",
			"path", path,
			"status", resp.StatusCode,
			"body", string(detail))
		return fmt.Errorf("%w: provider returned status %d", ErrPaymentFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}

	return nil
}

// token returns a cached OAuth access token, refreshing it when needed
func (p *payPalProvider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", form)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned status %d", ErrPaymentFailed, resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	p.accessToken = result.AccessToken
	// Refresh a minute early so in-flight requests never carry a token
	// that expires mid-call.
	p.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-60) * time.Second)

	return p.accessToken, nil
}
