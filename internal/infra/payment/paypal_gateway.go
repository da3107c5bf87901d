// File: internal/infra/payment/paypal_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain/ports/adapter"
)

var _ adapter.CheckoutOrders = (*PayPalGateway)(nil)

// PayPalGateway implements the Orders v2 API with direct HTTP calls. The
// OAuth token is cached until shortly before expiry.
type PayPalGateway struct {
	clientID string
	secret   string
	baseURL  string
	client   *http.Client
	log      *zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalGateway(clientID, secret string, sandbox bool, logger *zerolog.Logger) *PayPalGateway {
	baseURL := "https://api-m.paypal.com"
	if sandbox {
		baseURL = "https://api-m.sandbox.paypal.com"
	}
	return &PayPalGateway{
		clientID: clientID,
		secret:   secret,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 20 * time.Second},
		log:      logger,
	}
}

func (g *PayPalGateway) Name() string { return "paypal" }

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	Payer struct {
		Name struct {
			GivenName string `json:"given_name"`
			Surname   string `json:"surname"`
		} `json:"name"`
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type paypalErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Details []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`
}

func (g *PayPalGateway) Create(ctx context.Context, planID string, amountCents int64, currency, description string) (*adapter.CheckoutOrder, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"custom_id":   planID,
			"description": description,
			"amount": map[string]string{
				"currency_code": strings.ToUpper(currency),
				"value":         centsToValue(amountCents),
			},
		}},
	}

	raw, resp, err := g.call(ctx, http.MethodPost, "/v2/checkout/orders", body)
	if err != nil {
		return nil, err
	}
	order := &adapter.CheckoutOrder{
		ID:          resp.ID,
		Status:      resp.Status,
		AmountCents: amountCents,
		Currency:    strings.ToUpper(currency),
		RawPayload:  raw,
	}
	for _, l := range resp.Links {
		if l.Rel == "approve" {
			order.ApproveURL = l.Href
		}
	}
	return order, nil
}

func (g *PayPalGateway) Capture(ctx context.Context, orderID string) (*adapter.CheckoutOrder, error) {
	raw, resp, err := g.call(ctx, http.MethodPost, "/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", struct{}{})
	if err != nil {
		return nil, err
	}
	order := &adapter.CheckoutOrder{
		ID:         resp.ID,
		Status:     resp.Status,
		PayerEmail: resp.Payer.EmailAddress,
		PayerName:  strings.TrimSpace(resp.Payer.Name.GivenName + " " + resp.Payer.Name.Surname),
		RawPayload: raw,
	}
	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		amt := resp.PurchaseUnits[0].Payments.Captures[0].Amount
		order.Currency = amt.CurrencyCode
		order.AmountCents = valueToCents(amt.Value)
	}
	return order, nil
}

func (g *PayPalGateway) call(ctx context.Context, method, path string, body any) ([]byte, *paypalOrderResponse, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, nil, err
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request data: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, nil, &adapter.GatewayError{Kind: adapter.GatewayErrUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, nil, g.classify(resp.StatusCode, raw)
	}

	var out paypalOrderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(raw))
	}
	return raw, &out, nil
}

// token returns a cached OAuth token, refreshing when within a minute of
// expiry. The mutex also serializes concurrent refreshes.
func (g *PayPalGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.accessToken != "" && time.Now().Before(g.tokenExpiry.Add(-time.Minute)) {
		return g.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(g.clientID, g.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &adapter.GatewayError{Kind: adapter.GatewayErrUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		g.log.Error().Int("status", resp.StatusCode).Msg("paypal token request rejected")
		return "", &adapter.GatewayError{Kind: adapter.GatewayErrAuth, Message: "token request failed"}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	g.accessToken = tok.AccessToken
	g.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return g.accessToken, nil
}

func (g *PayPalGateway) classify(status int, raw []byte) error {
	var pe paypalErrorResponse
	_ = json.Unmarshal(raw, &pe)
	ge := &adapter.GatewayError{Code: pe.Name, Message: pe.Message}
	if len(pe.Details) > 0 {
		ge.Code = pe.Details[0].Issue
		if ge.Message == "" {
			ge.Message = pe.Details[0].Description
		}
	}
	switch {
	case ge.Code == "INSTRUMENT_DECLINED" || ge.Code == "PAYER_CANNOT_PAY" || ge.Code == "TRANSACTION_REFUSED":
		ge.Kind = adapter.GatewayErrCardDeclined
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		ge.Kind = adapter.GatewayErrAuth
	case status == http.StatusTooManyRequests || ge.Code == "RATE_LIMIT_REACHED":
		ge.Kind = adapter.GatewayErrRateLimited
	case status >= 500:
		ge.Kind = adapter.GatewayErrUnavailable
	case status >= 400:
		ge.Kind = adapter.GatewayErrInvalidRequest
	default:
		ge.Kind = adapter.GatewayErrUnknown
	}
	return ge
}

func centsToValue(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func valueToCents(value string) int64 {
	parts := strings.SplitN(value, ".", 2)
	whole, _ := strconv.ParseInt(parts[0], 10, 64)
	var frac int64
	if len(parts) == 2 {
		f := parts[1]
		if len(f) > 2 {
			f = f[:2]
		}
		for len(f) < 2 {
			f += "0"
		}
		frac, _ = strconv.ParseInt(f, 10, 64)
	}
	return whole*100 + frac
}
