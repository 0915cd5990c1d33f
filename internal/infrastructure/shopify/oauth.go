package shopify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// OAuth drives the install handshake for a shop: authorization URL,
// callback verification, token exchange and webhook registration. State
// nonces are held in memory; they live for one round trip only.
type OAuth struct {
	app         goshopify.App
	apiKey      string
	apiSecret   string
	scopes      []string
	redirectURI string
	webhookAddr string
	httpClient  *http.Client
	logger      zerolog.Logger

	mu     sync.Mutex
	states map[string]string // state nonce -> shop
}

// NewOAuth creates the OAuth flow helper. host is the public hostname of
// this app without scheme.
func NewOAuth(apiKey, apiSecret string, scopes []string, host string, logger zerolog.Logger) *OAuth {
	redirectURI := "https://" + host + "/auth/callback"
	return &OAuth{
		app: goshopify.App{
			ApiKey:      apiKey,
			ApiSecret:   apiSecret,
			RedirectUrl: redirectURI,
			Scope:       strings.Join(scopes, ","),
		},
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		scopes:      scopes,
		redirectURI: redirectURI,
		webhookAddr: "https://" + host + "/webhooks",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// BeginAuthURL generates a state nonce for the shop and returns the
// authorization URL to redirect the merchant to.
func (o *OAuth) BeginAuthURL(shop string) (string, error) {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	o.mu.Lock()
	if o.states == nil {
		o.states = make(map[string]string)
	}
	o.states[state] = shop
	o.mu.Unlock()

	authURL := fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		o.apiKey,
		url.QueryEscape(strings.Join(o.scopes, ",")),
		url.QueryEscape(o.redirectURI),
		url.QueryEscape(state),
	)
	return authURL, nil
}

// VerifyCallback checks the state nonce and the HMAC signature of the
// callback URL. The nonce is consumed either way.
func (o *OAuth) VerifyCallback(u *url.URL) error {
	shop := u.Query().Get("shop")
	state := u.Query().Get("state")

	o.mu.Lock()
	expectedShop, ok := o.states[state]
	delete(o.states, state)
	o.mu.Unlock()

	if !ok || expectedShop != shop {
		return fmt.Errorf("unknown or mismatched oauth state for shop %s", shop)
	}

	valid, err := o.app.VerifyAuthorizationURL(u)
	if err != nil {
		return fmt.Errorf("failed to verify callback signature: %w", err)
	}
	if !valid {
		return fmt.Errorf("invalid callback signature for shop %s", shop)
	}
	return nil
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ExchangeToken trades the authorization code for an access token.
func (o *OAuth) ExchangeToken(ctx context.Context, shop, code string) (token, scope string, err error) {
	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)

	values := url.Values{}
	values.Set("client_id", o.apiKey)
	values.Set("client_secret", o.apiSecret)
	values.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var tokenResp accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", "", fmt.Errorf("failed to decode token response: %w", err)
	}
	return tokenResp.AccessToken, tokenResp.Scope, nil
}

// RegisterUninstallWebhook subscribes the app/uninstalled topic for a
// freshly installed shop. A failure here is reported, not fatal: the shop
// session stays valid and the webhook can be registered on the next
// install.
func (o *OAuth) RegisterUninstallWebhook(ctx context.Context, shop, accessToken string) error {
	client, err := goshopify.NewClient(o.app, shop, accessToken)
	if err != nil {
		return fmt.Errorf("failed to create client for %s: %w", shop, err)
	}

	_, err = client.Webhook.Create(ctx, goshopify.Webhook{
		Topic:   "app/uninstalled",
		Address: o.webhookAddr,
		Format:  "json",
	})
	if err != nil {
		return fmt.Errorf("failed to register app/uninstalled webhook for %s: %w", shop, err)
	}

	o.logger.Info().
		Str("shop", shop).
		Str("address", o.webhookAddr).
		Msg("Registered app/uninstalled webhook")
	return nil
}
