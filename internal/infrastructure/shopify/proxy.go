package shopify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"product-download-layer/internal/ports"
)

// Proxy forwards merchant GraphQL requests to their shop's Admin API,
// byte-for-byte, using the shop's own session token.
type Proxy struct {
	apiVersion string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewProxy creates a GraphQL proxy for the given API version.
func NewProxy(apiVersion string, logger zerolog.Logger) *Proxy {
	return &Proxy{
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

var _ ports.GraphQLProxy = (*Proxy)(nil)

// Forward posts the body unchanged and returns the upstream response body
// and status.
func (p *Proxy) Forward(ctx context.Context, shop, accessToken string, body []byte) ([]byte, int, error) {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, p.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create proxy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to forward graphql request: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read proxy response: %w", err)
	}
	return out, resp.StatusCode, nil
}
