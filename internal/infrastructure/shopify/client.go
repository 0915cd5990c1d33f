package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"product-download-layer/internal/domain"
	"product-download-layer/internal/ports"
	apperrors "product-download-layer/pkg/errors"
)

// AdminClient issues GraphQL operations against the Admin API of one shop
// using the app's back-channel credentials.
type AdminClient struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewAdminClient creates a GraphQL client for the given shop. The shop
// domain may carry a scheme or trailing slash; both are stripped.
func NewAdminClient(shopDomain, accessToken, apiVersion string, logger zerolog.Logger) *AdminClient {
	shopDomain = strings.TrimPrefix(shopDomain, "https://")
	shopDomain = strings.TrimPrefix(shopDomain, "http://")
	shopDomain = strings.TrimSuffix(shopDomain, "/")

	return &AdminClient{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

var _ ports.AdminClient = (*AdminClient)(nil)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// Execute runs a GraphQL document and returns the data payload. Transport
// and top-level GraphQL errors surface as plain errors; mutation
// userErrors are checked by the typed operations.
func (c *AdminClient) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.shopDomain, c.apiVersion)

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("graphql errors: %s", formatErrors(gqlResp.Errors))
	}

	return gqlResp.Data, nil
}

func formatErrors(errs []graphQLError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// edge wrappers for the connection shapes the queries return

type metafieldNode struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

type variantNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

type productPayload struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Handle     string `json:"handle"`
	Metafields struct {
		Edges []struct {
			Node metafieldNode `json:"node"`
		} `json:"edges"`
	} `json:"metafields"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

func (p *productPayload) toDomain() *domain.Product {
	out := &domain.Product{
		ID:     p.ID,
		Title:  p.Title,
		Handle: p.Handle,
	}
	for _, e := range p.Metafields.Edges {
		out.Metafields = append(out.Metafields, domain.Metafield{
			ID:        e.Node.ID,
			Namespace: e.Node.Namespace,
			Key:       e.Node.Key,
			Value:     e.Node.Value,
		})
	}
	for _, e := range p.Variants.Edges {
		out.Variants = append(out.Variants, domain.Variant{
			ID:    e.Node.ID,
			Title: e.Node.Title,
			SKU:   e.Node.SKU,
			Price: e.Node.Price,
		})
	}
	return out
}

// GetProductData fetches a product by global id and returns the raw data
// payload.
func (c *AdminClient) GetProductData(ctx context.Context, gid string) (json.RawMessage, error) {
	return c.Execute(ctx, ProductQuery, map[string]any{"id": gid})
}

// GetProduct fetches a product by global id and parses it. A null product
// in the payload returns a nil Product with no error; the caller decides
// whether that is a 404.
func (c *AdminClient) GetProduct(ctx context.Context, gid string) (*domain.Product, error) {
	data, err := c.GetProductData(ctx, gid)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Product *productPayload `json:"product"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	if wrapper.Product == nil {
		return nil, nil
	}
	return wrapper.Product.toDomain(), nil
}

// GetProductBySKUData finds the first product matching a SKU and returns
// the raw data payload.
func (c *AdminClient) GetProductBySKUData(ctx context.Context, sku string) (json.RawMessage, error) {
	return c.Execute(ctx, ProductBySKUQuery, map[string]any{"query": "sku:" + sku})
}

type userErrorCheck struct {
	UserErrors json.RawMessage `json:"userErrors"`
}

// hasUserErrors reports whether the serialized list is non-empty.
func hasUserErrors(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return false
	}
	return len(list) > 0
}

// UpdateProductMetafields writes the given metafields onto a product via
// productUpdate. Shopify treats an empty metafield list as a no-op write.
func (c *AdminClient) UpdateProductMetafields(ctx context.Context, gid string, fields []domain.Metafield) error {
	metafields := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		metafields = append(metafields, map[string]any{
			"namespace":   f.Namespace,
			"key":         f.Key,
			"value":       f.Value,
			"type":        f.Type,
			"description": f.Description,
		})
	}

	data, err := c.Execute(ctx, ProductUpdateMutation, map[string]any{
		"input": map[string]any{
			"id":         gid,
			"metafields": metafields,
		},
	})
	if err != nil {
		return err
	}

	var wrapper struct {
		ProductUpdate userErrorCheck `json:"productUpdate"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("failed to decode productUpdate payload: %w", err)
	}
	if hasUserErrors(wrapper.ProductUpdate.UserErrors) {
		return &apperrors.ErrOperationRejected{
			Operation:  "productUpdate",
			UserErrors: wrapper.ProductUpdate.UserErrors,
		}
	}
	return nil
}

// RemoveMetafield deletes a metafield by id via metafieldDelete.
func (c *AdminClient) RemoveMetafield(ctx context.Context, id string) error {
	data, err := c.Execute(ctx, MetafieldDeleteMutation, map[string]any{
		"input": map[string]any{"id": id},
	})
	if err != nil {
		return err
	}

	var wrapper struct {
		MetafieldDelete userErrorCheck `json:"metafieldDelete"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("failed to decode metafieldDelete payload: %w", err)
	}
	if hasUserErrors(wrapper.MetafieldDelete.UserErrors) {
		return &apperrors.ErrOperationRejected{
			Operation:  "metafieldDelete",
			UserErrors: wrapper.MetafieldDelete.UserErrors,
		}
	}
	return nil
}
