package ports

import (
	"context"
	"encoding/json"

	"product-download-layer/internal/domain"
)

// AdminClient defines the GraphQL operations the app issues against the
// Shopify Admin API with its back-channel credentials.
type AdminClient interface {
	// Execute runs a raw GraphQL document and returns the data payload.
	Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)

	// GetProductData fetches a product by global id; the raw data payload
	// is returned so lookup routes can pass it through untouched.
	GetProductData(ctx context.Context, gid string) (json.RawMessage, error)

	// GetProduct fetches and parses a product by global id.
	GetProduct(ctx context.Context, gid string) (*domain.Product, error)

	// GetProductBySKUData fetches the first product matching a SKU.
	GetProductBySKUData(ctx context.Context, sku string) (json.RawMessage, error)

	// UpdateProductMetafields writes metafields onto a product. An empty
	// list is a no-op write, issued all the same.
	UpdateProductMetafields(ctx context.Context, gid string, fields []domain.Metafield) error

	// RemoveMetafield deletes one metafield by id.
	RemoveMetafield(ctx context.Context, id string) error
}

// GraphQLProxy forwards a merchant GraphQL request body unchanged to the
// shop's Admin API using the shop's own session token.
type GraphQLProxy interface {
	Forward(ctx context.Context, shop, accessToken string, body []byte) (response []byte, status int, err error)
}
