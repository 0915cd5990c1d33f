package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Metafield namespace and keys used for download attachments.
const (
	MetafieldNamespace   = "Download"
	MetafieldKeyFilename = "filename"
	MetafieldKeyIDHash   = "idhash"

	// MetafieldDescription is attached verbatim to every field this app writes.
	MetafieldDescription = "filename of the associated download attachment"
)

const productGIDPrefix = "gid://shopify/Product/"

// Metafield is a namespaced key/value attribute on a Shopify resource.
type Metafield struct {
	ID          string `json:"id,omitempty"`
	Namespace   string `json:"namespace"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Variant is the subset of product variant data the admin panel displays.
type Variant struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

// Product is the subset of the Shopify product the app works with.
type Product struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Handle     string      `json:"handle"`
	Metafields []Metafield `json:"metafields"`
	Variants   []Variant   `json:"variants"`
}

// DownloadField returns the first metafield holding a download filename.
// When stale entries exist alongside the current one the first edge
// returned by the platform wins; older entries shadow newer ones.
func (p *Product) DownloadField() (Metafield, bool) {
	for _, f := range p.Metafields {
		if f.Key == MetafieldKeyFilename {
			return f, true
		}
	}
	return Metafield{}, false
}

// EncodeProductHash hex-encodes a raw product id for use in public
// download URLs.
func EncodeProductHash(id string) string {
	return hex.EncodeToString([]byte(id))
}

// DecodeProductHash reverses EncodeProductHash.
func DecodeProductHash(h string) (string, error) {
	raw, err := hex.DecodeString(h)
	if err != nil {
		return "", fmt.Errorf("invalid product hash %q: %w", h, err)
	}
	return string(raw), nil
}

// ProductGID builds the platform global id for a raw product id.
func ProductGID(id string) string {
	return productGIDPrefix + id
}

// IDFromGID strips the platform prefix from a product global id.
func IDFromGID(gid string) string {
	return strings.TrimPrefix(gid, productGIDPrefix)
}
