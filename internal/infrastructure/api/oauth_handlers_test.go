package api

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"product-download-layer/internal/infrastructure/sessionstore"
)

func TestPostAuthRedirect_DefaultsToRoot(t *testing.T) {
	redirects := sessionstore.NewRedirects()
	rt := NewRouter(nil, nil, redirects, nil, nil, nil, nil, nil, zerolog.Nop())

	got := rt.postAuthRedirect("demo.myshopify.com", "aG9zdA")
	assert.Equal(t, "/?shop=demo.myshopify.com&host=aG9zdA", got)
}

func TestPostAuthRedirect_UsesRecordedPathAndKeepsID(t *testing.T) {
	redirects := sessionstore.NewRedirects()
	redirects.Set("demo.myshopify.com", "/product/upload?id=42&shop=demo.myshopify.com")
	rt := NewRouter(nil, nil, redirects, nil, nil, nil, nil, nil, zerolog.Nop())

	got := rt.postAuthRedirect("demo.myshopify.com", "aG9zdA")
	assert.Equal(t, "/product/upload?shop=demo.myshopify.com&host=aG9zdA&id=42", got)

	// the recorded redirect is consumed
	_, ok := redirects.Take("demo.myshopify.com")
	assert.False(t, ok)
}
