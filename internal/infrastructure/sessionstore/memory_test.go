package sessionstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-download-layer/internal/domain"
)

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	active, err := store.Active(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, store.Set(ctx, &domain.Session{
		Shop:        "demo.myshopify.com",
		Scope:       "read_products,write_products",
		AccessToken: "shpat_abc",
	}))

	s, err := store.Get(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "shpat_abc", s.AccessToken)

	active, err = store.Active(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.Delete(ctx, "demo.myshopify.com"))

	s, err = store.Get(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			shop := fmt.Sprintf("shop-%d.myshopify.com", n)
			_ = store.Set(ctx, &domain.Session{Shop: shop, AccessToken: "t"})
			_, _ = store.Get(ctx, shop)
			_, _ = store.Active(ctx, shop)
			_ = store.Delete(ctx, shop)
		}(i)
	}
	wg.Wait()
}

func TestRedirects_TakeConsumes(t *testing.T) {
	r := NewRedirects()
	r.Set("demo.myshopify.com", "/product/upload?id=42")

	path, ok := r.Peek("demo.myshopify.com")
	require.True(t, ok)
	assert.Equal(t, "/product/upload?id=42", path)

	path, ok = r.Take("demo.myshopify.com")
	require.True(t, ok)
	assert.Equal(t, "/product/upload?id=42", path)

	_, ok = r.Take("demo.myshopify.com")
	assert.False(t, ok)
}
