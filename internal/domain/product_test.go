package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHashRoundTrip(t *testing.T) {
	ids := []string{"1", "42", "6857843265712", "gid-free-id"}
	for _, id := range ids {
		hash := EncodeProductHash(id)
		decoded, err := DecodeProductHash(hash)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
		// encoding the decoded id reproduces the hash exactly
		assert.Equal(t, hash, EncodeProductHash(decoded))
	}
}

func TestDecodeProductHash_Invalid(t *testing.T) {
	_, err := DecodeProductHash("zz-not-hex")
	assert.Error(t, err)
}

func TestProductGID(t *testing.T) {
	gid := ProductGID("6857843265712")
	assert.Equal(t, "gid://shopify/Product/6857843265712", gid)
	assert.Equal(t, "6857843265712", IDFromGID(gid))
}

func TestDownloadField_FirstMatchWins(t *testing.T) {
	p := &Product{
		Metafields: []Metafield{
			{ID: "1", Key: "idhash", Value: "abc"},
			{ID: "2", Key: MetafieldKeyFilename, Value: "older-file-pdf"},
			{ID: "3", Key: MetafieldKeyFilename, Value: "newer-file-pdf"},
		},
	}

	field, ok := p.DownloadField()
	require.True(t, ok)
	// the first matching edge shadows later ones
	assert.Equal(t, "older-file-pdf", field.Value)
}

func TestDownloadField_NoMatch(t *testing.T) {
	p := &Product{Metafields: []Metafield{{Key: "idhash", Value: "abc"}}}
	_, ok := p.DownloadField()
	assert.False(t, ok)
}
