package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-download-layer/internal/domain"
	apperrors "product-download-layer/pkg/errors"
)

type fakeAdmin struct {
	removed       []string
	removeErrs    map[string]error
	updatedGID    string
	updatedFields []domain.Metafield
	updateCalled  bool
	updateErr     error
	product       *domain.Product
	productErr    error
	data          json.RawMessage
	dataErr       error
}

func (f *fakeAdmin) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	return f.data, f.dataErr
}

func (f *fakeAdmin) GetProductData(ctx context.Context, gid string) (json.RawMessage, error) {
	return f.data, f.dataErr
}

func (f *fakeAdmin) GetProduct(ctx context.Context, gid string) (*domain.Product, error) {
	return f.product, f.productErr
}

func (f *fakeAdmin) GetProductBySKUData(ctx context.Context, sku string) (json.RawMessage, error) {
	return f.data, f.dataErr
}

func (f *fakeAdmin) UpdateProductMetafields(ctx context.Context, gid string, fields []domain.Metafield) error {
	f.updateCalled = true
	f.updatedGID = gid
	f.updatedFields = fields
	return f.updateErr
}

func (f *fakeAdmin) RemoveMetafield(ctx context.Context, id string) error {
	f.removed = append(f.removed, id)
	if err, ok := f.removeErrs[id]; ok {
		return err
	}
	return nil
}

type fakeStore struct {
	uploadedKeys []string
	uploadedData []byte
	uploadErr    error
	downloadBody string
	downloadErr  error
	downloadKey  string
}

func (f *fakeStore) ListBuckets(ctx context.Context) ([]string, error)               { return nil, nil }
func (f *fakeStore) ListObjects(ctx context.Context, bucket string) ([]string, error) { return nil, nil }

func (f *fakeStore) Upload(ctx context.Context, r io.Reader, key string) (string, error) {
	f.uploadedKeys = append(f.uploadedKeys, key)
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, _ := io.ReadAll(r)
	f.uploadedData = data
	return "https://bucket.example/" + key, nil
}

func (f *fakeStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f.downloadKey = key
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(strings.NewReader(f.downloadBody)), nil
}

func newTestService(admin *fakeAdmin, store *fakeStore) *ProductService {
	return NewProductService(admin, store, zerolog.Nop())
}

func TestUpload_DeletesAllStaleFieldsEvenWhenOneFails(t *testing.T) {
	admin := &fakeAdmin{
		removeErrs: map[string]error{"123": errors.New("delete rejected")},
	}
	store := &fakeStore{}
	svc := newTestService(admin, store)

	err := svc.Upload(context.Background(), "42", &UploadFile{
		Name:   "My File.pdf",
		Reader: strings.NewReader("content"),
	}, []string{"123", "456"})
	require.NoError(t, err)

	// both deletes attempted despite the first one failing
	assert.Equal(t, []string{"123", "456"}, admin.removed)
}

func TestUpload_WritesSlugAndIDHashMetafields(t *testing.T) {
	admin := &fakeAdmin{}
	store := &fakeStore{}
	svc := newTestService(admin, store)

	err := svc.Upload(context.Background(), "42", &UploadFile{
		Name:   "My File.pdf",
		Reader: strings.NewReader("content"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Product/42", admin.updatedGID)
	require.Len(t, admin.updatedFields, 2)

	filename := admin.updatedFields[0]
	assert.Equal(t, domain.MetafieldNamespace, filename.Namespace)
	assert.Equal(t, domain.MetafieldKeyFilename, filename.Key)
	assert.Equal(t, "my-file-pdf", filename.Value)

	idhash := admin.updatedFields[1]
	assert.Equal(t, domain.MetafieldKeyIDHash, idhash.Key)
	assert.Equal(t, domain.EncodeProductHash("42"), idhash.Value)

	assert.Equal(t, []string{"downloads/my-file-pdf"}, store.uploadedKeys)
	assert.Equal(t, "content", string(store.uploadedData))
}

func TestUpload_StorageFailureStillWritesMetafields(t *testing.T) {
	admin := &fakeAdmin{}
	store := &fakeStore{uploadErr: errors.New("bucket unavailable")}
	svc := newTestService(admin, store)

	err := svc.Upload(context.Background(), "42", &UploadFile{
		Name:   "report.pdf",
		Reader: strings.NewReader("content"),
	}, nil)
	require.NoError(t, err)

	assert.True(t, admin.updateCalled)
	require.Len(t, admin.updatedFields, 2)
}

func TestUpload_NoFileIssuesEmptyWrite(t *testing.T) {
	admin := &fakeAdmin{}
	store := &fakeStore{}
	svc := newTestService(admin, store)

	err := svc.Upload(context.Background(), "42", nil, []string{"99"})
	require.NoError(t, err)

	assert.Equal(t, []string{"99"}, admin.removed)
	assert.True(t, admin.updateCalled)
	assert.Empty(t, admin.updatedFields)
	assert.Empty(t, store.uploadedKeys)
}

func TestUpload_MetafieldWriteErrorIsReturned(t *testing.T) {
	admin := &fakeAdmin{updateErr: errors.New("shopify down")}
	svc := newTestService(admin, &fakeStore{})

	err := svc.Upload(context.Background(), "42", nil, nil)
	assert.Error(t, err)
}

func TestResolveDownload_UnknownProduct(t *testing.T) {
	svc := newTestService(&fakeAdmin{product: nil}, &fakeStore{})

	hash := domain.EncodeProductHash("42")
	_, err := svc.ResolveDownload(context.Background(), hash)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "gid://shopify/Product/42")
}

func TestResolveDownload_NoMetafields(t *testing.T) {
	svc := newTestService(&fakeAdmin{product: &domain.Product{ID: "gid://shopify/Product/42"}}, &fakeStore{})

	_, err := svc.ResolveDownload(context.Background(), domain.EncodeProductHash("42"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "no attached files found for product with id gid://shopify/Product/42")
}

func TestResolveDownload_NoFilenameField(t *testing.T) {
	product := &domain.Product{
		ID:         "gid://shopify/Product/42",
		Metafields: []domain.Metafield{{Key: "idhash", Value: "abc"}},
	}
	svc := newTestService(&fakeAdmin{product: product}, &fakeStore{})

	_, err := svc.ResolveDownload(context.Background(), domain.EncodeProductHash("42"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "no attached files found")
}

func TestResolveDownload_InvalidHash(t *testing.T) {
	svc := newTestService(&fakeAdmin{}, &fakeStore{})

	_, err := svc.ResolveDownload(context.Background(), "not-hex")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestResolveDownload_StreamsAttachment(t *testing.T) {
	product := &domain.Product{
		ID: "gid://shopify/Product/42",
		Metafields: []domain.Metafield{
			{Key: domain.MetafieldKeyFilename, Value: "report-2024-pdf"},
		},
	}
	store := &fakeStore{downloadBody: "pdf bytes"}
	svc := newTestService(&fakeAdmin{product: product}, store)

	dl, err := svc.ResolveDownload(context.Background(), domain.EncodeProductHash("42"))
	require.NoError(t, err)
	defer dl.Body.Close()

	assert.Equal(t, "report-2024.pdf", dl.FileName)
	assert.Equal(t, "application/pdf", dl.ContentType)
	assert.Equal(t, "downloads/report-2024-pdf", store.downloadKey)

	body, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(body))
}

func TestResolveDownload_UnsupportedExtensionHasNoContentType(t *testing.T) {
	product := &domain.Product{
		ID: "gid://shopify/Product/42",
		Metafields: []domain.Metafield{
			{Key: domain.MetafieldKeyFilename, Value: "archive-zip"},
		},
	}
	svc := newTestService(&fakeAdmin{product: product}, &fakeStore{downloadBody: "zip"})

	dl, err := svc.ResolveDownload(context.Background(), domain.EncodeProductHash("42"))
	require.NoError(t, err)
	defer dl.Body.Close()

	assert.Equal(t, "archive.zip", dl.FileName)
	assert.Equal(t, "", dl.ContentType)
}

func TestLookup_PassesGID(t *testing.T) {
	admin := &fakeAdmin{data: json.RawMessage(`{"product":{"id":"gid://shopify/Product/42"}}`)}
	svc := newTestService(admin, &fakeStore{})

	data, err := svc.Lookup(context.Background(), "42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"product":{"id":"gid://shopify/Product/42"}}`, string(data))
}

func TestLookupBySKU_PropagatesTransportError(t *testing.T) {
	admin := &fakeAdmin{dataErr: fmt.Errorf("connection refused")}
	svc := newTestService(admin, &fakeStore{})

	_, err := svc.LookupBySKU(context.Background(), "ABC-123")
	assert.Error(t, err)
}
