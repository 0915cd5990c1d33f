package application

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"product-download-layer/internal/domain"
	"product-download-layer/internal/ports"
	apperrors "product-download-layer/pkg/errors"
)

// ProductService implements the product-file-association workflow on top
// of the admin client and the object store.
type ProductService struct {
	admin  ports.AdminClient
	store  ports.ObjectStore
	logger zerolog.Logger
}

// NewProductService creates the product workflow service.
func NewProductService(admin ports.AdminClient, store ports.ObjectStore, logger zerolog.Logger) *ProductService {
	return &ProductService{
		admin:  admin,
		store:  store,
		logger: logger,
	}
}

// Lookup fetches a product by raw id and returns the raw data payload.
func (s *ProductService) Lookup(ctx context.Context, productID string) (json.RawMessage, error) {
	return s.admin.GetProductData(ctx, domain.ProductGID(productID))
}

// LookupBySKU fetches the first product matching a SKU and returns the
// raw data payload.
func (s *ProductService) LookupBySKU(ctx context.Context, sku string) (json.RawMessage, error) {
	return s.admin.GetProductBySKUData(ctx, sku)
}

// UploadFile is one incoming multipart file.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// Upload runs the attachment pipeline for a product: delete the stale
// metafield ids named in the request, slugify the filename, stream the
// file into the bucket and write the filename/idhash metafields. Each
// step fails in isolation: cleanup and storage errors are logged and the
// remaining steps still run. Only the final metafield write error is
// returned, and the caller decides what to do with it.
func (s *ProductService) Upload(ctx context.Context, productID string, file *UploadFile, staleFieldIDs []string) error {
	gid := domain.ProductGID(productID)

	for _, id := range staleFieldIDs {
		if id == "" {
			continue
		}
		if err := s.admin.RemoveMetafield(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("metafieldId", id).Str("product", gid).
				Msg("Failed to remove stale download metafield")
		}
	}

	var metafields []domain.Metafield
	if file != nil {
		slugValue := slug.Make(file.Name)

		metafields = append(metafields,
			domain.Metafield{
				Namespace:   domain.MetafieldNamespace,
				Key:         domain.MetafieldKeyFilename,
				Value:       slugValue,
				Type:        "single_line_text_field",
				Description: domain.MetafieldDescription,
			},
			domain.Metafield{
				Namespace:   domain.MetafieldNamespace,
				Key:         domain.MetafieldKeyIDHash,
				Value:       domain.EncodeProductHash(productID),
				Type:        "single_line_text_field",
				Description: domain.MetafieldDescription,
			},
		)

		if _, err := s.store.Upload(ctx, file.Reader, domain.ObjectKey(slugValue)); err != nil {
			s.logger.Error().Err(err).Str("slug", slugValue).Str("product", gid).
				Msg("Failed to upload attachment to object store")
		}
	}

	// An empty metafield list still goes out as a (no-op) write.
	if err := s.admin.UpdateProductMetafields(ctx, gid, metafields); err != nil {
		s.logger.Error().Err(err).Str("product", gid).
			Msg("Failed to update download metafields")
		return err
	}
	return nil
}

// Download is a resolved attachment ready to stream to the shopper.
type Download struct {
	FileName    string
	ContentType string
	Body        io.ReadCloser
}

// ResolveDownload turns a public product hash into the attached file.
// The 404 cases are checked in order, each with its own message: unknown
// product, product without metafields, product without a filename field.
func (s *ProductService) ResolveDownload(ctx context.Context, productHash string) (*Download, error) {
	productID, err := domain.DecodeProductHash(productHash)
	if err != nil {
		return nil, &apperrors.ErrNotFound{Message: "no product found for hash " + productHash}
	}
	gid := domain.ProductGID(productID)

	product, err := s.admin.GetProduct(ctx, gid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &apperrors.ErrNotFound{Message: "no product found for id " + gid}
	}
	if len(product.Metafields) == 0 {
		return nil, &apperrors.ErrNotFound{Message: "no attached files found for product with id " + gid}
	}

	field, ok := product.DownloadField()
	if !ok {
		return nil, &apperrors.ErrNotFound{Message: "no attached files found for product with id " + gid}
	}

	// TODO: gate the download on the product's release date once that
	// field is defined; downloads are served unconditionally for now.

	fileName, ext := domain.DownloadFileName(field.Value)

	body, err := s.store.Download(ctx, domain.ObjectKey(field.Value))
	if err != nil {
		return nil, err
	}

	return &Download{
		FileName:    fileName,
		ContentType: domain.ContentTypeForExtension(ext),
		Body:        body,
	}, nil
}
