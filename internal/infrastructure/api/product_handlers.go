package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"product-download-layer/internal/application"
	apperrors "product-download-layer/pkg/errors"
)

// handleDownload streams the attachment for a hex product hash. Unlike
// the lookup routes this one propagates its 400/404s to the shopper.
func (rt *Router) handleDownload(w http.ResponseWriter, r *http.Request) {
	productHash := chi.URLParam(r, "productHash")
	if productHash == "" {
		http.Error(w, (&apperrors.ErrValidation{Param: "productId"}).Error(), http.StatusBadRequest)
		return
	}

	download, err := rt.products.ResolveDownload(r.Context(), productHash)
	if err != nil {
		if apperrors.IsNotFound(err) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		rt.logger.Error().Err(err).Str("productHash", productHash).Msg("Failed to resolve download")
		http.Error(w, "failed to resolve download", http.StatusInternalServerError)
		return
	}
	defer download.Body.Close()

	w.Header().Set("Content-Disposition", "attachment; filename="+download.FileName)
	if download.ContentType != "" {
		w.Header().Set("Content-Type", download.ContentType)
	}

	if _, err := io.Copy(w, download.Body); err != nil {
		rt.logger.Error().Err(err).Str("productHash", productHash).Msg("Failed to stream download")
	}
}

// maxUploadMemory bounds the multipart parse buffer; larger files spill
// to disk.
const maxUploadMemory = 32 << 20

// handleUpload runs the attachment pipeline. Per-step failures inside the
// pipeline are logged, never surfaced: the route answers "ok" no matter
// what.
func (rt *Router) handleUpload(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		http.Error(w, (&apperrors.ErrValidation{Param: "productId"}).Error(), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		rt.logger.Error().Err(err).Str("product", productID).Msg("Failed to parse upload form")
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	var staleFieldIDs []string
	if downloads := r.FormValue("downloads"); downloads != "" {
		staleFieldIDs = strings.Split(downloads, ",")
	}

	// The uploaddate field is accepted and ignored; release-date gating
	// has no defined semantics yet.
	_ = r.FormValue("uploaddate")

	var file *application.UploadFile
	if f, header, err := r.FormFile("file"); err == nil {
		defer f.Close()
		file = &application.UploadFile{Name: header.Filename, Reader: f}
	}

	if err := rt.products.Upload(r.Context(), productID, file, staleFieldIDs); err != nil {
		rt.logger.Error().Err(err).Str("product", productID).Msg("Upload pipeline reported an error")
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// lookupFunc fetches a raw data payload for one path parameter value.
type lookupFunc func(ctx context.Context, value string) (json.RawMessage, error)

// lookup runs a product lookup with an explicit error policy. The find
// and id routes swallow every backend failure into a success-shaped
// {"empty": true} body so the embedded UI never sees a 5xx.
func (rt *Router) lookup(w http.ResponseWriter, r *http.Request, param, value string, swallowErrors bool, fetch lookupFunc) {
	if value == "" {
		http.Error(w, (&apperrors.ErrValidation{Param: param}).Error(), http.StatusBadRequest)
		return
	}

	data, err := fetch(r.Context(), value)
	if err != nil {
		rt.logger.Error().Err(err).Str(param, value).Msg("Product lookup failed")
		if swallowErrors {
			writeJSON(w, http.StatusOK, map[string]bool{"empty": true})
			return
		}
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (rt *Router) handleFind(w http.ResponseWriter, r *http.Request) {
	rt.lookup(w, r, "sku", chi.URLParam(r, "sku"), true, rt.products.LookupBySKU)
}

func (rt *Router) handleProductLookup(w http.ResponseWriter, r *http.Request) {
	rt.lookup(w, r, "productId", chi.URLParam(r, "productID"), true, rt.products.Lookup)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
