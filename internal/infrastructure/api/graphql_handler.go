package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	apperrors "product-download-layer/pkg/errors"
)

// handleGraphQL proxies a merchant GraphQL request to their shop's Admin
// API. The body goes through byte-for-byte; the session token is the only
// thing added. No session means Unauthorized.
func (rt *Router) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shop := r.URL.Query().Get("shop")
	if shop == "" {
		shop = r.Header.Get("X-Shop-Domain")
	}

	session, err := rt.sessions.Get(ctx, shop)
	if err != nil {
		rt.logger.Error().Err(err).Str("shop", shop).Msg("Failed to load session")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if session == nil || session.AccessToken == "" {
		http.Error(w, (&apperrors.ErrUnauthorized{Message: "no active session for shop"}).Error(), http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	rt.logger.Info().
		Str("shop", shop).
		Str("operation", operationName(body)).
		Msg("Proxying GraphQL request")

	resp, status, err := rt.proxy.Forward(ctx, shop, session.AccessToken, body)
	if err != nil {
		rt.logger.Error().Err(err).Str("shop", shop).Msg("GraphQL proxy failed")
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(resp)
}

// operationName extracts the operation name from a GraphQL request body
// for the access log. Parse failures return ""; the body is forwarded
// unchanged either way.
func operationName(body []byte) string {
	var req struct {
		Query         string `json:"query"`
		OperationName string `json:"operationName"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return ""
	}
	if req.OperationName != "" {
		return req.OperationName
	}

	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil || doc == nil {
		return ""
	}
	for _, op := range doc.Operations {
		if op.Name != "" {
			return op.Name
		}
	}
	return ""
}
