package api

import (
	"io"
	"net/http"

	"product-download-layer/internal/domain"
)

// handleWebhooks verifies and dispatches a platform webhook delivery.
// Failures are logged server-side only; the response is 200 regardless so
// the platform does not redeliver. The webhook's work (dropping a
// session) is idempotent either way.
func (rt *Router) handleWebhooks(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		rt.logger.Error().Err(err).Msg("Failed to read webhook payload")
		w.WriteHeader(http.StatusOK)
		return
	}
	defer r.Body.Close()

	topic := r.Header.Get("X-Shopify-Topic")
	shop := r.Header.Get("X-Shopify-Shop-Domain")

	if err := rt.verifier.Verify(payload, r.Header.Get("X-Shopify-Hmac-Sha256")); err != nil {
		rt.logger.Warn().Err(err).Str("topic", topic).Str("shop", shop).
			Msg("Webhook signature verification failed")
		w.WriteHeader(http.StatusOK)
		return
	}

	event := &domain.WebhookEvent{
		Topic:    topic,
		Shop:     shop,
		Payload:  payload,
		Verified: true,
	}

	if err := rt.dispatcher.Dispatch(r.Context(), event); err != nil {
		rt.logger.Error().Err(err).Str("topic", topic).Str("shop", shop).
			Msg("Failed to process webhook")
		w.WriteHeader(http.StatusOK)
		return
	}

	rt.logger.Info().Str("topic", topic).Str("shop", shop).Msg("Webhook processed")
	w.WriteHeader(http.StatusOK)
}
