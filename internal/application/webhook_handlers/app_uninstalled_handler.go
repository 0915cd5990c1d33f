package webhook_handlers

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"product-download-layer/internal/domain"
	"product-download-layer/internal/ports"
)

// AppUninstalledHandler removes the shop session when the merchant
// uninstalls the app, completing the Authenticated -> Unauthenticated
// transition.
type AppUninstalledHandler struct {
	logger   zerolog.Logger
	sessions ports.SessionStore
}

// NewAppUninstalledHandler creates the uninstall webhook handler.
func NewAppUninstalledHandler(logger zerolog.Logger, sessions ports.SessionStore) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// CanHandle returns true if this handler can process the given topic.
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == domain.WebhookTopicAppUninstalled
}

// Handle drops the session for the uninstalling shop.
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shop := event.Shop
	if shop == "" {
		// Fall back to the payload; deliveries from older API versions
		// carry the domain there.
		var payload map[string]any
		if err := json.Unmarshal(event.Payload, &payload); err == nil {
			if d, ok := payload["domain"].(string); ok {
				shop = d
			} else if d, ok := payload["myshopify_domain"].(string); ok {
				shop = d
			}
		}
	}

	if shop == "" {
		h.logger.Warn().Msg("App uninstalled webhook without a shop domain")
		return nil
	}

	if err := h.sessions.Delete(ctx, shop); err != nil {
		return err
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", shop).
		Msg("Removed session for uninstalled shop")
	return nil
}
