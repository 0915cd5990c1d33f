package application

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-download-layer/internal/domain"
)

type stubHandler struct {
	topic   string
	handled []*domain.WebhookEvent
	err     error
}

func (s *stubHandler) CanHandle(topic string) bool { return topic == s.topic }

func (s *stubHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	s.handled = append(s.handled, event)
	return s.err
}

func TestDispatch_RoutesByTopic(t *testing.T) {
	d := NewWebhookDispatcher(zerolog.Nop())
	uninstall := &stubHandler{topic: domain.WebhookTopicAppUninstalled}
	other := &stubHandler{topic: "orders/create"}
	d.RegisterHandler(uninstall)
	d.RegisterHandler(other)

	event := &domain.WebhookEvent{Topic: domain.WebhookTopicAppUninstalled, Shop: "x.myshopify.com"}
	require.NoError(t, d.Dispatch(context.Background(), event))

	assert.Len(t, uninstall.handled, 1)
	assert.Empty(t, other.handled)
}

func TestDispatch_UnclaimedTopicIsNotAnError(t *testing.T) {
	d := NewWebhookDispatcher(zerolog.Nop())
	err := d.Dispatch(context.Background(), &domain.WebhookEvent{Topic: "products/delete"})
	assert.NoError(t, err)
}

func TestDispatch_HandlerErrorPropagates(t *testing.T) {
	d := NewWebhookDispatcher(zerolog.Nop())
	d.RegisterHandler(&stubHandler{topic: "t", err: errors.New("boom")})

	err := d.Dispatch(context.Background(), &domain.WebhookEvent{Topic: "t"})
	assert.Error(t, err)
}
