package domain

import "time"

// Session represents one merchant installation of the app. Sessions are
// created by a successful OAuth callback and removed when the shop
// uninstalls the app. They are volatile: losing them only forces the
// merchant back through OAuth.
type Session struct {
	Shop        string    `json:"shop"`
	Scope       string    `json:"scope"`
	AccessToken string    `json:"access_token"`
	CreatedAt   time.Time `json:"created_at"`
}

// WebhookEvent is a verified webhook delivery from Shopify.
type WebhookEvent struct {
	Topic    string `json:"topic"`
	Shop     string `json:"shop"`
	Payload  []byte `json:"payload"`
	Verified bool   `json:"verified"`
}

// WebhookTopicAppUninstalled is the only topic this app subscribes to.
const WebhookTopicAppUninstalled = "app/uninstalled"
