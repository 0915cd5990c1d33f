package api

import (
	"net/http"
	"net/url"
	"time"

	"product-download-layer/internal/domain"
)

// handleAuth starts the OAuth handshake for a shop.
func (rt *Router) handleAuth(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	if shop == "" {
		http.Error(w, "shop parameter is required", http.StatusBadRequest)
		return
	}

	authURL, err := rt.oauth.BeginAuthURL(shop)
	if err != nil {
		rt.logger.Error().Err(err).Str("shop", shop).Msg("Failed to begin OAuth")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleAuthCallback completes the handshake: verify, exchange the code,
// store the session, register the uninstall webhook and send the merchant
// back to the screen they originally asked for.
func (rt *Router) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	shop := query.Get("shop")
	code := query.Get("code")
	host := query.Get("host")
	if shop == "" || code == "" {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	if err := rt.oauth.VerifyCallback(r.URL); err != nil {
		rt.logger.Warn().Err(err).Str("shop", shop).Msg("OAuth callback verification failed")
		http.Error(w, "invalid oauth callback", http.StatusUnauthorized)
		return
	}

	token, scope, err := rt.oauth.ExchangeToken(ctx, shop, code)
	if err != nil {
		rt.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange token")
		http.Error(w, "failed to complete installation", http.StatusInternalServerError)
		return
	}

	session := &domain.Session{
		Shop:        shop,
		Scope:       scope,
		AccessToken: token,
		CreatedAt:   time.Now(),
	}
	if err := rt.sessions.Set(ctx, session); err != nil {
		rt.logger.Error().Err(err).Str("shop", shop).Msg("Failed to store session")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := rt.oauth.RegisterUninstallWebhook(ctx, shop, token); err != nil {
		// Logged only: the install stays valid without the webhook.
		rt.logger.Error().Err(err).Str("shop", shop).Msg("Failed to register uninstall webhook")
	}

	rt.logger.Info().Str("shop", shop).Str("scope", scope).Msg("Shop authenticated")

	http.Redirect(w, r, rt.postAuthRedirect(shop, host), http.StatusFound)
}

// postAuthRedirect rebuilds the URL the shop originally requested before
// being sent through OAuth. The shop and host parameters ride along for
// the embedded app frame; an id parameter on the recorded path is kept.
func (rt *Router) postAuthRedirect(shop, host string) string {
	redirectPath := "/"
	queryString := "shop=" + url.QueryEscape(shop) + "&host=" + url.QueryEscape(host)

	if recorded, ok := rt.redirects.Take(shop); ok {
		if u, err := url.Parse(recorded); err == nil {
			redirectPath = u.Path
			if id := u.Query().Get("id"); id != "" {
				queryString += "&id=" + url.QueryEscape(id)
			}
		}
	}

	return redirectPath + "?" + queryString
}
