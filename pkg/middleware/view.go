package middleware

import (
	"net/http"

	"zentra/pkg/utils"
)

// ViewCookies decodes the signed view-session and auth-token cookies into
// the request context. Missing or tampered cookies are treated as absent.
func ViewCookies(codec *utils.CookieCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if viewID := codec.Read(r, utils.ViewCookieName); viewID != "" {
				ctx = utils.SetViewContext(ctx, viewID)
			}
			if token := codec.Read(r, utils.SessionCookieName); token != "" {
				ctx = utils.SetTokenContext(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
