package web

import (
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/server/principal"
)

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
			"host", r.Host,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// session resolves the session cookie and stores the principal, if any, in
// the request context. A failing data layer fails the request.
func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(common.SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		p, err := s.accounts.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			s.metrics.RecordResolution("error")
			s.logger.Error(r.Context(), "resolve session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if p == nil {
			s.metrics.RecordResolution("absent")
			next.ServeHTTP(w, r)
			return
		}

		s.metrics.RecordResolution("found")
		next.ServeHTTP(w, r.WithContext(principal.WithPrincipal(r.Context(), p)))
	})
}

// RequireKind only lets principals of the given kinds through; with no
// kinds any principal passes. Anonymous browser requests are redirected to
// loginPath, other anonymous requests get 401. A principal of the wrong
// kind gets 403.
func RequireKind(loginPath string, kinds ...principal.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principal.FromContext(r.Context())
			if !ok {
				if wantsHTML(r) {
					target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if len(kinds) > 0 && !slices.Contains(kinds, p.Identifier().Kind) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
