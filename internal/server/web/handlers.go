package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/gotofast/logistics/internal/server/principal"
	"github.com/gotofast/logistics/internal/server/services"
)

// loginForm describes one of the two login endpoints.
type loginForm struct {
	kind       principal.Kind
	path       string
	title      string
	field      string
	fieldLabel string
	login      func(ctx context.Context, login, password string) (string, error)
}

func (s *Server) adminLogin() loginForm {
	return loginForm{
		kind:       principal.KindAdmin,
		path:       "/admin/login",
		title:      "Admin sign in",
		field:      "username",
		fieldLabel: "Username",
		login:      s.accounts.LoginAdmin,
	}
}

func (s *Server) partnerLogin() loginForm {
	return loginForm{
		kind:       principal.KindPartner,
		path:       partnerLoginPath,
		title:      "Delivery partner sign in",
		field:      "phone",
		fieldLabel: "Phone number",
		login:      s.accounts.LoginPartner,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *Server) handleLoginPage(lf loginForm) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p, ok := principal.FromContext(r.Context()); ok && p.Identifier().Kind == lf.kind {
			http.Redirect(w, r, "/me", http.StatusSeeOther)
			return
		}
		renderHTML(w, http.StatusOK, loginPage(s.cfg.SiteName, lf, r.URL.Query().Get("next"), ""))
	}
}

func (s *Server) handleLogin(lf loginForm) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonBody := isJSON(r)

		var login, password, next string
		if jsonBody {
			var req loginRequest
			if err := decodeJSON(w, r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			login, password = req.Username, req.Password
			if lf.kind == principal.KindPartner {
				login = req.Phone
			}
		} else {
			if err := r.ParseForm(); err != nil {
				renderHTML(w, http.StatusBadRequest, loginPage(s.cfg.SiteName, lf, "", "Invalid form."))
				return
			}
			login = r.PostForm.Get(lf.field)
			password = r.PostForm.Get("password")
			next = r.PostForm.Get("next")
		}

		cookie, err := lf.login(r.Context(), strings.TrimSpace(login), password)
		if err != nil {
			s.metrics.RecordLogin(lf.kind.String(), "failure")
			if jsonBody {
				writeServiceError(w, err)
				return
			}
			status, msg := http.StatusUnauthorized, "Invalid credentials."
			if !errors.Is(err, common.ErrorUnauthorized) {
				status, msg = http.StatusInternalServerError, "Something went wrong, please try again."
			}
			renderHTML(w, status, loginPage(s.cfg.SiteName, lf, next, msg))
			return
		}

		s.metrics.RecordLogin(lf.kind.String(), "success")
		http.SetCookie(w, s.sessionCookie(r, cookie))

		if jsonBody {
			p, err := s.accounts.Authenticate(r.Context(), cookie)
			if err != nil || p == nil {
				s.logger.Error(r.Context(), "resolve new session", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			writeJSON(w, http.StatusOK, newPrincipalView(p))
			return
		}
		http.Redirect(w, r, safeNext(next, "/me"), http.StatusSeeOther)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		if err := s.accounts.Logout(r.Context(), c.Value); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	expired := s.sessionCookie(r, "")
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	if wantsHTML(r) {
		http.Redirect(w, r, s.cfg.LoginPath, http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionCookie is Secure when configured so or when the request arrived
// over HTTPS.
func (s *Server) sessionCookie(r *http.Request, value string) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies || isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
	}
}

type principalView struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
}

func newPrincipalView(p principal.Principal) principalView {
	id := p.Identifier()
	return principalView{
		ID:          id.String(),
		Kind:        id.Kind.String(),
		DisplayName: p.DisplayName(),
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())
	writeJSON(w, http.StatusOK, newPrincipalView(p))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type contactView struct {
	SiteName    string                  `json:"site_name"`
	CompanyName string                  `json:"company_name"`
	Settings    []models.ContactSetting `json:"settings"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	settings, err := s.contacts.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contactView{
		SiteName:    s.cfg.SiteName,
		CompanyName: s.cfg.CompanyName,
		Settings:    settings,
	})
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := chi.URLParam(r, "key")
	if err := s.contacts.Update(r.Context(), key, req.Value); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

type partnerView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	VehicleType string    `json:"vehicle_type"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var req services.NewPartner
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.accounts.CreatePartner(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, partnerView{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		Email:       p.Email,
		VehicleType: p.VehicleType,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	})
}

func (s *Server) handleRequestUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, _ := principal.FromContext(r.Context())
	task, err := s.documents.RequestUpload(r.Context(), p.Identifier().ID, req.Kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())
	docs, err := s.documents.List(r.Context(), p.Identifier().ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}
