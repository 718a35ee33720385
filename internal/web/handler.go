package web

import (
	"net/http"
	"strings"

	"fixdesk/config"
	"fixdesk/internal/auth"
	"fixdesk/internal/models"
)

type Handler struct {
	d     Dependencies
	t     pageTemplates
	codec *auth.SessionCodec
}

func newCodec(cfg *config.Config) *auth.SessionCodec {
	return auth.NewSessionCodec(cfg.Auth.SecretKey)
}

func (h *Handler) render(w http.ResponseWriter, page string, data map[string]any) {
	t, ok := h.t[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["AppName"]; !ok {
		data["AppName"] = h.d.CFG.App.Name
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// currentUser resolves the session cookie to an active user, or nil.
func (h *Handler) currentUser(r *http.Request) *models.User {
	c, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		return nil
	}
	uid, ok := h.codec.Decode(c.Value, auth.UserSessionMaxAge)
	if !ok {
		return nil
	}
	u, err := h.d.Users.GetByID(r.Context(), uid)
	if err != nil || !u.IsActive {
		return nil
	}
	return u
}

type userHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

func (h *Handler) requireLogin(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := h.currentUser(r)
		if u == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, u)
	}
}

func (h *Handler) secureCookies() bool {
	return strings.HasPrefix(h.d.CFG.App.URL, "https://")
}
