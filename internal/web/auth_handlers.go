package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"fixdesk/internal/auth"
	"fixdesk/internal/logs"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.currentUser(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	data := map[string]any{"Title": "Sign in"}
	// the verify handler redirects here with a generic failure flag
	if r.URL.Query().Get("expired") != "" {
		data["Error"] = "Invalid or expired login link. Please request a new one."
	}
	h.render(w, "login.tmpl", data)
}

// LoginSubmit issues a magic link for the submitted address. The
// account is created on first login; the response never reveals
// whether the address was known.
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" || !strings.Contains(email, "@") {
		h.render(w, "login.tmpl", map[string]any{
			"Title": "Sign in",
			"Error": "Please enter your email address.",
		})
		return
	}
	user, err := h.d.Users.GetOrCreateByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}
	token, err := h.d.Tokens.Issue(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}
	h.d.Mailer.SendMagicLink(r.Context(), user.Email, user.Name, token)
	h.render(w, "login_sent.tmpl", map[string]any{
		"Title": "Check your mail",
		"Email": user.Email,
	})
}

// AuthVerify redeems a magic-link token. Success sets the signed
// session cookie; any failure redirects to login with a generic
// message and no cookie.
func (h *Handler) AuthVerify(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	user, err := h.d.Tokens.Redeem(r.Context(), token)
	if err != nil {
		logs.Logger.Infof("auth: rejected login link from %s", r.RemoteAddr)
		http.Redirect(w, r, "/login?expired=1", http.StatusSeeOther)
		return
	}
	auth.SetSessionCookie(w, h.codec.Encode(user.ID), h.secureCookies())
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
