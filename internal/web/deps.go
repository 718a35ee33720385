package web

import (
	"github.com/gorilla/mux"

	"fixdesk/config"
	"fixdesk/internal/cloudflare"
	"fixdesk/internal/mail"
	"fixdesk/internal/repo"
	"fixdesk/internal/ticket"
)

type Dependencies struct {
	CFG     *config.Config
	Users   *repo.UserStore
	Tokens  *repo.TokenStore
	Tickets *repo.TicketStore
	Content *repo.ContentStore
	Svc     *ticket.Service
	Mailer  *mail.Mailer
	CF      *cloudflare.Client
}

// Attach wires the public site and the authenticated portal onto the
// router.
func Attach(r *mux.Router, d Dependencies) {
	h := &Handler{d: d, t: parseTemplates(), codec: newCodec(d.CFG)}

	// public marketing pages
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/services", h.Services).Methods("GET")
	r.HandleFunc("/about", h.About).Methods("GET")
	r.HandleFunc("/contact", h.Contact).Methods("GET")
	r.HandleFunc("/contact", h.ContactSubmit).Methods("POST")
	r.HandleFunc("/blog", h.BlogList).Methods("GET")
	r.HandleFunc("/blog/{slug}", h.BlogPost).Methods("GET")
	r.HandleFunc("/knowledge-base", h.KBList).Methods("GET")
	r.HandleFunc("/knowledge-base/{slug}", h.KBArticle).Methods("GET")

	// auth
	r.HandleFunc("/login", h.Login).Methods("GET")
	r.HandleFunc("/login", h.LoginSubmit).Methods("POST")
	r.HandleFunc("/auth/verify/{token}", h.AuthVerify).Methods("GET")
	r.HandleFunc("/logout", h.Logout).Methods("GET")

	// portal (session required, enforced per handler)
	r.HandleFunc("/dashboard", h.requireLogin(h.Dashboard)).Methods("GET")
	r.HandleFunc("/profile", h.requireLogin(h.Profile)).Methods("GET")
	r.HandleFunc("/profile", h.requireLogin(h.ProfileSubmit)).Methods("POST")
	r.HandleFunc("/tickets/new", h.requireLogin(h.TicketNew)).Methods("GET")
	r.HandleFunc("/tickets/new", h.requireLogin(h.TicketNewSubmit)).Methods("POST")
	r.HandleFunc("/tickets/{id:[0-9]+}", h.requireLogin(h.TicketDetail)).Methods("GET")
	r.HandleFunc("/tickets/{id:[0-9]+}/message", h.requireLogin(h.TicketMessage)).Methods("POST")
	r.HandleFunc("/tickets/{id:[0-9]+}/note", h.requireLogin(h.TicketNote)).Methods("POST")
	r.HandleFunc("/tickets/{id:[0-9]+}/time", h.requireLogin(h.TicketTime)).Methods("POST")
	r.HandleFunc("/tickets/{id:[0-9]+}/claim", h.requireLogin(h.TicketClaim)).Methods("POST")
	r.HandleFunc("/tickets/{id:[0-9]+}/status", h.requireLogin(h.TicketStatus)).Methods("POST")
}
