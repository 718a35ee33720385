package admin

import (
	"github.com/gorilla/mux"

	"fixdesk/config"
	"fixdesk/internal/auth"
	"fixdesk/internal/repo"
	"fixdesk/internal/ticket"
)

type Dependencies struct {
	CFG     *config.Config
	Users   *repo.UserStore
	Tickets *repo.TicketStore
	Content *repo.ContentStore
	Svc     *ticket.Service
}

// Attach mounts the back-office under /admin behind HTTP Basic auth.
func Attach(r *mux.Router, d Dependencies) {
	h := &Handler{d: d, t: parseTemplates()}
	sub := r.PathPrefix("/admin").Subrouter()
	sub.Use(auth.BasicAuth(d.CFG.Auth.AdminUsername, d.CFG.Auth.AdminPassword))

	sub.HandleFunc("", h.Dashboard).Methods("GET")
	sub.HandleFunc("/", h.Dashboard).Methods("GET")

	// tickets
	sub.HandleFunc("/tickets", h.TicketsList).Methods("GET")
	sub.HandleFunc("/tickets/{id:[0-9]+}", h.TicketDetail).Methods("GET")
	sub.HandleFunc("/tickets/{id:[0-9]+}/edit", h.TicketEdit).Methods("GET")
	sub.HandleFunc("/tickets/{id:[0-9]+}/edit", h.TicketEditSubmit).Methods("POST")
	sub.HandleFunc("/tickets/{id:[0-9]+}/message", h.TicketMessage).Methods("POST")
	sub.HandleFunc("/tickets/{id:[0-9]+}/time", h.TicketTime).Methods("POST")
	sub.HandleFunc("/tickets/{id:[0-9]+}/delete", h.TicketDelete).Methods("POST")

	// users
	sub.HandleFunc("/users", h.UsersList).Methods("GET")
	sub.HandleFunc("/users/{id:[0-9]+}/edit", h.UserEdit).Methods("GET")
	sub.HandleFunc("/users/{id:[0-9]+}/edit", h.UserEditSubmit).Methods("POST")
	sub.HandleFunc("/users/{id:[0-9]+}/delete", h.UserDelete).Methods("POST")

	// categories
	sub.HandleFunc("/categories", h.CategoriesList).Methods("GET")
	sub.HandleFunc("/categories/new", h.CategoryNew).Methods("GET")
	sub.HandleFunc("/categories/new", h.CategorySubmit).Methods("POST")
	sub.HandleFunc("/categories/{id:[0-9]+}/edit", h.CategoryEdit).Methods("GET")
	sub.HandleFunc("/categories/{id:[0-9]+}/edit", h.CategorySubmit).Methods("POST")
	sub.HandleFunc("/categories/{id:[0-9]+}/delete", h.CategoryDelete).Methods("POST")

	// blog
	sub.HandleFunc("/blog", h.BlogList).Methods("GET")
	sub.HandleFunc("/blog/new", h.BlogNew).Methods("GET")
	sub.HandleFunc("/blog/new", h.BlogSubmit).Methods("POST")
	sub.HandleFunc("/blog/{id:[0-9]+}/edit", h.BlogEdit).Methods("GET")
	sub.HandleFunc("/blog/{id:[0-9]+}/edit", h.BlogSubmit).Methods("POST")
	sub.HandleFunc("/blog/{id:[0-9]+}/delete", h.BlogDelete).Methods("POST")

	// knowledge base
	sub.HandleFunc("/kb", h.KBList).Methods("GET")
	sub.HandleFunc("/kb/new", h.KBNew).Methods("GET")
	sub.HandleFunc("/kb/new", h.KBSubmit).Methods("POST")
	sub.HandleFunc("/kb/{id:[0-9]+}/edit", h.KBEdit).Methods("GET")
	sub.HandleFunc("/kb/{id:[0-9]+}/edit", h.KBSubmit).Methods("POST")
	sub.HandleFunc("/kb/{id:[0-9]+}/delete", h.KBDelete).Methods("POST")

	// leads
	sub.HandleFunc("/leads", h.LeadsList).Methods("GET")
	sub.HandleFunc("/leads/{id:[0-9]+}/edit", h.LeadEdit).Methods("GET")
	sub.HandleFunc("/leads/{id:[0-9]+}/edit", h.LeadEditSubmit).Methods("POST")
	sub.HandleFunc("/leads/{id:[0-9]+}/delete", h.LeadDelete).Methods("POST")

	// testimonials
	sub.HandleFunc("/testimonials", h.TestimonialsList).Methods("GET")
	sub.HandleFunc("/testimonials/new", h.TestimonialNew).Methods("GET")
	sub.HandleFunc("/testimonials/new", h.TestimonialSubmit).Methods("POST")
	sub.HandleFunc("/testimonials/{id:[0-9]+}/edit", h.TestimonialEdit).Methods("GET")
	sub.HandleFunc("/testimonials/{id:[0-9]+}/edit", h.TestimonialSubmit).Methods("POST")
	sub.HandleFunc("/testimonials/{id:[0-9]+}/delete", h.TestimonialDelete).Methods("POST")

	// settings
	sub.HandleFunc("/settings", h.Settings).Methods("GET")
	sub.HandleFunc("/settings", h.SettingsSubmit).Methods("POST")

	sub.HandleFunc("/static/style.css", serveCSS).Methods("GET")
}
