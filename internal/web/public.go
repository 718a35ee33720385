package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"fixdesk/internal/models"
)

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	testimonials, _ := h.d.Content.PublishedTestimonials(r.Context())
	categories, _ := h.d.Content.ActiveCategories(r.Context())
	h.render(w, "index.tmpl", map[string]any{
		"Title":        "Home",
		"User":         h.currentUser(r),
		"Testimonials": testimonials,
		"Categories":   categories,
	})
}

func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	categories, _ := h.d.Content.ActiveCategories(r.Context())
	h.render(w, "services.tmpl", map[string]any{
		"Title":      "Services",
		"User":       h.currentUser(r),
		"Categories": categories,
	})
}

func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, "about.tmpl", map[string]any{
		"Title": "About",
		"User":  h.currentUser(r),
	})
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, "contact.tmpl", map[string]any{
		"Title": "Contact",
		"User":  h.currentUser(r),
	})
}

// ContactSubmit records a lead and fires the admin notification.
// Validation failures re-render the form; nothing is persisted.
func (h *Handler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		h.render(w, "contact.tmpl", map[string]any{
			"Title": "Contact",
			"User":  h.currentUser(r),
			"Error": "Please fill in your name and a valid email address.",
			"Form":  r.Form,
		})
		return
	}
	lead := &models.Lead{
		Name:    name,
		Email:   email,
		Company: strings.TrimSpace(r.FormValue("company")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Message: strings.TrimSpace(r.FormValue("message")),
		Status:  models.LeadNew,
	}
	if err := h.d.Content.CreateLead(r.Context(), lead); err != nil {
		http.Error(w, "could not save your message", http.StatusInternalServerError)
		return
	}
	h.d.Mailer.LeadSubmitted(r.Context(), lead)
	h.render(w, "contact.tmpl", map[string]any{
		"Title":   "Contact",
		"User":    h.currentUser(r),
		"Success": "Thanks! We will get back to you shortly.",
	})
}

func (h *Handler) BlogList(w http.ResponseWriter, r *http.Request) {
	posts, _ := h.d.Content.PublishedPosts(r.Context())
	h.render(w, "blog_list.tmpl", map[string]any{
		"Title": "Blog",
		"User":  h.currentUser(r),
		"Posts": posts,
	})
}

func (h *Handler) BlogPost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	post, err := h.d.Content.PostBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "blog_post.tmpl", map[string]any{
		"Title": post.Title,
		"User":  h.currentUser(r),
		"Post":  post,
	})
}

func (h *Handler) KBList(w http.ResponseWriter, r *http.Request) {
	articles, _ := h.d.Content.PublishedArticles(r.Context())
	// group per category for the index page
	grouped := map[string][]models.KBArticle{}
	for _, a := range articles {
		grouped[a.Category] = append(grouped[a.Category], a)
	}
	h.render(w, "kb_list.tmpl", map[string]any{
		"Title":   "Knowledge base",
		"User":    h.currentUser(r),
		"Grouped": grouped,
	})
}

func (h *Handler) KBArticle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	article, err := h.d.Content.ArticleBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "kb_article.tmpl", map[string]any{
		"Title":   article.Title,
		"User":    h.currentUser(r),
		"Article": article,
	})
}
