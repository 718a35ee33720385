package admin

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fixdesk/internal/models"
)

// ---------- categories ----------

func (h *Handler) CategoriesList(w http.ResponseWriter, r *http.Request) {
	rows, _ := h.d.Content.Categories(r.Context())
	h.render(w, "categories_list.tmpl", map[string]any{"Title": "Categories", "Rows": rows})
}

func (h *Handler) CategoryNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, "category_edit.tmpl", map[string]any{"Title": "New category", "IsNew": true})
}

func (h *Handler) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	c, err := h.d.Content.GetCategory(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "category_edit.tmpl", map[string]any{"Title": "Edit category", "C": c})
}

// CategorySubmit handles both create and update; the id in the path
// decides which.
func (h *Handler) CategorySubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	c := &models.Category{}
	if id := pathID(r); id != 0 {
		existing, err := h.d.Content.GetCategory(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		c = existing
	}
	c.Name = strings.TrimSpace(r.FormValue("name"))
	c.Description = strings.TrimSpace(r.FormValue("description"))
	c.Icon = strings.TrimSpace(r.FormValue("icon"))
	c.SortOrder, _ = strconv.Atoi(r.FormValue("sort_order"))
	c.IsActive = r.FormValue("is_active") == "on"
	if c.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := h.d.Content.SaveCategory(r.Context(), c); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusFound)
}

func (h *Handler) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	_ = h.d.Content.DeleteCategory(r.Context(), pathID(r))
	http.Redirect(w, r, "/admin/categories", http.StatusFound)
}

// ---------- blog ----------

func (h *Handler) BlogList(w http.ResponseWriter, r *http.Request) {
	rows, _ := h.d.Content.Posts(r.Context())
	h.render(w, "blog_list.tmpl", map[string]any{"Title": "Blog", "Rows": rows})
}

func (h *Handler) BlogNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, "blog_edit.tmpl", map[string]any{"Title": "New post", "IsNew": true})
}

func (h *Handler) BlogEdit(w http.ResponseWriter, r *http.Request) {
	p, err := h.d.Content.GetPost(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "blog_edit.tmpl", map[string]any{"Title": "Edit post", "P": p})
}

func (h *Handler) BlogSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	p := &models.BlogPost{}
	if id := pathID(r); id != 0 {
		existing, err := h.d.Content.GetPost(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		p = existing
	}
	p.Title = strings.TrimSpace(r.FormValue("title"))
	p.Content = r.FormValue("content")
	p.Excerpt = strings.TrimSpace(r.FormValue("excerpt"))
	p.ImageURL = strings.TrimSpace(r.FormValue("image_url"))
	if p.Title == "" || p.Content == "" {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Title)
	}
	published := r.FormValue("is_published") == "on"
	if published && !p.IsPublished {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	p.IsPublished = published
	if err := h.d.Content.SavePost(r.Context(), p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/blog", http.StatusFound)
}

func (h *Handler) BlogDelete(w http.ResponseWriter, r *http.Request) {
	_ = h.d.Content.DeletePost(r.Context(), pathID(r))
	http.Redirect(w, r, "/admin/blog", http.StatusFound)
}

// ---------- knowledge base ----------

func (h *Handler) KBList(w http.ResponseWriter, r *http.Request) {
	rows, _ := h.d.Content.Articles(r.Context())
	h.render(w, "kb_list.tmpl", map[string]any{"Title": "Knowledge base", "Rows": rows})
}

func (h *Handler) KBNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, "kb_edit.tmpl", map[string]any{"Title": "New article", "IsNew": true})
}

func (h *Handler) KBEdit(w http.ResponseWriter, r *http.Request) {
	a, err := h.d.Content.GetArticle(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "kb_edit.tmpl", map[string]any{"Title": "Edit article", "A": a})
}

func (h *Handler) KBSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	a := &models.KBArticle{}
	if id := pathID(r); id != 0 {
		existing, err := h.d.Content.GetArticle(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		a = existing
	}
	a.Title = strings.TrimSpace(r.FormValue("title"))
	a.Content = r.FormValue("content")
	a.Category = strings.TrimSpace(r.FormValue("category"))
	a.IsPublished = r.FormValue("is_published") == "on"
	if a.Title == "" || a.Content == "" {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}
	if a.Slug == "" {
		a.Slug = slugify(a.Title)
	}
	if err := h.d.Content.SaveArticle(r.Context(), a); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/kb", http.StatusFound)
}

func (h *Handler) KBDelete(w http.ResponseWriter, r *http.Request) {
	_ = h.d.Content.DeleteArticle(r.Context(), pathID(r))
	http.Redirect(w, r, "/admin/kb", http.StatusFound)
}

// ---------- leads ----------

func (h *Handler) LeadsList(w http.ResponseWriter, r *http.Request) {
	rows, _ := h.d.Content.Leads(r.Context())
	h.render(w, "leads_list.tmpl", map[string]any{"Title": "Leads", "Rows": rows})
}

func (h *Handler) LeadEdit(w http.ResponseWriter, r *http.Request) {
	l, err := h.d.Content.GetLead(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "lead_edit.tmpl", map[string]any{
		"Title":    "Lead",
		"L":        l,
		"Statuses": []string{models.LeadNew, models.LeadContacted, models.LeadConverted, models.LeadDropped},
	})
}

func (h *Handler) LeadEditSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	l, err := h.d.Content.GetLead(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	switch s := r.FormValue("status"); s {
	case models.LeadNew, models.LeadContacted, models.LeadConverted, models.LeadDropped:
		l.Status = s
	}
	if err := h.d.Content.SaveLead(r.Context(), l); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/leads", http.StatusFound)
}

func (h *Handler) LeadDelete(w http.ResponseWriter, r *http.Request) {
	_ = h.d.Content.DeleteLead(r.Context(), pathID(r))
	http.Redirect(w, r, "/admin/leads", http.StatusFound)
}

// ---------- testimonials ----------

func (h *Handler) TestimonialsList(w http.ResponseWriter, r *http.Request) {
	rows, _ := h.d.Content.Testimonials(r.Context())
	h.render(w, "testimonials_list.tmpl", map[string]any{"Title": "Testimonials", "Rows": rows})
}

func (h *Handler) TestimonialNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, "testimonial_edit.tmpl", map[string]any{"Title": "New testimonial", "IsNew": true})
}

func (h *Handler) TestimonialEdit(w http.ResponseWriter, r *http.Request) {
	t, err := h.d.Content.GetTestimonial(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "testimonial_edit.tmpl", map[string]any{"Title": "Edit testimonial", "T": t})
}

func (h *Handler) TestimonialSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	t := &models.Testimonial{}
	if id := pathID(r); id != 0 {
		existing, err := h.d.Content.GetTestimonial(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		t = existing
	}
	t.Name = strings.TrimSpace(r.FormValue("name"))
	t.Company = strings.TrimSpace(r.FormValue("company"))
	t.Content = strings.TrimSpace(r.FormValue("content"))
	t.Rating, _ = strconv.Atoi(r.FormValue("rating"))
	if t.Rating < 0 || t.Rating > 5 {
		t.Rating = 0
	}
	t.IsPublished = r.FormValue("is_published") == "on"
	if t.Name == "" || t.Content == "" {
		http.Error(w, "name and content are required", http.StatusBadRequest)
		return
	}
	if err := h.d.Content.SaveTestimonial(r.Context(), t); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/testimonials", http.StatusFound)
}

func (h *Handler) TestimonialDelete(w http.ResponseWriter, r *http.Request) {
	_ = h.d.Content.DeleteTestimonial(r.Context(), pathID(r))
	http.Redirect(w, r, "/admin/testimonials", http.StatusFound)
}

// ---------- settings ----------

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	rows, _ := h.d.Content.Settings(r.Context())
	h.render(w, "settings.tmpl", map[string]any{"Title": "Settings", "Rows": rows})
}

func (h *Handler) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	key := strings.TrimSpace(r.FormValue("key"))
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}
	if err := h.d.Content.SetSetting(r.Context(), key, r.FormValue("value")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/settings", http.StatusFound)
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
