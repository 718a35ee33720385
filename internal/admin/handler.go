package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"fixdesk/internal/logs"
	"fixdesk/internal/models"
	"fixdesk/internal/repo"
	"fixdesk/internal/ticket"
)

type Handler struct {
	d Dependencies
	t pageTemplates
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
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// adminActor returns the acting admin account for workflow mutations,
// creating it on first use.
func (h *Handler) adminActor(ctx context.Context) (*models.User, error) {
	u, err := h.d.Users.GetByEmail(ctx, "admin@"+strings.ToLower(h.d.CFG.App.Name))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	u = &models.User{
		Email:    "admin@" + strings.ToLower(h.d.CFG.App.Name),
		Name:     "Admin",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := h.d.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id)
}

// ---------- dashboard ----------

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, _ := h.d.Tickets.CountByStatus(r.Context())
	leads, _ := h.d.Content.Leads(r.Context())
	var newLeads int
	for _, l := range leads {
		if l.Status == models.LeadNew {
			newLeads++
		}
	}
	users, _ := h.d.Users.List(r.Context())
	h.render(w, "dashboard.tmpl", map[string]any{
		"Title":    "Dashboard",
		"Counts":   counts,
		"NewLeads": newLeads,
		"Users":    len(users),
	})
}

// ---------- tickets ----------

func (h *Handler) TicketsList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	tickets, _ := h.d.Tickets.ListAll(r.Context(), status)
	h.render(w, "tickets_list.tmpl", map[string]any{
		"Title":    "Tickets",
		"Rows":     tickets,
		"Status":   status,
		"Statuses": []string{models.StatusOpen, models.StatusInProgress, models.StatusResolved, models.StatusClosed},
	})
}

func (h *Handler) TicketDetail(w http.ResponseWriter, r *http.Request) {
	t, err := h.d.Tickets.GetByID(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	client, _ := h.d.Users.GetByID(r.Context(), t.ClientID)
	var fixer *models.User
	if t.FixerID != nil {
		fixer, _ = h.d.Users.GetByID(r.Context(), *t.FixerID)
	}
	messages, _ := h.d.Tickets.Messages(r.Context(), t.ID, false)
	notes, _ := h.d.Tickets.Notes(r.Context(), t.ID)
	timeLogs, _ := h.d.Tickets.TimeLogs(r.Context(), t.ID)
	h.render(w, "ticket_detail.tmpl", map[string]any{
		"Title":    t.Number,
		"Ticket":   t,
		"Client":   client,
		"Fixer":    fixer,
		"Messages": messages,
		"Notes":    notes,
		"TimeLogs": timeLogs,
	})
}

func (h *Handler) TicketEdit(w http.ResponseWriter, r *http.Request) {
	t, err := h.d.Tickets.GetByID(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	fixers := h.staff(r.Context())
	var fixerID uint
	if t.FixerID != nil {
		fixerID = *t.FixerID
	}
	h.render(w, "ticket_edit.tmpl", map[string]any{
		"Title":    "Edit " + t.Number,
		"Ticket":   t,
		"FixerID":  fixerID,
		"Fixers":   fixers,
		"Statuses": []string{models.StatusOpen, models.StatusInProgress, models.StatusResolved, models.StatusClosed},
	})
}

// TicketEditSubmit lets the admin adjust metadata directly, but routes
// the status change through the workflow so closed_at upkeep and the
// client notification stay in one place.
func (h *Handler) TicketEditSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	t, err := h.d.Tickets.GetByID(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	t.Title = strings.TrimSpace(r.FormValue("title"))
	if p := r.FormValue("priority"); models.ValidPriority(p) {
		t.Priority = p
	}
	if v := r.FormValue("fixer_id"); v == "" {
		t.FixerID = nil
	} else if id, err := strconv.ParseUint(v, 10, 64); err == nil {
		fid := uint(id)
		t.FixerID = &fid
	}
	if v := r.FormValue("estimated_hours"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			t.EstimatedHours = f
		}
	}
	if err := h.d.Tickets.Save(r.Context(), t); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if s := r.FormValue("status"); s != "" && s != t.Status {
		actor, err := h.adminActor(r.Context())
		if err == nil {
			if _, err := h.d.Svc.UpdateStatus(r.Context(), actor, t.ID, s); err != nil {
				logs.Logger.Warnf("admin: status update for %s: %v", t.Number, err)
			}
		}
	}
	http.Redirect(w, r, "/admin/tickets/"+strconv.Itoa(int(t.ID)), http.StatusFound)
}

func (h *Handler) TicketMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	actor, err := h.adminActor(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	id := pathID(r)
	internal := r.FormValue("is_internal") == "on"
	if _, err := h.d.Svc.AddMessage(r.Context(), actor, id, r.FormValue("content"), internal); err != nil {
		h.workflowError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/tickets/"+strconv.Itoa(int(id)), http.StatusFound)
}

func (h *Handler) TicketTime(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	actor, err := h.adminActor(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	id := pathID(r)
	hours, _ := strconv.Atoi(r.FormValue("hours"))
	minutes, _ := strconv.Atoi(r.FormValue("minutes"))
	if _, err := h.d.Svc.LogTime(r.Context(), actor, id, hours, minutes, r.FormValue("description")); err != nil {
		h.workflowError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/tickets/"+strconv.Itoa(int(id)), http.StatusFound)
}

func (h *Handler) TicketDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.adminActor(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.d.Svc.Delete(r.Context(), actor, pathID(r)); err != nil {
		h.workflowError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/tickets", http.StatusFound)
}

func (h *Handler) workflowError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, ticket.ErrValidation):
		http.Error(w, "invalid input", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ---------- users ----------

func (h *Handler) UsersList(w http.ResponseWriter, r *http.Request) {
	users, _ := h.d.Users.List(r.Context())
	h.render(w, "users_list.tmpl", map[string]any{
		"Title": "Users",
		"Rows":  users,
	})
}

func (h *Handler) UserEdit(w http.ResponseWriter, r *http.Request) {
	u, err := h.d.Users.GetByID(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "user_edit.tmpl", map[string]any{
		"Title": "Edit user",
		"U":     u,
		"Roles": []models.Role{models.RoleClient, models.RoleFixer, models.RoleAdmin},
	})
}

func (h *Handler) UserEditSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	u, err := h.d.Users.GetByID(r.Context(), pathID(r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	u.Name = strings.TrimSpace(r.FormValue("name"))
	u.Company = strings.TrimSpace(r.FormValue("company"))
	u.Role = models.ParseRole(r.FormValue("role"))
	u.IsActive = r.FormValue("is_active") == "on"
	if err := h.d.Users.Save(r.Context(), u); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusFound)
}

func (h *Handler) UserDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Users.Delete(r.Context(), pathID(r)); err != nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusFound)
}

func (h *Handler) staff(ctx context.Context) []models.User {
	users, _ := h.d.Users.List(ctx)
	var out []models.User
	for _, u := range users {
		if u.Role.IsStaff() {
			out = append(out, u)
		}
	}
	return out
}
