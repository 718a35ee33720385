package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"fixdesk/internal/auth"
	"fixdesk/internal/logs"
	"fixdesk/internal/models"
	"fixdesk/internal/repo"
	"fixdesk/internal/ticket"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, user *models.User) {
	if user.Role.IsStaff() {
		mine, _ := h.d.Tickets.ListForFixer(r.Context(), user.ID)
		available, _ := h.d.Tickets.ListAvailable(r.Context(), user.ID)
		h.render(w, "dashboard_fixer.tmpl", map[string]any{
			"Title":     "Dashboard",
			"User":      user,
			"Mine":      mine,
			"Available": available,
		})
		return
	}
	tickets, _ := h.d.Tickets.ListForClient(r.Context(), user.ID)
	h.render(w, "dashboard.tmpl", map[string]any{
		"Title":   "Dashboard",
		"User":    user,
		"Tickets": tickets,
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, user *models.User) {
	h.render(w, "profile.tmpl", map[string]any{
		"Title": "Profile",
		"User":  user,
	})
}

func (h *Handler) ProfileSubmit(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.render(w, "profile.tmpl", map[string]any{
			"Title": "Profile",
			"User":  user,
			"Error": "Name must not be empty.",
		})
		return
	}
	user.Name = name
	user.Company = strings.TrimSpace(r.FormValue("company"))
	if err := h.d.Users.Save(r.Context(), user); err != nil {
		http.Error(w, "could not save profile", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *Handler) TicketNew(w http.ResponseWriter, r *http.Request, user *models.User) {
	categories, _ := h.d.Content.ActiveCategories(r.Context())
	h.render(w, "ticket_new.tmpl", map[string]any{
		"Title":      "New ticket",
		"User":       user,
		"Categories": categories,
	})
}

func (h *Handler) TicketNewSubmit(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	var categoryID *uint
	if v := r.FormValue("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			cid := uint(id)
			categoryID = &cid
		}
	}
	t, err := h.d.Svc.Create(r.Context(), user, ticket.CreateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		CategoryID:  categoryID,
		Priority:    r.FormValue("priority"),
	})
	if err != nil {
		categories, _ := h.d.Content.ActiveCategories(r.Context())
		h.render(w, "ticket_new.tmpl", map[string]any{
			"Title":      "New ticket",
			"User":       user,
			"Categories": categories,
			"Error":      "Please fill in a title and a description.",
			"Form":       r.Form,
		})
		return
	}
	// reply-to forwarding address for the ticket; best effort
	if h.d.CF.Configured() {
		local := strings.ToLower(t.Number)
		if _, err := h.d.CF.CreateForwarding(r.Context(), local, user.Email); err != nil {
			logs.Logger.Warnf("cloudflare: forwarding for %s: %v", t.Number, err)
		}
	}
	http.Redirect(w, r, "/tickets/"+strconv.Itoa(int(t.ID)), http.StatusSeeOther)
}

func (h *Handler) TicketDetail(w http.ResponseWriter, r *http.Request, user *models.User) {
	t, ok := h.loadTicket(w, r, user)
	if !ok {
		return
	}
	// clients never see internal messages
	messages, _ := h.d.Tickets.Messages(r.Context(), t.ID, !user.Role.IsStaff())

	var notes []models.TicketNote
	var timeLogs []models.TimeLog
	if user.Role.IsStaff() {
		notes, _ = h.d.Tickets.Notes(r.Context(), t.ID)
		timeLogs, _ = h.d.Tickets.TimeLogs(r.Context(), t.ID)
	}
	authors := h.authorNames(r, messages, notes)

	h.render(w, "ticket_detail.tmpl", map[string]any{
		"Title":    t.Number,
		"User":     user,
		"Ticket":   t,
		"Messages": messages,
		"Notes":    notes,
		"TimeLogs": timeLogs,
		"Authors":  authors,
		"Statuses": []string{models.StatusOpen, models.StatusInProgress, models.StatusResolved, models.StatusClosed},
	})
}

func (h *Handler) TicketMessage(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	internal := r.FormValue("is_internal") == "on"
	_, err := h.d.Svc.AddMessage(r.Context(), user, id, r.FormValue("content"), internal)
	h.workflowResult(w, r, id, err)
}

func (h *Handler) TicketNote(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	_, err := h.d.Svc.AddNote(r.Context(), user, id, r.FormValue("content"))
	h.workflowResult(w, r, id, err)
}

func (h *Handler) TicketTime(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	hours, _ := strconv.Atoi(r.FormValue("hours"))
	minutes, _ := strconv.Atoi(r.FormValue("minutes"))
	_, err := h.d.Svc.LogTime(r.Context(), user, id, hours, minutes, r.FormValue("description"))
	h.workflowResult(w, r, id, err)
}

func (h *Handler) TicketClaim(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}
	_, err := h.d.Svc.Claim(r.Context(), user, id)
	h.workflowResult(w, r, id, err)
}

func (h *Handler) TicketStatus(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	_, err := h.d.Svc.UpdateStatus(r.Context(), user, id, r.FormValue("status"))
	h.workflowResult(w, r, id, err)
}

// ---------- helpers ----------

func (h *Handler) ticketID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) loadTicket(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Ticket, bool) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return nil, false
	}
	t, err := h.d.Tickets.GetByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	if !auth.CanAccess(user, t) {
		http.Error(w, "access denied to this ticket", http.StatusForbidden)
		return nil, false
	}
	return t, true
}

// workflowResult maps service errors onto the error taxonomy and
// otherwise bounces back to the ticket page.
func (h *Handler) workflowResult(w http.ResponseWriter, r *http.Request, ticketID uint, err error) {
	switch {
	case err == nil:
		http.Redirect(w, r, "/tickets/"+strconv.Itoa(int(ticketID)), http.StatusSeeOther)
	case errors.Is(err, repo.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, auth.ErrForbidden):
		http.Error(w, "access denied to this ticket", http.StatusForbidden)
	case errors.Is(err, ticket.ErrAlreadyClaimed):
		http.Error(w, "ticket is already claimed", http.StatusConflict)
	case errors.Is(err, ticket.ErrValidation):
		http.Error(w, "invalid input", http.StatusBadRequest)
	default:
		logs.Logger.Errorf("ticket workflow: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// authorNames resolves user ids referenced by the page to display
// names, one query per distinct id.
func (h *Handler) authorNames(r *http.Request, messages []models.Message, notes []models.TicketNote) map[uint]string {
	out := map[uint]string{}
	add := func(id uint) {
		if _, ok := out[id]; ok {
			return
		}
		if u, err := h.d.Users.GetByID(r.Context(), id); err == nil {
			out[id] = u.Name
		} else {
			out[id] = "unknown"
		}
	}
	for _, m := range messages {
		add(m.UserID)
	}
	for _, n := range notes {
		add(n.UserID)
	}
	return out
}
