package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fixdesk/internal/logs"
	"fixdesk/internal/models"
)

const resendEndpoint = "https://api.resend.com/emails"

// Mailer sends transactional mail through the Resend HTTP API and
// implements ticket.Notifier. Without an API key every send is a
// logged no-op; send failures are logged and swallowed so a broken
// mail provider never rolls back the mutation that triggered it.
type Mailer struct {
	apiKey  string
	from    string
	appName string
	appURL  string
	client  *http.Client
}

func New(apiKey, from, appName, appURL string) *Mailer {
	return &Mailer{
		apiKey:  apiKey,
		from:    from,
		appName: appName,
		appURL:  appURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *Mailer) configured() bool { return m.apiKey != "" }

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) {
	if !m.configured() {
		logs.Logger.Debugf("mail: no API key, skipping %q to %s", subject, to)
		return
	}
	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		logs.Logger.Errorf("mail: marshal: %v", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		logs.Logger.Errorf("mail: request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		logs.Logger.Errorf("mail: send to %s: %v", to, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		logs.Logger.Errorf("mail: resend API status %d for %s", resp.StatusCode, to)
		return
	}
	logs.Logger.Infof("mail: sent %q to %s", subject, to)
}

// SendMagicLink delivers the single-use login link.
func (m *Mailer) SendMagicLink(ctx context.Context, email, name, token string) {
	link := fmt.Sprintf("%s/auth/verify/%s", m.appURL, token)
	html := fmt.Sprintf(
		`<h2>Welcome, %s</h2>`+
			`<p>Click the button below to sign in to your %s account:</p>`+
			`<p><a href="%s">Sign in</a></p>`+
			`<p>Or copy this link into your browser:<br>%s</p>`+
			`<p>The link is valid for 24 hours. If you did not request it you can ignore this message.</p>`,
		name, m.appName, link, link)
	m.send(ctx, email, "Your sign-in link for "+m.appName, html)
}

func (m *Mailer) TicketCreated(ctx context.Context, t *models.Ticket, clientEmail string) {
	url := m.ticketURL(t)
	html := fmt.Sprintf(
		`<h2>Ticket created</h2>`+
			`<p><strong>%s — %s</strong></p>`+
			`<p>Status: %s<br>Priority: %s</p>`+
			`<p style="white-space:pre-wrap">%s</p>`+
			`<p><a href="%s">View ticket</a></p>`,
		t.Number, t.Title, t.Status, t.Priority, t.Description, url)
	m.send(ctx, clientEmail, fmt.Sprintf("New ticket %s: %s", t.Number, t.Title), html)
}

func (m *Mailer) TicketStatusChanged(ctx context.Context, t *models.Ticket, clientEmail, newStatus string) {
	url := m.ticketURL(t)
	html := fmt.Sprintf(
		`<h2>Ticket updated</h2>`+
			`<p><strong>%s — %s</strong></p>`+
			`<p>New status: %s</p>`+
			`<p><a href="%s">View ticket</a></p>`,
		t.Number, t.Title, newStatus, url)
	m.send(ctx, clientEmail, fmt.Sprintf("Update on ticket %s: %s", t.Number, t.Title), html)
}

func (m *Mailer) MessagePosted(ctx context.Context, t *models.Ticket, msg *models.Message, authorName, clientEmail string) {
	url := m.ticketURL(t)
	html := fmt.Sprintf(
		`<h2>New reply</h2>`+
			`<p><strong>%s — %s</strong></p>`+
			`<p>From: %s</p>`+
			`<p style="white-space:pre-wrap">%s</p>`+
			`<p><a href="%s">View ticket</a></p>`,
		t.Number, t.Title, authorName, msg.Content, url)
	m.send(ctx, clientEmail, fmt.Sprintf("New reply on ticket %s: %s", t.Number, t.Title), html)
}

// LeadSubmitted notifies the configured from-address, which doubles as
// the back-office inbox.
func (m *Mailer) LeadSubmitted(ctx context.Context, l *models.Lead) {
	html := fmt.Sprintf(
		`<h2>New lead</h2>`+
			`<p>Name: %s<br>Email: %s<br>Company: %s<br>Phone: %s</p>`+
			`<p style="white-space:pre-wrap">%s</p>`,
		l.Name, l.Email, l.Company, l.Phone, l.Message)
	m.send(ctx, m.from, "New lead: "+l.Name, html)
}

func (m *Mailer) ticketURL(t *models.Ticket) string {
	return fmt.Sprintf("%s/tickets/%d", m.appURL, t.ID)
}
