package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fixdesk/internal/logs"
)

const baseURL = "https://api.cloudflare.com/client/v4"

// Client manages email-routing rules so each ticket gets a forwarding
// address like tkt-20260828-4f09a1c3@example.com. Unconfigured means
// every call is a no-op; routing is convenience, never load-bearing.
type Client struct {
	apiKey      string
	accountID   string
	zoneID      string
	emailDomain string
	http        *http.Client
}

func New(apiKey, accountID, zoneID, emailDomain string) *Client {
	return &Client{
		apiKey:      apiKey,
		accountID:   accountID,
		zoneID:      zoneID,
		emailDomain: emailDomain,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.accountID != "" && c.zoneID != "" && c.emailDomain != ""
}

type routingRule struct {
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Matchers []struct {
		Field string `json:"field"`
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"matchers"`
	Actions []struct {
		Type  string   `json:"type"`
		Value []string `json:"value"`
	} `json:"actions"`
}

type ruleResponse struct {
	Success bool `json:"success"`
	Result  struct {
		ID string `json:"id"`
	} `json:"result"`
}

// CreateForwarding adds a rule forwarding local@emailDomain to the
// destination address and returns the rule id.
func (c *Client) CreateForwarding(ctx context.Context, local, destination string) (string, error) {
	if !c.Configured() {
		logs.Logger.Debug("cloudflare: not configured, skipping forwarding rule")
		return "", nil
	}
	rule := routingRule{Name: "ticket-" + local, Enabled: true}
	rule.Matchers = append(rule.Matchers, struct {
		Field string `json:"field"`
		Type  string `json:"type"`
		Value string `json:"value"`
	}{Field: "to", Type: "literal", Value: local + "@" + c.emailDomain})
	rule.Actions = append(rule.Actions, struct {
		Type  string   `json:"type"`
		Value []string `json:"value"`
	}{Type: "forward", Value: []string{destination}})

	url := fmt.Sprintf("%s/zones/%s/email/routing/rules", baseURL, c.zoneID)
	var out ruleResponse
	if err := c.do(ctx, http.MethodPost, url, rule, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", fmt.Errorf("cloudflare: rule creation rejected")
	}
	return out.Result.ID, nil
}

// DeleteForwarding removes a previously created rule.
func (c *Client) DeleteForwarding(ctx context.Context, ruleID string) error {
	if !c.Configured() || ruleID == "" {
		return nil
	}
	url := fmt.Sprintf("%s/zones/%s/email/routing/rules/%s", baseURL, c.zoneID, ruleID)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("cloudflare: API status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
