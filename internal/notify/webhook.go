package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Webhook fires a GET request carrying the hosted URL as a query parameter.
type Webhook struct {
	Endpoint string
	// Param is the query parameter name, "url" when empty.
	Param  string
	Client *http.Client
}

func NewWebhook(endpoint, param string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{Endpoint: endpoint, Param: param, Client: &http.Client{Timeout: timeout}}
}

// TriggerURL returns the endpoint with the escaped hosted URL appended.
func (w *Webhook) TriggerURL(hosted string) (string, error) {
	u, err := url.Parse(w.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse webhook endpoint: %w", err)
	}
	param := w.Param
	if param == "" {
		param = "url"
	}
	q := u.Query()
	q.Set(param, hosted)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (w *Webhook) Notify(ctx context.Context, e Event) error {
	target, err := w.TriggerURL(e.URL)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w %d from webhook", ErrStatus, resp.StatusCode)
	}
	return nil
}
