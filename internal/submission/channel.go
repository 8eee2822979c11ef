// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package submission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Channel names accepted in the configured channel list.
const (
	ChannelWebhook   = "webhook"
	ChannelMailto    = "mailto"
	ChannelClipboard = "clipboard"
)

// ChannelUndelivered is recorded when every channel failed. The draft is
// kept and the ambassador is offered the text to send by hand.
const ChannelUndelivered = "undelivered"

// Result describes a delivered submission. Mailto and clipboard results
// carry something for the browser to act on.
type Result struct {
	Channel   string
	MailtoURL string // set by the mailto channel
	Text      string // set by the clipboard channel
}

// Channel delivers a draft.
type Channel interface {
	Name() string
	Send(ctx context.Context, d Draft) (Result, error)
}

// Mailto builds a pre-filled email draft link.
type Mailto struct {
	To string
}

func (m Mailto) Name() string { return ChannelMailto }

// Send returns the mailto URL. It fails only when no recipient is set.
func (m Mailto) Send(_ context.Context, d Draft) (Result, error) {
	if strings.TrimSpace(m.To) == "" {
		return Result{}, errors.New("mailto: no recipient configured")
	}
	return Result{Channel: ChannelMailto, MailtoURL: MailtoURL(m.To, Subject, d.Text)}, nil
}

// MailtoURL returns mailto:{to}?subject=…&body=… with subject and body
// percent-encoded and spaces as %20.
func MailtoURL(to, subject, body string) string {
	return "mailto:" + to + "?subject=" + encode(subject) + "&body=" + encode(body)
}

func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Clipboard hands the composed text to the page for a copy button. It
// always succeeds and is meant as the last channel in the chain.
type Clipboard struct{}

func (Clipboard) Name() string { return ChannelClipboard }

func (Clipboard) Send(_ context.Context, d Draft) (Result, error) {
	return Result{Channel: ChannelClipboard, Text: d.Text}, nil
}

// Webhook POSTs the JSON payload to a URL.
type Webhook struct {
	url    string
	expr   string
	client *http.Client
}

// NewWebhook creates a webhook channel. expr optionally reshapes the
// payload (see Draft.Payload). A zero timeout falls back to 8 seconds.
func NewWebhook(target, expr string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Webhook{url: target, expr: expr, client: &http.Client{Timeout: timeout}}
}

func (w *Webhook) Name() string { return ChannelWebhook }

// Send posts the payload. Any non-2xx status is an error.
func (w *Webhook) Send(ctx context.Context, d Draft) (Result, error) {
	if w.url == "" {
		return Result{}, errors.New("webhook: no url configured")
	}

	body, err := d.Payload(w.expr)
	if err != nil {
		return Result{}, fmt.Errorf("webhook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("webhook http: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return Result{Channel: ChannelWebhook}, nil
}

// Options configures the channels built by NewChannels.
type Options struct {
	Email          string
	WebhookURL     string
	WebhookTimeout time.Duration
	PayloadExpr    string
}

// NewChannels builds channels in the order given by names. A webhook
// without a URL is skipped. Unknown names are an error.
func NewChannels(names []string, opts Options) ([]Channel, error) {
	var out []Channel
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ChannelWebhook:
			if opts.WebhookURL == "" {
				slog.Info("webhook channel disabled: no WEBHOOK_URL")
				continue
			}
			if err := ValidateExpr(opts.PayloadExpr); err != nil {
				return nil, err
			}
			out = append(out, NewWebhook(opts.WebhookURL, opts.PayloadExpr, opts.WebhookTimeout))
		case ChannelMailto:
			out = append(out, Mailto{To: opts.Email})
		case ChannelClipboard:
			out = append(out, Clipboard{})
		case "":
		default:
			return nil, fmt.Errorf("unknown submission channel %q", name)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no submission channels configured")
	}
	return out, nil
}

// Dispatcher tries channels in order until one succeeds.
type Dispatcher struct {
	channels []Channel
}

// NewDispatcher creates a dispatcher over channels.
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Channels returns the names of the configured channels in order.
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, c := range d.channels {
		names[i] = c.Name()
	}
	return names
}

// Submit sends the draft over the first channel that succeeds. When all
// channels fail the returned error joins every failure.
func (d *Dispatcher) Submit(ctx context.Context, draft Draft) (Result, error) {
	if len(d.channels) == 0 {
		return Result{}, errors.New("no submission channels configured")
	}

	var errs []error
	for _, c := range d.channels {
		res, err := c.Send(ctx, draft)
		if err == nil {
			slog.Info("submission delivered", "channel", c.Name(), "slug", draft.Profile.Slug)
			return res, nil
		}
		slog.Warn("submission channel failed", "channel", c.Name(), "slug", draft.Profile.Slug, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
	}
	return Result{}, errors.Join(errs...)
}
