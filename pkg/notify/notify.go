// Package notify delivers run outcomes to chat, mail, webhook and script channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"os"
	"strings"
	"time"

	ntfy "github.com/go-pkgz/notify"
)

const defaultTimeout = 10 * time.Second

// Params configure the channels, filled from the notify_* config keys.
type Params struct {
	Channels   []string // telegram, slack, email, webhook, custom
	OnError    bool
	OnComplete bool
	Timeout    time.Duration // bound for one Send over all channels, default 10s
	Telegram   TelegramParams
	Slack      SlackParams
	Email      EmailParams
	Webhooks   []string
	Script     string
}

// TelegramParams address a telegram chat.
type TelegramParams struct {
	Token string
	Chat  string
}

// SlackParams address a slack channel.
type SlackParams struct {
	Token   string
	Channel string
}

// EmailParams hold the SMTP server and the addresses of the run report mail.
type EmailParams struct {
	Host     string
	Port     int
	Username string
	Password string
	StartTLS bool
	From     string
	To       []string
}

// Result is the outcome of one run as channels see it. The custom script gets it as JSON.
type Result struct {
	Status       string   `json:"status"` // "success" or "failure"
	RunID        string   `json:"run_id,omitempty"`
	Scenario     string   `json:"scenario"`
	BaseURL      string   `json:"base_url"`
	Branch       string   `json:"branch,omitempty"`
	Commit       string   `json:"commit,omitempty"`
	Duration     string   `json:"duration"`
	Passed       int      `json:"passed"`
	Failed       int      `json:"failed"`
	Blocked      int      `json:"blocked"`
	Skipped      int      `json:"skipped"`
	FailedPhases []string `json:"failed_phases,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Total is the number of phases in the run.
func (r Result) Total() int { return r.Passed + r.Failed + r.Blocked + r.Skipped }

type logger interface {
	Print(format string, args ...any)
}

// target is one go-pkgz/notify destination with the escaping its markup needs.
type target struct {
	name     string
	notifier ntfy.Notifier
	dest     string
	escape   func(string) string
}

// Service sends results to every configured target. A nil Service sends nothing.
type Service struct {
	targets    []target
	script     *scriptChannel
	onError    bool
	onComplete bool
	timeout    time.Duration
	host       string
	log        logger
}

type builder func(p Params, log logger) ([]target, error)

var builders = map[string]builder{
	"telegram": telegramTargets,
	"slack":    slackTargets,
	"email":    emailTargets,
	"webhook":  webhookTargets,
}

// New builds the Service of p. It returns nil, nil without channels and an error for
// unknown or incomplete channels.
func New(p Params, log logger) (*Service, error) {
	if len(p.Channels) == 0 {
		return nil, nil //nolint:nilnil // Send is nil-safe
	}
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	svc := &Service{onError: p.OnError, onComplete: p.OnComplete, timeout: p.Timeout, host: host, log: log}
	if svc.timeout <= 0 {
		svc.timeout = defaultTimeout
	}

	for _, raw := range p.Channels {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "custom" {
			if p.Script == "" {
				return nil, errors.New("custom channel: notify_custom_script is required")
			}
			svc.script = &scriptChannel{path: p.Script}
			continue
		}
		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown notification channel %q", raw)
		}
		targets, err := build(p, log)
		if err != nil {
			return nil, fmt.Errorf("%s channel: %w", name, err)
		}
		svc.targets = append(svc.targets, targets...)
	}
	if len(svc.targets) == 0 && svc.script == nil {
		log.Print("[WARN] no notification channel is usable")
	}
	return svc, nil
}

// Send delivers r to every target when the on_error/on_complete policy asks for it.
// Delivery errors are logged.
func (s *Service) Send(ctx context.Context, r Result) {
	if s == nil || !s.wants(r) {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg := s.message(r)
	for _, t := range s.targets {
		text := msg
		if t.escape != nil {
			text = t.escape(msg)
		}
		if err := t.notifier.Send(ctx, t.dest, text); err != nil {
			s.log.Print("[WARN] %s notification failed: %v", t.name, err)
		}
	}
	if s.script != nil {
		if err := s.script.send(ctx, r); err != nil {
			s.log.Print("[WARN] custom notification failed: %v", err)
		}
	}
}

func (s *Service) wants(r Result) bool {
	if r.Status == "success" {
		return s.onComplete
	}
	return s.onError
}

// message renders r as plain text: a headline, the run coordinates, the phase tally
// and, for failures, the failed phases with the first error indented below.
func (s *Service) message(r Result) string {
	var b strings.Builder
	verdict := "FAILED"
	if r.Status == "success" {
		verdict = "PASSED"
	}
	fmt.Fprintf(&b, "%s %s on %s\n\n", verdict, r.Scenario, s.host)

	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-9s %s\n", label, value)
		}
	}
	line("run", r.RunID)
	line("target", r.BaseURL)
	rev := r.Branch
	if r.Commit != "" {
		rev += "@" + r.Commit
	}
	line("revision", rev)

	fmt.Fprintf(&b, "%d of %d phases passed", r.Passed, r.Total())
	if r.Duration != "" {
		fmt.Fprintf(&b, " in %s", r.Duration)
	}
	if r.Passed < r.Total() {
		fmt.Fprintf(&b, " (%d failed, %d blocked, %d skipped)", r.Failed, r.Blocked, r.Skipped)
	}
	b.WriteString("\n")

	if len(r.FailedPhases) > 0 {
		fmt.Fprintf(&b, "failed: %s\n", strings.Join(r.FailedPhases, ", "))
	}
	for _, l := range strings.Split(strings.TrimSpace(r.Error), "\n") {
		if l != "" {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	return b.String()
}

// newTelegram verifies the token against the telegram API; replaced in tests.
var newTelegram = func(token string) (ntfy.Notifier, error) {
	return ntfy.NewTelegram(ntfy.TelegramParams{Token: token})
}

// telegramTargets sends HTML-mode messages, so step errors quoting selectors are escaped.
// An unreachable API disables the channel instead of failing the run.
func telegramTargets(p Params, log logger) ([]target, error) {
	tp := p.Telegram
	if tp.Token == "" || tp.Chat == "" {
		return nil, errors.New("notify_telegram_token and notify_telegram_chat are required")
	}
	tg, err := newTelegram(tp.Token)
	if err != nil {
		log.Print("[WARN] telegram channel disabled: %s", strings.ReplaceAll(err.Error(), tp.Token, "[REDACTED]"))
		return nil, nil
	}
	dest := "telegram:" + tp.Chat + "?parseMode=HTML"
	return []target{{name: "telegram", notifier: tg, dest: dest, escape: html.EscapeString}}, nil
}

// slackEscape applies the three escapes slack's mrkdwn requires.
func slackEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

func slackTargets(p Params, _ logger) ([]target, error) {
	if p.Slack.Token == "" || p.Slack.Channel == "" {
		return nil, errors.New("notify_slack_token and notify_slack_channel are required")
	}
	return []target{{name: "slack", notifier: ntfy.NewSlack(p.Slack.Token), dest: "slack:" + p.Slack.Channel, escape: slackEscape}}, nil
}

func emailTargets(p Params, _ logger) ([]target, error) {
	e := p.Email
	switch {
	case e.Host == "":
		return nil, errors.New("notify_smtp_host is required")
	case e.From == "" || len(e.To) == 0:
		return nil, errors.New("notify_email_from and notify_email_to are required")
	}
	em := ntfy.NewEmail(ntfy.SMTPParams{Host: e.Host, Port: e.Port, Username: e.Username, Password: e.Password, StartTLS: e.StartTLS})
	q := url.Values{"from": {e.From}, "subject": {"phaserun run report"}}
	dest := "mailto:" + strings.Join(e.To, ",") + "?" + q.Encode()
	return []target{{name: "email", notifier: em, dest: dest}}, nil
}

// webhookTargets posts the plain message to every url with one shared client.
func webhookTargets(p Params, _ logger) ([]target, error) {
	if len(p.Webhooks) == 0 {
		return nil, errors.New("notify_webhook_urls is required")
	}
	wh := ntfy.NewWebhook(ntfy.WebhookParams{})
	targets := make([]target, 0, len(p.Webhooks))
	for _, u := range p.Webhooks {
		if _, err := url.ParseRequestURI(u); err != nil {
			return nil, fmt.Errorf("invalid webhook url %q: %w", u, err)
		}
		targets = append(targets, target{name: "webhook", notifier: wh, dest: u})
	}
	return targets, nil
}
