package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Mailer sends transactional email. Failures are expected to be logged by
// callers, never to fail the surrounding request.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// HTTPMailer posts messages to a transactional email provider's HTTP API.
type HTTPMailer struct {
	http *resty.Client
	from string
	log  *zap.Logger
}

func NewHTTPMailer(apiURL, apiKey, from string, log *zap.Logger) *HTTPMailer {
	c := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(1).
		SetHeader("Authorization", "Bearer "+apiKey)
	return &HTTPMailer{http: c, from: from, log: log}
}

type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (m *HTTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	resp, err := m.http.R().
		SetContext(ctx).
		SetBody(message{From: m.from, To: to, Subject: subject, HTML: htmlBody}).
		Post("")
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send mail: provider returned %d", resp.StatusCode())
	}
	m.log.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// Noop discards mail; used when no provider is configured.
type Noop struct {
	Log *zap.Logger
}

func (n *Noop) Send(_ context.Context, to, subject, _ string) error {
	if n.Log != nil {
		n.Log.Info("mail provider not configured, dropping message",
			zap.String("to", to), zap.String("subject", subject))
	}
	return nil
}
