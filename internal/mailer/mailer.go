package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const sendgridMailEndpoint = "https://api.sendgrid.com/v3/mail/send"

// Mailer dispatches outbound email. Delivery failures are user-visible but
// callers treat the mailer as a side channel, never a transactional member.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendgridMailer sends plain text mail through the SendGrid v3 API.
type SendgridMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
	client    *http.Client
}

func NewSendgridMailer(apiKey, fromEmail, fromName string) *SendgridMailer {
	return &SendgridMailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    http.DefaultClient,
	}
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, body string) error {
	payload := sgMailPayload{
		Personalizations: []sgPersonalization{{
			To: []sgAddress{{Email: to}},
		}},
		From:    sgAddress{Email: m.fromEmail, Name: m.fromName},
		Subject: subject,
		Content: []sgContent{{Type: "text/plain", Value: body}},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal SendGrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridMailEndpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create SendGrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("SendGrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SendGrid returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// SendGrid v3 Mail Send API payload types.
type sgMailPayload struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// LogMailer writes mail to the log instead of delivering it. Used in
// development where no SendGrid key is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.InfoContext(ctx, "Outbound mail (log only)",
		"to", to,
		"subject", subject,
		"body", body)
	return nil
}

// MockMailer records sent mail in memory (for testing)
type MockMailer struct {
	Sent    []MockMail
	FailErr error
}

type MockMail struct {
	To      string
	Subject string
	Body    string
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.FailErr != nil {
		return m.FailErr
	}
	m.Sent = append(m.Sent, MockMail{To: to, Subject: subject, Body: body})
	return nil
}
