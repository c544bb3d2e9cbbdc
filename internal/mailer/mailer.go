package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Mailer envia e-mails transacionais.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Message descreve uma notificação por e-mail.
type Message struct {
	Subject string
	Text    string
	ReplyTo string
}

// HTTPMailer envia via API HTTP (formato compatível com Resend).
type HTTPMailer struct {
	endpoint string
	apiKey   string
	from     string
	to       string
	client   *http.Client
}

// NewHTTPMailer cria o cliente de e-mail; retorna nil sem credenciais.
func NewHTTPMailer(endpoint, apiKey, from, to string) *HTTPMailer {
	if apiKey == "" || to == "" {
		return nil
	}
	return &HTTPMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		to:       to,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send dispara o e-mail; o chamador decide se a falha é fatal.
func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	if m == nil || m.apiKey == "" {
		return errors.New("mailer não configurado")
	}

	payload := map[string]any{
		"from":    m.from,
		"to":      []string{m.to},
		"subject": msg.Subject,
		"text":    msg.Text,
	}
	if msg.ReplyTo != "" {
		payload["reply_to"] = msg.ReplyTo
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New("envio de e-mail falhou")
	}
	return nil
}
