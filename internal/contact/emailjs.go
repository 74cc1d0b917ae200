package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// DefaultEmailJSEndpoint is the provider's REST endpoint.
const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSSender delivers through the EmailJS transactional-mail service,
// identified by a service id, template id and public key.
type EmailJSSender struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Endpoint   string
	Client     *http.Client
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (s *EmailJSSender) Name() string { return "emailjs" }

// Send posts the submission as template parameters. A non-2xx response fails
// with the provider's error text.
func (s *EmailJSSender) Send(ctx context.Context, sub Submission) error {
	if s.ServiceID == "" || s.TemplateID == "" || s.PublicKey == "" {
		return ErrNotConfigured
	}
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEmailJSEndpoint
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	payload, err := json.Marshal(emailJSRequest{
		ServiceID:  s.ServiceID,
		TemplateID: s.TemplateID,
		UserID:     s.PublicKey,
		TemplateParams: map[string]string{
			"name":    sub.Name,
			"email":   sub.Email,
			"subject": sub.Subject,
			"message": sub.Message,
			"time":    sub.Timestamp,
		},
	})
	if err != nil {
		return errors.Wrap(err, "encoding emailjs request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "building emailjs request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "emailjs")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = resp.Status
		}
		return errors.Errorf("emailjs: %s", msg)
	}
	return nil
}
