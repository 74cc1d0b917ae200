package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeyunjks/portfolio/internal/store"
)

type fakeSender struct {
	err  error
	sent []Submission
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(_ context.Context, s Submission) error {
	f.sent = append(f.sent, s)
	return f.err
}

type fakeRecorder struct {
	msgs []*store.Message
}

func (f *fakeRecorder) RecordMessage(_ context.Context, m *store.Message) error {
	f.msgs = append(f.msgs, m)
	return nil
}

func filledForm() *Form {
	return &Form{Fields: Fields{
		Name:    " Ada ",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "Nice work",
	}}
}

func TestFormSubmitSuccessClearsFields(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, nil, ServiceConfig{})
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	f := filledForm()
	sub := f.Begin(now)
	f.Complete(svc.Submit(context.Background(), "1.2.3.4", sub))

	require.Len(t, sender.sent, 1)
	got := sender.sent[0]
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, "Nice work", got.Message)
	assert.Equal(t, "Wed, 01 May 2024 10:30:00 UTC", got.Timestamp)

	assert.Equal(t, Fields{}, f.Fields)
	assert.True(t, f.Status.Shown())
	assert.False(t, f.Status.Failed())
	assert.Equal(t, Confirmation, f.Status.Message())
}

func TestFormSubmitFailureKeepsFields(t *testing.T) {
	sender := &fakeSender{err: errors.Wrap(errors.New("quota exceeded"), "emailjs")}
	svc := NewService(sender, nil, ServiceConfig{})

	f := filledForm()
	before := f.Fields
	f.Complete(svc.Submit(context.Background(), "1.2.3.4", f.Begin(time.Now())))

	assert.Equal(t, before, f.Fields)
	assert.True(t, f.Status.Failed())
	assert.Contains(t, f.Status.Message(), "quota exceeded")
}

func TestSubmitIncomplete(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, nil, ServiceConfig{})

	res := svc.Submit(context.Background(), "c", Submission{Name: "Ada"})
	assert.ErrorIs(t, res.Err, ErrIncomplete)
	assert.Empty(t, sender.sent)
}

func TestSubmitRateLimited(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, nil, ServiceConfig{RatePerMinute: 1, Burst: 2})
	sub := Submission{Name: "a", Email: "a@b.c", Message: "m"}

	assert.True(t, svc.Submit(context.Background(), "c1", sub).OK())
	assert.True(t, svc.Submit(context.Background(), "c1", sub).OK())
	assert.ErrorIs(t, svc.Submit(context.Background(), "c1", sub).Err, ErrRateLimited)

	// Other clients have their own budget.
	assert.True(t, svc.Submit(context.Background(), "c2", sub).OK())
	assert.Len(t, sender.sent, 3)
}

func TestSubmitDropsIdleClients(t *testing.T) {
	svc := NewService(&fakeSender{}, nil, ServiceConfig{RatePerMinute: 1, Burst: 1})
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	sub := Submission{Name: "a", Email: "a@b.c", Message: "m"}

	for i := 0; i < 100; i++ {
		svc.Submit(context.Background(), "10.0.0."+strconv.Itoa(i), sub)
	}
	assert.Equal(t, 100, svc.tracked())

	// A client seen recently survives the sweep, the rest are dropped.
	now = now.Add(30 * time.Second)
	assert.ErrorIs(t, svc.Submit(context.Background(), "10.0.0.1", sub).Err, ErrRateLimited)
	now = now.Add(40 * time.Second)
	assert.True(t, svc.Submit(context.Background(), "10.0.0.1", sub).OK())
	assert.Equal(t, 1, svc.tracked())

	now = now.Add(5 * time.Minute)
	assert.True(t, svc.Submit(context.Background(), "fresh", sub).OK())
	assert.Equal(t, 1, svc.tracked())
}

func TestSubmitRecordsOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	sender := &fakeSender{}
	svc := NewService(sender, rec, ServiceConfig{})
	sub := Submission{Name: "a", Email: "a@b.c", Subject: "s", Message: "m"}

	ok := svc.Submit(context.Background(), "c", sub)
	sender.err = errors.New("boom")
	failed := svc.Submit(context.Background(), "c", sub)

	require.Len(t, rec.msgs, 2)
	assert.Equal(t, ok.ID, rec.msgs[0].ID)
	assert.Equal(t, store.MessageSent, rec.msgs[0].Status)
	assert.Equal(t, "m", rec.msgs[0].Body)
	assert.Equal(t, failed.ID, rec.msgs[1].ID)
	assert.Equal(t, store.MessageFailed, rec.msgs[1].Status)
	assert.Equal(t, "boom", rec.msgs[1].Error)
}

func TestSMTPSender(t *testing.T) {
	sub := Submission{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Body text", Timestamp: "now"}

	t.Run("not configured", func(t *testing.T) {
		s := NewSMTPSender("smtp.example.com", "587", "", "", "me@example.com")
		assert.ErrorIs(t, s.Send(context.Background(), sub), ErrNotConfigured)
	})

	t.Run("composes message", func(t *testing.T) {
		s := NewSMTPSender("smtp.example.com", "587", "bot@example.com", "secret", "me@example.com")
		var addr string
		var msg []byte
		s.sendMail = func(a string, _ smtp.Auth, from string, to []string, m []byte) error {
			addr = a
			msg = m
			assert.Equal(t, "bot@example.com", from)
			assert.Equal(t, []string{"me@example.com"}, to)
			return nil
		}

		require.NoError(t, s.Send(context.Background(), sub))
		assert.Equal(t, "smtp.example.com:587", addr)
		body := string(msg)
		assert.Contains(t, body, "Subject: Portfolio Contact: Hi (Ada)\r\n")
		assert.Contains(t, body, "Reply-To: ada@example.com\r\n")
		assert.Contains(t, body, "Body text")
	})

	t.Run("folds line breaks in header fields", func(t *testing.T) {
		s := NewSMTPSender("smtp.example.com", "587", "bot@example.com", "secret", "me@example.com")
		var msg []byte
		s.sendMail = func(_ string, _ smtp.Auth, _ string, _ []string, m []byte) error {
			msg = m
			return nil
		}
		evil := Submission{
			Name:    "Ada\r\nBcc: all@example.com",
			Email:   "ada@example.com\nX-Injected: yes",
			Subject: "Hi\r\nX-Injected: yes",
			Message: "line one\r\nline two",
		}

		require.NoError(t, s.Send(context.Background(), evil))
		header, body, ok := strings.Cut(string(msg), "\r\n\r\n")
		require.True(t, ok)
		for _, line := range strings.Split(header, "\r\n") {
			assert.False(t, strings.HasPrefix(line, "X-Injected"), line)
			assert.False(t, strings.HasPrefix(line, "Bcc"), line)
		}
		assert.Contains(t, header, "Subject: Portfolio Contact: Hi X-Injected: yes (Ada Bcc: all@example.com)\r\n")
		assert.Contains(t, header, "Reply-To: ada@example.com X-Injected: yes\r\n")
		assert.Contains(t, body, "line one\r\nline two")
	})

	t.Run("wraps failures", func(t *testing.T) {
		s := NewSMTPSender("smtp.example.com", "587", "bot@example.com", "secret", "me@example.com")
		s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("535 auth failed")
		}
		err := s.Send(context.Background(), sub)
		require.Error(t, err)
		assert.Equal(t, "535 auth failed", errors.Cause(err).Error())
	})
}

func TestEmailJSSender(t *testing.T) {
	sub := Submission{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Body", Timestamp: "ts"}

	t.Run("posts template params", func(t *testing.T) {
		var got emailJSRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte("OK"))
		}))
		defer srv.Close()

		s := &EmailJSSender{ServiceID: "svc", TemplateID: "tpl", PublicKey: "pk", Endpoint: srv.URL}
		require.NoError(t, s.Send(context.Background(), sub))

		assert.Equal(t, "svc", got.ServiceID)
		assert.Equal(t, "tpl", got.TemplateID)
		assert.Equal(t, "pk", got.UserID)
		assert.Equal(t, map[string]string{
			"name":    "Ada",
			"email":   "ada@example.com",
			"subject": "Hi",
			"message": "Body",
			"time":    "ts",
		}, got.TemplateParams)
	})

	t.Run("provider error text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("The Public Key is invalid"))
		}))
		defer srv.Close()

		s := &EmailJSSender{ServiceID: "svc", TemplateID: "tpl", PublicKey: "bad", Endpoint: srv.URL}
		err := s.Send(context.Background(), sub)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "The Public Key is invalid")
	})

	t.Run("not configured", func(t *testing.T) {
		s := &EmailJSSender{}
		assert.ErrorIs(t, s.Send(context.Background(), sub), ErrNotConfigured)
	})
}

func TestBreakerSenderTrips(t *testing.T) {
	inner := &fakeSender{err: errors.New("down")}
	b := NewBreakerSender(inner, 2, time.Minute)
	sub := Submission{Name: "a"}

	assert.EqualError(t, b.Send(context.Background(), sub), "down")
	assert.EqualError(t, b.Send(context.Background(), sub), "down")
	assert.Equal(t, "open", b.State())

	err := b.Send(context.Background(), sub)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "open"))
	assert.Len(t, inner.sent, 2)
	assert.Equal(t, "fake", b.Name())
}

func TestLogSender(t *testing.T) {
	var s Sender = LogSender{}
	assert.Equal(t, "log", s.Name())
	assert.NoError(t, s.Send(context.Background(), Submission{Name: "a"}))
}
