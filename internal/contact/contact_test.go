package contact_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/cryptocoin/app/internal/contact"
	"github.com/cryptocoin/app/pkg/job"
	"github.com/cryptocoin/app/pkg/mailer"
)

type fakeEnqueuer struct {
	name    string
	payload any
	err     error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, name string, payload any, _ ...job.EnqueueOption) error {
	f.name = name
	f.payload = payload
	return f.err
}

type fakeSender struct {
	sent []*mailer.Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, email *mailer.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

func newRouter(jobs contact.Enqueuer) chi.Router {
	r := chi.NewRouter()
	contact.NewHandler(jobs, nil).Routes(r)
	return r
}

func TestContactSubmit(t *testing.T) {
	t.Parallel()

	t.Run("valid submission is enqueued and acknowledged", func(t *testing.T) {
		t.Parallel()

		jobs := &fakeEnqueuer{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact",
			strings.NewReader(`{"name":"Ada","email":"ada@x.com","message":"Tell me about hosting."}`))
		newRouter(jobs).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"success":true`)
		require.Contains(t, rec.Body.String(), "Message received")

		require.Equal(t, contact.TaskName, jobs.name)
		msg, ok := jobs.payload.(contact.Message)
		require.True(t, ok)
		require.Equal(t, "Ada", msg.Name)
		require.Equal(t, "Tell me about hosting.", msg.Message)
	})

	t.Run("markup is stripped before enqueueing", func(t *testing.T) {
		t.Parallel()

		jobs := &fakeEnqueuer{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact",
			strings.NewReader(`{"name":"<b>Ada</b>","email":"ada@x.com","message":"<script>x</script>hello"}`))
		newRouter(jobs).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		msg := jobs.payload.(contact.Message)
		require.Equal(t, "Ada", msg.Name)
		require.Equal(t, "hello", msg.Message)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		t.Parallel()

		jobs := &fakeEnqueuer{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact",
			strings.NewReader(`{"name":"","email":"ada@x.com","message":""}`))
		newRouter(jobs).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Invalid input")
		require.Empty(t, jobs.name)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		t.Parallel()

		jobs := &fakeEnqueuer{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact",
			strings.NewReader(`{"name":"Ada","email":"nope","message":"hi"}`))
		newRouter(jobs).ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("enqueue failure is a 500", func(t *testing.T) {
		t.Parallel()

		jobs := &fakeEnqueuer{err: errors.New("queue down")}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact",
			strings.NewReader(`{"name":"Ada","email":"ada@x.com","message":"hi"}`))
		newRouter(jobs).ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "Failed to process message")
	})
}

func TestContactTask(t *testing.T) {
	t.Parallel()

	msg := contact.Message{Name: "Ada", Email: "ada@x.com", Message: "Tell me **more**."}

	t.Run("renders markdown and sends to the inbox", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		task := contact.NewTask(sender, "team@example.com", nil)
		require.Equal(t, contact.TaskName, task.Name())
		require.NoError(t, task.Handle(context.Background(), msg))

		require.Len(t, sender.sent, 1)
		email := sender.sent[0]
		require.Equal(t, []string{"team@example.com"}, email.To)
		require.Equal(t, "ada@x.com", email.ReplyTo)
		require.Contains(t, email.Subject, "Ada")
		require.Contains(t, email.HTML, "<strong>more</strong>")
		require.Contains(t, email.Text, "Tell me **more**.")
	})

	t.Run("no sender configured drops the message without error", func(t *testing.T) {
		t.Parallel()

		task := contact.NewTask(nil, "", nil)
		require.NoError(t, task.Handle(context.Background(), msg))
	})

	t.Run("send failure surfaces for retry", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{err: errors.New("rate limited")}
		task := contact.NewTask(sender, "team@example.com", nil)
		require.Error(t, task.Handle(context.Background(), msg))
	})
}
