//go:build !integration

package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3.1/send", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(MailjetConfig{
		MailjetBaseURL:           srv.URL,
		MailjetBasicAuthUsername: "key",
		MailjetBasicAuthPassword: "secret",
		MailjetSenderEmail:       "noreply@example.com",
		MailjetSenderName:        "Course Compass",
	})

	require.NoError(t, repo.SendEmail("Amina", "amina@example.com", "Hello", "<b>hi</b>"))
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "amina@example.com", got.Messages[0].To[0].Email)
	assert.Equal(t, "noreply@example.com", got.Messages[0].From.Email)
	assert.Equal(t, "Hello", got.Messages[0].Subject)
}

func TestSendEmailRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(MailjetConfig{MailjetBaseURL: srv.URL})
	assert.Error(t, repo.SendEmail("A", "a@example.com", "s", "b"))
}
