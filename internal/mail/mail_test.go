package mail

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct{ msgs []Message }

func (c *captureSender) Send(msg Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestMailer_VerificationEmail(t *testing.T) {
	s := &captureSender{}
	m := NewMailer(s, "https://app.example.com")

	require.NoError(t, m.VerificationEmail("Amina", "amina@example.com", "Rahman", "tok en"))
	require.Len(t, s.msgs, 1)

	msg := s.msgs[0]
	assert.Equal(t, "amina@example.com", msg.ToEmail)
	assert.Contains(t, msg.Text, "https://app.example.com/verify-email?token=tok+en")
	assert.Contains(t, msg.HTML, "Rahman family")
	assert.Contains(t, msg.HTML, "Amina")
}

func TestMailer_EscapesNames(t *testing.T) {
	s := &captureSender{}
	m := NewMailer(s, "https://app.example.com")
	require.NoError(t, m.WelcomeEmail("<b>x</b>", "x@example.com", "Fam"))
	assert.NotContains(t, s.msgs[0].HTML, "<b>x</b>")
}

func TestSendGridSender_Send(t *testing.T) {
	var body map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender("key", "Family Hub", "noreply@example.com").WithHost(srv.URL)
	err := s.Send(Message{ToName: "A", ToEmail: "a@example.com", Subject: "Hi", Text: "t", HTML: "<p>h</p>"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer key", auth)
	from := body["from"].(map[string]any)
	assert.Equal(t, "noreply@example.com", from["email"])
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewSendGridSender("bad", "Family Hub", "noreply@example.com").WithHost(srv.URL)
	assert.Error(t, s.Send(Message{ToEmail: "a@example.com", Subject: "Hi", Text: "t"}))
}
