package mail

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(msg Message) error
}

type SendGridSender struct {
	key  string
	host string
	from *sgmail.Email
}

func NewSendGridSender(key, fromName, fromEmail string) *SendGridSender {
	return &SendGridSender{key: key, host: defaultHost, from: sgmail.NewEmail(fromName, fromEmail)}
}

// WithHost points the sender at another API host (tests use an httptest server).
func (s *SendGridSender) WithHost(host string) *SendGridSender {
	s.host = host
	return s
}

func (s *SendGridSender) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)
	return m
}

func (s *SendGridSender) Send(msg Message) error {
	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// LogSender writes mail to the log instead of delivering it.
type LogSender struct{}

func (LogSender) Send(msg Message) error {
	log.Info().Str("to", msg.ToEmail).Str("subject", msg.Subject).Str("body", msg.Text).Msg("[mail] not sent, no provider configured")
	return nil
}

// Mailer renders the account emails and hands them to a Sender.
type Mailer struct {
	sender      Sender
	frontendURL string
}

func NewMailer(sender Sender, frontendURL string) *Mailer {
	return &Mailer{sender: sender, frontendURL: frontendURL}
}

var layout = htmltmpl.Must(htmltmpl.New("layout").Parse(`<!DOCTYPE html>
<html><body style="font-family:sans-serif;max-width:560px;margin:auto">
<h2>{{.Title}}</h2>
<p>Assalamu Alaikum {{.Name}},</p>
{{range .Lines}}<p>{{.}}</p>{{end}}
{{if .Link}}<p><a href="{{.Link}}" style="background:#059669;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none">{{.Action}}</a></p>
<p style="font-size:12px;color:#666">{{.Link}}</p>{{end}}
<p>Family Hub</p>
</body></html>`))

type page struct {
	Title  string
	Name   string
	Lines  []string
	Action string
	Link   string
}

func (m *Mailer) send(toName, toEmail, subject string, pg page) error {
	pg.Name = toName
	var html bytes.Buffer
	if err := layout.Execute(&html, pg); err != nil {
		return fmt.Errorf("render %q: %w", subject, err)
	}

	var text bytes.Buffer
	fmt.Fprintf(&text, "Assalamu Alaikum %s,\n\n", toName)
	for _, l := range pg.Lines {
		text.WriteString(l + "\n\n")
	}
	if pg.Link != "" {
		fmt.Fprintf(&text, "%s: %s\n", pg.Action, pg.Link)
	}

	err := m.sender.Send(Message{
		ToName:  toName,
		ToEmail: toEmail,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	})
	if err != nil {
		log.Error().Err(err).Str("to", toEmail).Str("subject", subject).Msg("[mail] delivery failed")
	}
	return err
}

func (m *Mailer) VerificationEmail(name, email, familyName, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, url.QueryEscape(token))
	return m.send(name, email, "Verify your Family Hub account", page{
		Title:  "Welcome to Family Hub",
		Lines:  []string{fmt.Sprintf("Thank you for registering the %s family. Please confirm your email address to activate your account.", familyName), "This link expires in 24 hours."},
		Action: "Verify email",
		Link:   link,
	})
}

func (m *Mailer) WelcomeEmail(name, email, familyName string) error {
	return m.send(name, email, "Your Family Hub is ready", page{
		Title:  "Your account is verified",
		Lines:  []string{fmt.Sprintf("The %s family hub is ready. Add your family members and start tracking prayers, tasks and goals together.", familyName)},
		Action: "Open Family Hub",
		Link:   m.frontendURL + "/login",
	})
}

func (m *Mailer) InviteEmail(name, email, familyName, invitedBy string) error {
	return m.send(name, email, fmt.Sprintf("You have been added to the %s family", familyName), page{
		Title:  "You have been invited",
		Lines:  []string{fmt.Sprintf("%s added you as a parent of the %s family on Family Hub. Sign in with the password they shared with you and change it from your profile.", invitedBy, familyName)},
		Action: "Sign in",
		Link:   m.frontendURL + "/login",
	})
}
