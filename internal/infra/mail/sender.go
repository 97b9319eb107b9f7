package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

var triggerTemplate = template.Must(template.New("trigger").Parse(`<html>
<body>
<h2>{{.Title}}</h2>
<p>{{.Body}}</p>
<p>— The ClearPath Legal team</p>
</body>
</html>`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Send renders and delivers one trigger email over SMTP.
func (s *EmailSender) Send(recipient, title, body string, _ map[string]string) error {
	data := TriggerEmailData{Title: title, Body: body}

	var html bytes.Buffer
	if err := triggerTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("rendering email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", title)
	m.SetBody("text/html", html.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending SMTP email: %w", err)
	}

	return nil
}
