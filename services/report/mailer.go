package report

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

type Mailer struct {
	Config SmtpConfig
}

// SendReport mails the rendered report, attachments are added as HTML
// files by name.
func (m Mailer) SendReport(subject string, htmlBody []byte, attachments map[string][]byte) error {
	if m.Config.Host == "" || len(m.Config.To) == 0 {
		return fmt.Errorf("smtp config is incomplete: host and recipients are required")
	}

	msg := email.NewEmail()
	msg.From = m.Config.From
	msg.To = m.Config.To
	msg.Subject = subject
	msg.HTML = htmlBody
	for name, data := range attachments {
		_, err := msg.Attach(bytes.NewReader(data), name, "text/html")
		if err != nil {
			return err
		}
	}

	addr := fmt.Sprintf("%s:%d", m.Config.Host, m.Config.Port)
	var auth smtp.Auth
	if m.Config.Username != "" {
		auth = smtp.PlainAuth("", m.Config.Username, m.Config.Password, m.Config.Host)
	}
	return msg.Send(addr, auth)
}
