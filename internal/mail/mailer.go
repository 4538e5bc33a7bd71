package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/smtp"
	"strconv"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Config configures the SMTP mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends templated HTML mail over SMTP.
type Mailer struct {
	config    Config
	templates *template.Template
	logger    *log.Logger
}

func New(config Config, logger *log.Logger) (*Mailer, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Mailer{config: config, templates: tmpl, logger: logger}, nil
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool {
	return m.config.Host != ""
}

// PurchaseConfirmation is the data rendered into the confirmation template.
type PurchaseConfirmation struct {
	Name        string
	Code        string
	AmountCents int64
}

// Amount formats the cent amount for display.
func (p PurchaseConfirmation) Amount() string {
	return fmt.Sprintf("%d.%02d", p.AmountCents/100, p.AmountCents%100)
}

// SendPurchaseConfirmation renders and sends the purchase confirmation mail.
func (m *Mailer) SendPurchaseConfirmation(to string, data PurchaseConfirmation) error {
	return m.send("purchase_confirmation.html", data, to, "Purchase Confirmation")
}

func (m *Mailer) send(templateName string, data interface{}, to, subject string) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("render %s: %w", templateName, err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := m.config.Host + ":" + strconv.Itoa(m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}
	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, msg.Bytes()); err != nil {
		m.logger.Printf("mail: send to=%s subject=%q error=%v", to, subject, err)
		return err
	}
	m.logger.Printf("mail: sent to=%s subject=%q", to, subject)
	return nil
}
