package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendEmail sends an HTML email through the configured SMTP server
func SendEmail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = username
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, username, password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendVerificationDecisionEmail notifies an astrologer about the admin's
// decision on their application.
func SendVerificationDecisionEmail(to, name, status string) error {
	subject := "Your AstroVeda application has been " + status
	body := fmt.Sprintf(`
		<h2>Namaste %s,</h2>
		<p>Your astrologer application on %s has been <b>%s</b>.</p>
		<p>Log in to your dashboard for details.</p>`,
		name, AppName, status)
	return SendEmail(to, subject, body)
}
