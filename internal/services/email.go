package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
)

var streakReminderTmpl = template.Must(template.New("streak").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; overflow: hidden;">
    <div style="background: #f97316; padding: 32px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px;">CodeJourney</h1>
      <p style="color: white; margin: 8px 0 0; font-size: 14px;">{{.Streak}} {{.Days}} in a row</p>
    </div>
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Nothing logged today yet</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        Log even a short session before midnight to keep your streak going.
      </p>
      <a href="{{.TrackerURL}}" style="display: inline-block; background: #f97316; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600;">
        Log today's study
      </a>
    </div>
  </div>
</body>
</html>`))

type EmailService struct {
	addr        string
	auth        smtp.Auth
	from        string
	frontendURL string
	devMode     bool

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService sends through SMTP. Without a host or user it runs in dev mode and
// only logs what it would have sent.
func NewEmailService(host, port, user, pass, from, frontendURL string) *EmailService {
	s := &EmailService{
		addr:        net.JoinHostPort(host, port),
		from:        from,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		devMode:     host == "" || user == "",
		sendMail:    smtp.SendMail,
	}
	if s.devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	} else {
		s.auth = smtp.PlainAuth("", user, pass, host)
	}
	return s
}

func (s *EmailService) SendStreakReminderEmail(to string, streak int) error {
	days := "days"
	if streak == 1 {
		days = "day"
	}

	var body bytes.Buffer
	err := streakReminderTmpl.Execute(&body, struct {
		Streak     int
		Days       string
		TrackerURL string
	}{streak, days, s.frontendURL + "/tracker"})
	if err != nil {
		return fmt.Errorf("render streak reminder: %w", err)
	}

	subject := fmt.Sprintf("Keep your %d-%s CodeJourney streak alive", streak, strings.TrimSuffix(days, "s"))
	return s.sendHTML(to, subject, body.String())
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s", to, subject)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(htmlBody)

	if err := s.sendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}
