package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/fairwaylabs/trip-system/config"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Direct TLS connection (usually port 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("tls connection failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create smtp client: %w", err)
		}
	} else {
		// STARTTLS (usually port 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp connection failed: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("STARTTLS command failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp authentication failed: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("RCPT TO failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	_, err = w.Write(msg)
	if err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close DATA writer: %w", err)
	}

	return nil
}

func (s *EmailService) GenerateEmailBody(templatePath string, data interface{}) (string, error) {
	t, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templatePath, err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}

	return body.String(), nil
}

func (s *EmailService) SendWelcomeEmail(userEmail, firstName string) error {
	subject := "Welcome to Fairway Trips!"
	templateData := struct {
		FirstName  string
		ProfileURL string
	}{
		FirstName:  firstName,
		ProfileURL: fmt.Sprintf("%s/profile", s.cfg.PublicURL),
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/welcome_email.html", templateData)
	if err != nil {
		return fmt.Errorf("failed to generate welcome email body: %w", err)
	}

	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}

func (s *EmailService) SendTripInviteEmail(userEmail, tripName, organizerName, inviteLink string) error {
	subject := fmt.Sprintf("You're invited to %s", tripName)
	data := struct {
		TripName      string
		OrganizerName string
		InviteLink    string
	}{
		TripName:      tripName,
		OrganizerName: organizerName,
		InviteLink:    inviteLink,
	}
	htmlBody, err := s.GenerateEmailBody("templates/emails/trip_invite_email.html", data)
	if err != nil {
		return fmt.Errorf("failed to generate trip invite email body: %w", err)
	}
	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}

func (s *EmailService) SendTripSummaryEmail(emails []string, tripName, winnerName string, scoreline, link string) error {
	subject := fmt.Sprintf("%s: final results", tripName)
	data := struct {
		TripName   string
		WinnerName string
		Scoreline  string
		Link       string
	}{
		TripName:   tripName,
		WinnerName: winnerName,
		Scoreline:  scoreline,
		Link:       link,
	}
	htmlBody, err := s.GenerateEmailBody("templates/emails/trip_summary_email.html", data)
	if err != nil {
		return fmt.Errorf("failed to generate trip summary email body: %w", err)
	}

	for _, email := range emails {
		if err := s.SendEmail([]string{email}, subject, htmlBody); err != nil {
			return fmt.Errorf("failed to send trip summary to %s: %w", email, err)
		}
	}
	return nil
}
