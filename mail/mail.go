// Package mail delivers outbound notification email over SMTP. The sender is
// optional: when SMTP is not configured, callers hold a nil Sender and skip
// delivery. A failed send is logged by the caller and never fails the
// operation that triggered it.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender sends one plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender implements Sender on a plain SMTP endpoint.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(host string, port int, from, username, password string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

// StatusUpdateMessage builds the creator-facing email for a committed status
// change.
func StatusUpdateMessage(number, title, oldStatus, newStatus string) (subject, body string) {
	subject = "ResolveIT: Status Update for " + number
	body = fmt.Sprintf("Hello,\n\n"+
		"Your complaint '%s' (%s) has been updated.\n\n"+
		"Status changed from: %s\n"+
		"Status changed to: %s\n\n"+
		"Please log in to ResolveIT to view more details.\n\n"+
		"Best regards,\n"+
		"ResolveIT Team",
		title, number, oldStatus, newStatus)
	return subject, body
}

// EscalationMessage builds the creator-facing email for an escalated
// complaint.
func EscalationMessage(number, title, priority string) (subject, body string) {
	subject = "ResolveIT: Complaint Escalated - " + number
	body = fmt.Sprintf("Hello,\n\n"+
		"Your complaint '%s' (%s) has been ESCALATED.\n\n"+
		"Priority: %s\n"+
		"This complaint has exceeded the expected resolution time and has been escalated "+
		"to higher authorities for faster resolution.\n\n"+
		"We apologize for any inconvenience and are working to resolve this as soon as possible.\n\n"+
		"Best regards,\n"+
		"ResolveIT Team",
		title, number, priority)
	return subject, body
}
