package utils

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"sync"

	"sankalp/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// EmailMessage is a single outbound HTML email.
type EmailMessage struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer delivers email messages.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NewMailer returns the mailer selected by EMAIL_PROVIDER.
func NewMailer(cfg *config.Config) Mailer {
	switch cfg.EmailProvider {
	case "sendgrid":
		return NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailFrom)
	case "console":
		return NewConsoleMailer()
	default:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailSender, cfg.Password, cfg.EmailFrom)
	}
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

func (m *SMTPMailer) Send(_ context.Context, msg EmailMessage) error {
	// MIME basics
	body := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	body += fmt.Sprintf("From: Sankalp <%s>\r\n", m.from)
	body += fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ","))
	if msg.ReplyTo != "" {
		body += fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo)
	}
	body += fmt.Sprintf("Subject: %s\r\n\r\n", msg.Subject)
	body += msg.HTML

	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, msg.To, []byte(body)); err != nil {
		return fmt.Errorf("smtp send to %v: %w", msg.To, err)
	}
	Log.Debug("email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// SendgridMailer sends mail through the SendGrid v3 API.
type SendgridMailer struct {
	key  string
	from *sgmail.Email
}

func NewSendgridMailer(key, from string) *SendgridMailer {
	return &SendgridMailer{key: key, from: sgmail.NewEmail("Sankalp", from)}
}

func (m *SendgridMailer) Send(ctx context.Context, msg EmailMessage) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	if msg.ReplyTo != "" {
		v3.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	resp, err := sendgrid.NewSendClient(m.key).SendWithContext(ctx, v3)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// ConsoleMailer logs messages instead of sending them and keeps them for
// inspection.
type ConsoleMailer struct {
	mu   sync.Mutex
	sent []EmailMessage
	// Fail, when set, is returned by Send instead of delivering.
	Fail error
}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) Send(_ context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.sent = append(m.sent, msg)
	Log.Info("email (console)", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// Sent returns a copy of the delivered messages.
func (m *ConsoleMailer) Sent() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Last returns the most recent message, if any.
func (m *ConsoleMailer) Last() (EmailMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return EmailMessage{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// HTML wrapper shared by every notification
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E2A5A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E2A5A; line-height: 1.6; }
			.otp { text-align: center; color: #4CAF50; font-size: 40px; letter-spacing: 6px; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SANKALP</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message. Please do not reply.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// Notifier renders and sends the platform's transactional emails.
type Notifier struct {
	mailer       Mailer
	contactInbox string
}

func NewNotifier(mailer Mailer, contactInbox string) *Notifier {
	return &Notifier{mailer: mailer, contactInbox: contactInbox}
}

func (n *Notifier) SendRegistrationOTP(ctx context.Context, email, otp string) error {
	body := fmt.Sprintf(`
		<p>Your OTP for email verification is:</p>
		<div class="otp">%s</div>
		<p>This OTP will expire in 10 minutes.</p>
		<p>If you didn't request this, please ignore this email.</p>
	`, otp)
	return n.mailer.Send(ctx, EmailMessage{
		To:      []string{email},
		Subject: "Email Verification OTP",
		HTML:    getEmailTemplate("Email Verification", body),
	})
}

func (n *Notifier) SendPasswordResetOTP(ctx context.Context, email, otp string) error {
	body := fmt.Sprintf(`
		<p>Your OTP for password reset is:</p>
		<div class="otp">%s</div>
		<p>This OTP will expire in 10 minutes.</p>
		<p>If you didn't request this, please ignore this email.</p>
	`, otp)
	return n.mailer.Send(ctx, EmailMessage{
		To:      []string{email},
		Subject: "Password Reset OTP",
		HTML:    getEmailTemplate("Password Reset Request", body),
	})
}

func (n *Notifier) SendPasswordResetSuccess(ctx context.Context, email string) error {
	body := `
		<p>Your password has been reset successfully.</p>
		<p>If you didn't make this change, please contact support immediately.</p>
	`
	return n.mailer.Send(ctx, EmailMessage{
		To:      []string{email},
		Subject: "Password Reset Successful",
		HTML:    getEmailTemplate("Password Reset Successful", body),
	})
}

func (n *Notifier) SendRegistrationApproved(ctx context.Context, email, name, courseName string) error {
	body := fmt.Sprintf(`
		<p>Congratulations, %s!</p>
		<p>Your registration for <strong>%s</strong> has been approved.</p>
		<p>You can now access all course materials and videos.</p>
		<p>Thank you for choosing our platform!</p>
	`, html.EscapeString(name), html.EscapeString(courseName))
	return n.mailer.Send(ctx, EmailMessage{
		To:      []string{email},
		Subject: "Course Registration Approved",
		HTML:    getEmailTemplate("Registration Approved", body),
	})
}

// SendContactMessage forwards a contact form to the admin inbox and sends
// the sender a copy.
func (n *Notifier) SendContactMessage(ctx context.Context, name, email, phone, message string) error {
	if phone == "" {
		phone = "Not provided"
	}
	escaped := strings.ReplaceAll(html.EscapeString(message), "\n", "<br>")

	adminBody := fmt.Sprintf(`
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Phone:</strong> %s</p>
		<p><strong>Message:</strong></p>
		<p>%s</p>
	`, html.EscapeString(name), html.EscapeString(email), html.EscapeString(phone), escaped)
	if err := n.mailer.Send(ctx, EmailMessage{
		To:      []string{n.contactInbox},
		ReplyTo: email,
		Subject: "New Contact Form Submission",
		HTML:    getEmailTemplate("New Contact Form Submission", adminBody),
	}); err != nil {
		return err
	}

	userBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your message and will get back to you as soon as possible.</p>
		<p>Here's a copy of your message:</p>
		<p>%s</p>
	`, html.EscapeString(name), escaped)
	return n.mailer.Send(ctx, EmailMessage{
		To:      []string{email},
		Subject: "Thank you for contacting Sankalp",
		HTML:    getEmailTemplate("Thank you for contacting us!", userBody),
	})
}
