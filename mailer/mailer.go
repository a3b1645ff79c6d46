package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"

	"marketplace-service/models"
)

// Mailer sends the transactional emails over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, user, password, from string) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{dialer: gomail.NewDialer(host, port, user, password), from: from}
}

func (m *Mailer) send(ctx context.Context, to, subject string, tmpl *template.Template, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.from, "Marketplace"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	slog.Info("Email sent", "to", to, "subject", subject)
	return nil
}

func (m *Mailer) SendVerification(ctx context.Context, to, name, link string) error {
	return m.send(ctx, to, "Please verify your email", verificationTmpl, linkData{Name: name, Link: link})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	return m.send(ctx, to, "Please reset your password", resetTmpl, linkData{Name: name, Link: link})
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, to, name string, order *models.Order) error {
	return m.send(ctx, to, "Your order is confirmed", confirmationTmpl, orderData{Name: name, Order: order})
}

func (m *Mailer) SendStatusUpdate(ctx context.Context, to, name string, order *models.Order) error {
	subject := fmt.Sprintf("Your order has been %s", order.Status)
	return m.send(ctx, to, subject, statusTmpl, orderData{Name: name, Order: order})
}
