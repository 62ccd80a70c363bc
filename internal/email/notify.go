package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html.tmpl"))

// Dispatcher renders notification emails and hands them to the transport.
// Every send is a single synchronous attempt; the caller decides whether a
// failure matters.
type Dispatcher struct {
	mailer Mailer
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	return &Dispatcher{mailer: mailer}
}

func (d *Dispatcher) send(ctx context.Context, to, subject, tmplName string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmplName, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmplName, err)
	}

	return d.mailer.Send(ctx, &Message{
		To:      []string{to},
		Subject: subject,
		HTML:    buf.String(),
	})
}

func (d *Dispatcher) SendApproval(ctx context.Context, to, plateNumber, slotNumber, location string) error {
	return d.send(ctx, to, "Parking Slot Approval", "approval.html.tmpl", map[string]any{
		"PlateNumber": plateNumber,
		"SlotNumber":  slotNumber,
		"Location":    location,
	})
}

func (d *Dispatcher) SendRejection(ctx context.Context, to, plateNumber, location, reason string) error {
	return d.send(ctx, to, "Parking Slot Request Rejected", "rejection.html.tmpl", map[string]any{
		"PlateNumber": plateNumber,
		"Location":    location,
		"Reason":      reason,
	})
}

func (d *Dispatcher) SendPaymentSuccess(ctx context.Context, to, plateNumber, slotNumber, location string, amount int64) error {
	return d.send(ctx, to, "Parking Payment Successful", "payment.html.tmpl", map[string]any{
		"PlateNumber": plateNumber,
		"SlotNumber":  slotNumber,
		"Location":    location,
		"Amount":      amount,
	})
}

func (d *Dispatcher) SendOTP(ctx context.Context, to, code string, validMinutes uint) error {
	return d.send(ctx, to, "Your Login Code", "otp.html.tmpl", map[string]any{
		"Code":         code,
		"ValidMinutes": validMinutes,
	})
}
