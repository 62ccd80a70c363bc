package email

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type captureMailer struct {
	sent []*Message
	err  error
}

func (m *captureMailer) Send(ctx context.Context, msg *Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestDispatcher_SendApproval(t *testing.T) {
	mailer := &captureMailer{}
	d := NewDispatcher(mailer)

	err := d.SendApproval(context.Background(), "owner@example.com", "ABC-123", "A-3", "North wing")
	if err != nil {
		t.Fatalf("SendApproval failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.Subject != "Parking Slot Approval" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.To[0] != "owner@example.com" {
		t.Errorf("recipient = %q", msg.To[0])
	}
	for _, want := range []string{"ABC-123", "A-3", "North wing"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("approval body missing %q", want)
		}
	}
}

func TestDispatcher_SendRejection(t *testing.T) {
	mailer := &captureMailer{}
	d := NewDispatcher(mailer)

	err := d.SendRejection(context.Background(), "owner@example.com", "ABC-123", "North wing", "lot under maintenance")
	if err != nil {
		t.Fatalf("SendRejection failed: %v", err)
	}

	msg := mailer.sent[0]
	if msg.Subject != "Parking Slot Request Rejected" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "lot under maintenance") {
		t.Error("rejection body missing reason")
	}
}

func TestDispatcher_SendPaymentSuccess(t *testing.T) {
	mailer := &captureMailer{}
	d := NewDispatcher(mailer)

	err := d.SendPaymentSuccess(context.Background(), "owner@example.com", "ABC-123", "A-3", "North wing", 2000)
	if err != nil {
		t.Fatalf("SendPaymentSuccess failed: %v", err)
	}

	msg := mailer.sent[0]
	if msg.Subject != "Parking Payment Successful" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "2000") {
		t.Error("payment body missing amount")
	}
}

func TestDispatcher_SendOTP(t *testing.T) {
	mailer := &captureMailer{}
	d := NewDispatcher(mailer)

	err := d.SendOTP(context.Background(), "user@example.com", "123456", 10)
	if err != nil {
		t.Fatalf("SendOTP failed: %v", err)
	}

	msg := mailer.sent[0]
	if msg.Subject != "Your Login Code" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "123456") {
		t.Error("otp body missing code")
	}
}

func TestDispatcher_TransportErrorPropagates(t *testing.T) {
	mailer := &captureMailer{err: errors.New("smtp down")}
	d := NewDispatcher(mailer)

	if err := d.SendOTP(context.Background(), "user@example.com", "123456", 10); err == nil {
		t.Fatal("expected transport error")
	}
}
