// Package sender отправляет письма по событиям из очереди уведомлений:
// квитанции об оплате и напоминания о скором окончании членства.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theclub367services-boop/club369/internal/lib/dates"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/lib/smtp"
	"github.com/theclub367services-boop/club369/internal/services/payment"
	"github.com/theclub367services-boop/club369/internal/services/scheduler"
)

// Transport описывает SMTP транспорт для отправки писем.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// Service формирует и отправляет письма участникам клуба.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport Transport, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendReceipt отправляет квитанцию об успешной оплате членства.
func (s *Service) SendReceipt(body []byte) error {
	var receipt payment.Receipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		s.log.Error("failed to unmarshal receipt", sl.Err(err))
		return fmt.Errorf("error unmarshalling receipt: %w", err)
	}

	to := []string{receipt.Email}
	subject := "Club369: payment received"
	validTo := receipt.ValidTo
	bodyText := fmt.Sprintf(
		"Hello, %s!\n\nWe have received your payment of %.2f %s.\nYour membership is active until %s.\n\nThank you for being with Club369.",
		receipt.Name, float64(receipt.Amount)/100, receipt.Currency, dates.Format(&validTo))

	return s.sendEmail(to, subject, bodyText)
}

// SendReminder отправляет напоминание о скором окончании членства.
func (s *Service) SendReminder(body []byte) error {
	var reminder scheduler.Reminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal reminder", sl.Err(err))
		return fmt.Errorf("error unmarshalling reminder: %w", err)
	}

	expiry := dates.NotAvailable
	if t, err := time.Parse(time.RFC3339, reminder.ExpiryAt); err == nil {
		expiry = dates.Format(&t)
	}

	to := []string{reminder.Email}
	subject := "Club369: your membership is expiring soon"
	bodyText := fmt.Sprintf(
		"Hello, %s!\n\nYour Club369 membership expires on %s.\nRenew now to keep access to member benefits and vouchers.",
		reminder.Name, expiry)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.log.Debug("failed to close SMTP client", sl.Err(closeErr))
		}
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", "to", to)
	return nil
}
