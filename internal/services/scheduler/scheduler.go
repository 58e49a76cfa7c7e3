// Package scheduler содержит фоновые задачи членства: перевод
// просроченных членств в EXPIRED и рассылка напоминаний тем, у кого
// окно продления уже открыто.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
	"github.com/theclub367services-boop/club369/internal/rabbitmq"
	"github.com/theclub367services-boop/club369/internal/services/membership"
)

// MembershipRepository определяет методы хранилища для фоновых задач.
type MembershipRepository interface {
	ExpireLapsedMemberships(ctx context.Context) (int, error)
	FindMembershipsExpiringWithin(ctx context.Context, days int) ([]*models.User, error)
}

// Reminder — напоминание о скором окончании членства для сервиса уведомлений.
type Reminder struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	ExpiryAt string `json:"expiry_at"`
}

// Service запускает фоновые задачи по расписанию.
type Service struct {
	repo MembershipRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo MembershipRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// ExpireLapsed раз в сутки переводит членства с прошедшей датой окончания
// в EXPIRED. Первый запуск происходит сразу.
func (s *Service) ExpireLapsed(ctx context.Context) {
	s.runExpireLapsed(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runExpireLapsed(ctx)
		}
	}
}

func (s *Service) runExpireLapsed(ctx context.Context) {
	s.log.Info("starting to expire lapsed memberships")
	count, err := s.repo.ExpireLapsedMemberships(ctx)
	if err != nil {
		s.log.Error("failed to expire lapsed memberships", sl.Err(err))
		return
	}
	if count == 0 {
		s.log.Info("no lapsed memberships found")
		return
	}
	s.log.Info("expired lapsed memberships", "count", count)
}

// NotifyExpiring раз в сутки находит членства, заканчивающиеся в окне
// продления, и публикует напоминания в очередь уведомлений.
func (s *Service) NotifyExpiring(ctx context.Context, channel *amqp.Channel) {
	s.runNotifyExpiring(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runNotifyExpiring(ctx, channel)
		}
	}
}

func (s *Service) runNotifyExpiring(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting to find memberships expiring soon")
	users, err := s.repo.FindMembershipsExpiringWithin(ctx, membership.RenewalWindowDays)
	if err != nil {
		s.log.Error("failed to find expiring memberships", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring memberships found")
		return
	}
	s.log.Info("found expiring memberships", "count", len(users))
	for _, user := range users {
		reminder := Reminder{
			Email: user.Email,
			Name:  user.Name,
		}
		if user.MembershipEndDate != nil {
			reminder.ExpiryAt = user.MembershipEndDate.Format(time.RFC3339)
		}
		if err := rabbitmq.PublishMessage(channel, rabbitmq.Exchange, rabbitmq.RouteReminder, reminder); err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
		}
	}
}
