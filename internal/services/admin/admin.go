// Package admin содержит операции административной панели: управление
// пользователями и ваучерами, сводка по сборам и полный журнал платежей.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/theclub367services-boop/club369/internal/models"
)

// ErrUserNotFound возвращается при удалении несуществующего пользователя.
var ErrUserNotFound = errors.New("user not found")

// ErrVoucherNotFound возвращается при удалении несуществующего ваучера.
var ErrVoucherNotFound = errors.New("voucher not found")

// collectionsWindow — окно сводки по сборам.
const collectionsWindow = 30 * 24 * time.Hour

// Repository определяет методы хранилища для административной панели.
type Repository interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	DeleteUser(ctx context.Context, userUID string) (int, error)
	ListAllTransactions(ctx context.Context, limit, offset int) ([]*models.Transaction, error)
	SumCollectedSince(ctx context.Context, since time.Time) (int, error)
	ListVouchers(ctx context.Context, onlyActive bool) ([]*models.Voucher, error)
	GetVoucher(ctx context.Context, id string) (*models.Voucher, error)
	CreateVoucher(ctx context.Context, v models.Voucher) (string, error)
	ToggleVoucher(ctx context.Context, id string) (bool, error)
	DeleteVoucher(ctx context.Context, id string) (int, error)
}

// Collections — сводка по сборам за окно.
type Collections struct {
	TotalLast30Days int `json:"total_last_30_days"`
}

// Service реализует операции административной панели.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// ListUsers возвращает пользователей с пагинацией.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// DeleteUser удаляет пользователя вместе с его заявками и заказами.
func (s *Service) DeleteUser(ctx context.Context, userUID string) error {
	count, err := s.repo.DeleteUser(ctx, userUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	s.log.Info("user deleted", slog.String("user_uid", userUID))
	return nil
}

// Transactions возвращает полный журнал платежей с пагинацией.
func (s *Service) Transactions(ctx context.Context, limit, offset int) ([]*models.Transaction, error) {
	return s.repo.ListAllTransactions(ctx, limit, offset)
}

// Collections возвращает сумму успешных платежей за последние 30 дней.
func (s *Service) Collections(ctx context.Context) (Collections, error) {
	total, err := s.repo.SumCollectedSince(ctx, time.Now().Add(-collectionsWindow))
	if err != nil {
		return Collections{}, err
	}
	return Collections{TotalLast30Days: total}, nil
}

// Vouchers возвращает все ваучеры, включая выключенные.
func (s *Service) Vouchers(ctx context.Context) ([]*models.Voucher, error) {
	return s.repo.ListVouchers(ctx, false)
}

// CreateVoucher создает новый ваучер, по умолчанию включённый.
func (s *Service) CreateVoucher(ctx context.Context, title, description, code string) (*models.Voucher, error) {
	v := models.Voucher{
		Title:       title,
		Description: description,
		Code:        code,
		IsActive:    true,
	}
	id, err := s.repo.CreateVoucher(ctx, v)
	if err != nil {
		return nil, err
	}
	v.ID = id
	s.log.Info("voucher created", slog.String("voucher_id", id))
	return &v, nil
}

// ToggleVoucher переключает доступность ваучера и возвращает свежую запись.
func (s *Service) ToggleVoucher(ctx context.Context, id string) (*models.Voucher, error) {
	if _, err := s.repo.ToggleVoucher(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetVoucher(ctx, id)
}

// DeleteVoucher удаляет ваучер вместе с заявками на него.
func (s *Service) DeleteVoucher(ctx context.Context, id string) error {
	count, err := s.repo.DeleteVoucher(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrVoucherNotFound
	}
	s.log.Info("voucher deleted", slog.String("voucher_id", id))
	return nil
}
