// Package membership содержит бизнес-логику личного кабинета участника:
// проекцию членства, ваучеры и журнал платежей. Проекция членства
// кешируется и инвалидируется при каждой оплате.
package membership

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/theclub367services-boop/club369/internal/lib/dates"
	"github.com/theclub367services-boop/club369/internal/models"
)

// RenewalWindowDays — за сколько дней до окончания членства открывается
// продление.
const RenewalWindowDays = 5

const detailsTTL = 5 * time.Minute

// Repository определяет методы хранилища, нужные личному кабинету.
type Repository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListVouchers возвращает ваучеры; при onlyActive — только включённые.
	ListVouchers(ctx context.Context, onlyActive bool) ([]*models.Voucher, error)
	// GetVoucher возвращает ваучер по ID.
	GetVoucher(ctx context.Context, id string) (*models.Voucher, error)
	// ClaimVoucher фиксирует получение ваучера, повторное получение — ошибка.
	ClaimVoucher(ctx context.Context, voucherID, userUID string) error
	// ListClaimedVoucherIDs возвращает ID ваучеров, полученных пользователем.
	ListClaimedVoucherIDs(ctx context.Context, userUID string) (map[string]bool, error)
	// ListTransactionsByUser возвращает платежи пользователя с пагинацией.
	ListTransactionsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции личного кабинета.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func detailsCacheKey(userUID string) string {
	return fmt.Sprintf("membership:details:%s", userUID)
}

// Details возвращает проекцию членства, используя кеш или хранилище.
func (s *Service) Details(ctx context.Context, userUID string) (models.MembershipDetails, error) {
	var details models.MembershipDetails
	cacheKey := detailsCacheKey(userUID)
	found, err := s.cache.Get(ctx, cacheKey, &details)
	if err != nil {
		s.log.Warn("failed to read details from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return details, nil
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return models.MembershipDetails{}, err
	}
	details = models.NewMembershipDetails(user, time.Now())

	if err := s.cache.Set(ctx, cacheKey, details, detailsTTL); err != nil {
		s.log.Warn("failed to cache details", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return details, nil
}

// InvalidateDetails сбрасывает кеш проекции после изменения членства.
func (s *Service) InvalidateDetails(ctx context.Context, userUID string) {
	cacheKey := detailsCacheKey(userUID)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate details cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

// RenewalAllowed сообщает, доступно ли продление: членства нет или оно
// истекло — всегда доступно; активное — только когда до окончания
// осталось не больше RenewalWindowDays дней (неполный день считается
// целым).
func RenewalAllowed(details models.MembershipDetails, now time.Time) bool {
	switch details.Status {
	case models.MembershipExpired, models.MembershipNone:
		return true
	}
	if details.ExpiryDate == "" {
		return false
	}
	expiry, err := time.Parse(time.RFC3339, details.ExpiryDate)
	if err != nil {
		return false
	}
	return dates.DaysUntilCeil(expiry, now) <= RenewalWindowDays
}

// Vouchers возвращает активные ваучеры с отметкой о получении.
// Код ваучера раскрывается только после получения.
func (s *Service) Vouchers(ctx context.Context, userUID string) ([]models.Voucher, error) {
	vouchers, err := s.repo.ListVouchers(ctx, true)
	if err != nil {
		return nil, err
	}
	claimed, err := s.repo.ListClaimedVoucherIDs(ctx, userUID)
	if err != nil {
		return nil, err
	}
	result := make([]models.Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		result = append(result, v.ForMember(claimed[v.ID]))
	}
	return result, nil
}

// ClaimVoucher фиксирует получение ваучера и возвращает его с кодом.
// Повторное получение не проходит по первичному ключу заявок — ранее
// полученное состояние при этом не откатывается.
func (s *Service) ClaimVoucher(ctx context.Context, userUID, voucherID string) (*models.Voucher, error) {
	voucher, err := s.repo.GetVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if !voucher.IsActive {
		return nil, fmt.Errorf("voucher %s is not available", voucherID)
	}
	if err := s.repo.ClaimVoucher(ctx, voucherID, userUID); err != nil {
		return nil, err
	}
	s.log.Info("voucher claimed",
		slog.String("voucher_id", voucherID), slog.String("user_uid", userUID))
	claimed := voucher.ForMember(true)
	return &claimed, nil
}

// Transactions возвращает журнал платежей пользователя.
func (s *Service) Transactions(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error) {
	return s.repo.ListTransactionsByUser(ctx, userUID, limit, offset)
}
