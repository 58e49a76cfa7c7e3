package club

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// RenewalWindowDays — за сколько дней до окончания членства доступно
// продление.
const RenewalWindowDays = 5

// Dashboard — снимок данных личного кабинета, собранный за один проход.
type Dashboard struct {
	Membership     *MembershipDetails
	RenewalAllowed bool
	Transactions   []Transaction
	Vouchers       []Voucher
}

// Membership загружает данные личного кабинета и выдаёт получение
// ваучеров. Конкурентные получения одного ваучера схлопываются в один
// запрос.
type Membership struct {
	client *Client

	mu       sync.Mutex
	claiming map[string]struct{}
}

// NewMembership создает сервис личного кабинета поверх клиента.
func NewMembership(client *Client) *Membership {
	return &Membership{
		client:   client,
		claiming: make(map[string]struct{}),
	}
}

// LoadDashboard загружает сведения о членстве, журнал платежей и
// ваучеры параллельно. Ошибка любой ветки отменяет остальные и
// возвращается целиком: частичный снимок не отдаётся.
func (m *Membership) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		details, allowed, err := m.client.GetMembershipDetails(gCtx)
		if err != nil {
			return err
		}
		dash.Membership = details
		dash.RenewalAllowed = allowed
		return nil
	})
	g.Go(func() error {
		txs, err := m.client.GetTransactions(gCtx, 0, 0)
		if err != nil {
			return err
		}
		dash.Transactions = txs
		return nil
	})
	g.Go(func() error {
		vouchers, err := m.client.GetVouchers(gCtx)
		if err != nil {
			return err
		}
		dash.Vouchers = vouchers
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

// Claim получает ваучер и подменяет его в списке vouchers. Повторный
// вызов для ваучера, получение которого ещё не завершилось,
// возвращает список без изменений. Подменяется только запись с
// совпадающим идентификатором; при ошибке список не трогается —
// состояние «получен» никогда не откатывается.
func (m *Membership) Claim(ctx context.Context, vouchers []Voucher, voucherID string) ([]Voucher, error) {
	m.mu.Lock()
	if _, busy := m.claiming[voucherID]; busy {
		m.mu.Unlock()
		return vouchers, nil
	}
	m.claiming[voucherID] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.claiming, voucherID)
		m.mu.Unlock()
	}()

	claimed, err := m.client.ClaimVoucher(ctx, voucherID)
	if err != nil {
		return vouchers, err
	}

	updated := make([]Voucher, len(vouchers))
	copy(updated, vouchers)
	for i := range updated {
		if updated[i].ID == claimed.ID {
			updated[i] = *claimed
		}
	}
	return updated, nil
}

// RenewalAllowed сообщает, доступно ли продление: членства нет или оно
// истекло — всегда доступно; активное — только когда до окончания
// осталось не больше RenewalWindowDays полных или неполных дней.
// Неполный день считается за день. Сервер считает так же и присылает
// готовый флаг; локальный расчёт нужен офлайн-состояниям.
func RenewalAllowed(details *MembershipDetails, now time.Time) bool {
	if details == nil {
		return false
	}
	switch details.Status {
	case MembershipExpired, MembershipNone:
		return true
	}
	if details.ExpiryDate == "" {
		return false
	}
	expiry, err := time.Parse(time.RFC3339, details.ExpiryDate)
	if err != nil {
		return false
	}
	daysLeft := math.Ceil(expiry.Sub(now).Hours() / 24)
	return daysLeft <= RenewalWindowDays
}
