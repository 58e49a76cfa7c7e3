package club

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrDismissed возвращает CheckoutOpener, когда пользователь закрыл
// виджет оплаты, не заплатив. Это не ошибка оплаты: членство не
// меняется, повторная попытка разрешена.
var ErrDismissed = errors.New("checkout dismissed")

// CheckoutOpener открывает виджет платёжного шлюза с параметрами
// заказа и блокируется до исхода: подписанный результат при успешной
// оплате, ErrDismissed при закрытии виджета, иная ошибка при сбое.
type CheckoutOpener interface {
	Open(ctx context.Context, order Order) (*CheckoutResult, error)
}

// CheckoutLoader подготавливает среду виджета (загрузка скрипта шлюза).
// Повторные вызовы Load обязаны быть дешёвыми.
type CheckoutLoader interface {
	Load(ctx context.Context) error
}

// PaymentCallbacks — исходы платежа. Любое поле может быть nil.
type PaymentCallbacks struct {
	// OnSuccess вызывается после подтверждения оплаты сервером,
	// с обновлёнными сведениями о членстве.
	OnSuccess func(details *MembershipDetails)
	// OnDismiss вызывается, когда пользователь закрыл виджет.
	OnDismiss func()
	// OnError вызывается при любой ошибке: создание заказа, сбой
	// шлюза, отказ проверки подписи.
	OnError func(err error)
}

// Payment — оркестратор оплаты членства: заказ, виджет, проверка.
// Одновременно выполняется не больше одного платежа.
type Payment struct {
	client *Client
	opener CheckoutOpener
	loader CheckoutLoader
	log    *slog.Logger

	mu       sync.Mutex
	inFlight bool

	loadOnce sync.Once
	loadErr  error
}

// NewPayment создает оркестратор. loader может быть nil, если среде
// виджета подготовка не нужна.
func NewPayment(client *Client, opener CheckoutOpener, loader CheckoutLoader, log *slog.Logger) *Payment {
	if log == nil {
		log = slog.Default()
	}
	return &Payment{
		client: client,
		opener: opener,
		loader: loader,
		log:    log,
	}
}

// Start проводит полный цикл оплаты: подготовка среды, создание
// заказа на сервере, открытие виджета, проверка подписанного
// результата. Исход сообщается через callbacks; возвращаемая ошибка
// дублирует OnError для вызывающего кода. Закрытие виджета — не
// ошибка: вызывается только OnDismiss, и Start возвращает nil.
//
// Повторный Start во время незавершённого платежа отклоняется.
func (p *Payment) Start(ctx context.Context, callbacks PaymentCallbacks) error {
	const op = "club.Payment.Start"

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		err := fmt.Errorf("%s: payment already in progress", op)
		p.fail(callbacks, err)
		return err
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	if err := p.ensureLoaded(ctx); err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		p.fail(callbacks, err)
		return err
	}

	order, err := p.client.CreateOrder(ctx)
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		p.fail(callbacks, err)
		return err
	}

	result, err := p.opener.Open(ctx, *order)
	if errors.Is(err, ErrDismissed) {
		p.log.Info("checkout dismissed", slog.String("order_id", order.OrderID))
		if callbacks.OnDismiss != nil {
			callbacks.OnDismiss()
		}
		return nil
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		p.fail(callbacks, err)
		return err
	}

	details, err := p.client.VerifyPayment(ctx, *result)
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		p.fail(callbacks, err)
		return err
	}

	p.log.Info("payment verified", slog.String("order_id", order.OrderID))
	if callbacks.OnSuccess != nil {
		callbacks.OnSuccess(details)
	}
	return nil
}

// ensureLoaded подготавливает среду виджета ровно один раз. Неудачная
// подготовка запоминается и отдаётся всем последующим платежам.
func (p *Payment) ensureLoaded(ctx context.Context) error {
	if p.loader == nil {
		return nil
	}
	p.loadOnce.Do(func() {
		p.loadErr = p.loader.Load(ctx)
	})
	return p.loadErr
}

func (p *Payment) fail(callbacks PaymentCallbacks, err error) {
	p.log.Error("payment failed", slog.Any("err", err))
	if callbacks.OnError != nil {
		callbacks.OnError(err)
	}
}
