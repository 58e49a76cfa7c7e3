// Package payment реализует платёжный цикл членства: создание заказа
// в шлюзе и проверку подписанного результата оплаты. Сумма и валюта
// заказа определяются сервером; клиент присылает только подписанный
// результат, который сверяется с секретом шлюза.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/theclub367services-boop/club369/internal/gateway"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

// ErrVerificationFailed возвращается при неверной подписи результата оплаты.
var ErrVerificationFailed = errors.New("payment verification failed")

// ErrOrderOwnership возвращается, когда заказ принадлежит другому пользователю.
var ErrOrderOwnership = errors.New("order belongs to another user")

// Repository определяет методы хранилища, нужные платёжному циклу.
type Repository interface {
	CreateOrder(ctx context.Context, order models.PaymentOrder) (string, error)
	GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.PaymentOrder, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	CreateTransaction(ctx context.Context, tx models.Transaction) (string, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ActivateMembership(ctx context.Context, userUID string, until time.Time) error
}

// GatewayClient описывает операции платёжного шлюза.
type GatewayClient interface {
	CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.OrderResponse, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// DetailsInvalidator сбрасывает кешированную проекцию членства.
type DetailsInvalidator interface {
	InvalidateDetails(ctx context.Context, userUID string)
}

// ReceiptPublisher отправляет квитанцию об оплате в очередь уведомлений.
type ReceiptPublisher interface {
	PublishReceipt(receipt Receipt) error
}

// Receipt — событие успешной оплаты для сервиса уведомлений.
type Receipt struct {
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Amount   int       `json:"amount"`
	Currency string    `json:"currency"`
	PaidAt   time.Time `json:"paid_at"`
	ValidTo  time.Time `json:"valid_to"`
}

// OrderInfo — данные заказа, которые получает клиент для открытия виджета.
type OrderInfo struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// Config — серверные параметры платежа.
type Config struct {
	MembershipFee int // сумма в минимальных единицах валюты
	Currency      string
	KeyID         string // публичный ключ для инициализации виджета
	PaymentMethod string // значение поля method в журнале
}

// Service реализует платёжный цикл.
type Service struct {
	repo       Repository
	gw         GatewayClient
	membership DetailsInvalidator
	publisher  ReceiptPublisher
	cfg        Config
	log        *slog.Logger
}

// New создает новый экземпляр Service. publisher может быть nil —
// тогда квитанции не публикуются.
func New(repo Repository, gw GatewayClient, membership DetailsInvalidator,
	publisher ReceiptPublisher, cfg Config, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		gw:         gw,
		membership: membership,
		publisher:  publisher,
		cfg:        cfg,
		log:        log,
	}
}

// CreateOrder создает заказ в шлюзе и сохраняет его локально.
// Сумма берётся из конфигурации, а не из запроса клиента.
func (s *Service) CreateOrder(ctx context.Context, userUID string) (*OrderInfo, error) {
	const op = "payment.CreateOrder"

	receipt := uuid.NewString()
	gwOrder, err := s.gw.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:   s.cfg.MembershipFee,
		Currency: s.cfg.Currency,
		Receipt:  receipt,
		Notes:    map[string]string{"user_uid": userUID},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order := models.PaymentOrder{
		UserUID:        userUID,
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		Status:         models.OrderCreated,
	}
	if _, err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment order created",
		slog.String("gateway_order_id", gwOrder.ID), slog.String("user_uid", userUID))

	return &OrderInfo{
		OrderID:  gwOrder.ID,
		Amount:   gwOrder.Amount,
		Currency: gwOrder.Currency,
		KeyID:    s.cfg.KeyID,
	}, nil
}

// Verify проверяет подписанный результат оплаты. При успехе фиксируется
// успешная операция в журнале, членство продлевается на месяц и кеш
// проекции сбрасывается; при неверной подписи фиксируется неуспешная
// операция и возвращается ErrVerificationFailed.
func (s *Service) Verify(ctx context.Context, userUID string, result gateway.CheckoutResult) (models.MembershipDetails, error) {
	const op = "payment.Verify"

	order, err := s.repo.GetOrderByGatewayID(ctx, result.OrderID)
	if err != nil {
		return models.MembershipDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	if order.UserUID != userUID {
		return models.MembershipDetails{}, fmt.Errorf("%s: %w", op, ErrOrderOwnership)
	}

	if !s.gw.VerifySignature(result.OrderID, result.PaymentID, result.Signature) {
		s.recordOutcome(ctx, order, models.OrderFailed, models.TransactionFailed)
		return models.MembershipDetails{}, fmt.Errorf("%s: %w", op, ErrVerificationFailed)
	}

	s.recordOutcome(ctx, order, models.OrderPaid, models.TransactionSuccess)

	until, err := s.extendMembership(ctx, order.UserUID)
	if err != nil {
		return models.MembershipDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	s.membership.InvalidateDetails(ctx, order.UserUID)

	s.publishReceipt(ctx, order, until)

	user, err := s.repo.GetUser(ctx, order.UserUID)
	if err != nil {
		return models.MembershipDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.NewMembershipDetails(user, time.Now()), nil
}

// recordOutcome пишет итог оплаты в журнал и на заказ. Ошибки записи
// не прерывают проверку, только логируются.
func (s *Service) recordOutcome(ctx context.Context, order *models.PaymentOrder, orderStatus, txStatus string) {
	if err := s.repo.UpdateOrderStatus(ctx, order.ID, orderStatus); err != nil {
		s.log.Error("failed to update order status", sl.Err(err))
	}
	_, err := s.repo.CreateTransaction(ctx, models.Transaction{
		User:   order.UserUID,
		Amount: order.Amount,
		Status: txStatus,
		Method: s.cfg.PaymentMethod,
	})
	if err != nil {
		s.log.Error("failed to record transaction", sl.Err(err))
	}
}

// extendMembership продлевает членство на месяц: от текущей даты окончания,
// если она ещё не прошла, иначе от текущего момента.
func (s *Service) extendMembership(ctx context.Context, userUID string) (time.Time, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return time.Time{}, err
	}
	base := time.Now()
	if user.MembershipEndDate != nil && user.MembershipEndDate.After(base) {
		base = *user.MembershipEndDate
	}
	until := base.AddDate(0, 1, 0)
	if err := s.repo.ActivateMembership(ctx, userUID, until); err != nil {
		return time.Time{}, err
	}
	return until, nil
}

func (s *Service) publishReceipt(ctx context.Context, order *models.PaymentOrder, validTo time.Time) {
	if s.publisher == nil {
		return
	}
	user, err := s.repo.GetUser(ctx, order.UserUID)
	if err != nil {
		s.log.Error("failed to load user for receipt", sl.Err(err))
		return
	}
	receipt := Receipt{
		Email:    user.Email,
		Name:     user.Name,
		Amount:   order.Amount,
		Currency: order.Currency,
		PaidAt:   time.Now(),
		ValidTo:  validTo,
	}
	if err := s.publisher.PublishReceipt(receipt); err != nil {
		s.log.Error("failed to publish receipt", sl.Err(err))
	}
}
