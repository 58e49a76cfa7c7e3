package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/theclub367services-boop/club369/internal/models"
)

// CreateOrder сохраняет заказ, созданный на стороне шлюза.
func (s *Storage) CreateOrder(ctx context.Context, order models.PaymentOrder) (string, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_orders (user_uid, gateway_order_id, amount, currency, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		order.UserUID, order.GatewayOrderID, order.Amount, order.Currency, order.Status).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetOrderByGatewayID возвращает заказ по идентификатору шлюза.
func (s *Storage) GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.PaymentOrder, error) {
	const op = "storage.GetOrderByGatewayID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, gateway_order_id, amount, currency, status, created_at
			  FROM payment_orders
			  WHERE gateway_order_id = $1`
	var order models.PaymentOrder
	err := s.DB.QueryRowContext(ctx, query, gatewayOrderID).Scan(
		&order.ID, &order.UserUID, &order.GatewayOrderID, &order.Amount,
		&order.Currency, &order.Status, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &order, nil
}

// UpdateOrderStatus обновляет статус заказа.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id, status string) error {
	const op = "storage.UpdateOrderStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_orders SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
