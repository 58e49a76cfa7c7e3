package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/theclub367services-boop/club369/internal/models"
)

// CreateTransaction добавляет запись в журнал платежей и возвращает её ID.
// Журнал только пополняется, обновления записей не предусмотрены.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.Transaction) (string, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO transactions (user_uid, amount, status, method)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		tx.User, tx.Amount, tx.Status, tx.Method).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListTransactionsByUser возвращает платежи пользователя с пагинацией.
func (s *Storage) ListTransactionsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error) {
	const op = "storage.ListTransactionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, date, amount, status, method
			  FROM transactions
			  WHERE user_uid = $1
			  ORDER BY date DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err = rows.Scan(&tx.ID, &tx.User, &tx.Date, &tx.Amount, &tx.Status, &tx.Method); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllTransactions возвращает все платежи с пагинацией для админки.
func (s *Storage) ListAllTransactions(ctx context.Context, limit, offset int) ([]*models.Transaction, error) {
	const op = "storage.ListAllTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, date, amount, status, method
			  FROM transactions
			  ORDER BY date DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err = rows.Scan(&tx.ID, &tx.User, &tx.Date, &tx.Amount, &tx.Status, &tx.Method); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumCollectedSince считает сумму успешных платежей начиная с момента since.
func (s *Storage) SumCollectedSince(ctx context.Context, since time.Time) (int, error) {
	const op = "storage.SumCollectedSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM transactions
			  WHERE status = $1 AND date >= $2`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, models.TransactionSuccess, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
