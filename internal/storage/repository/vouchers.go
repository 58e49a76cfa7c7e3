package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/theclub367services-boop/club369/internal/models"
)

// ErrAlreadyClaimed возвращается при повторной попытке получить ваучер.
var ErrAlreadyClaimed = errors.New("voucher already claimed")

// CreateVoucher вставляет новый ваучер и возвращает его ID.
func (s *Storage) CreateVoucher(ctx context.Context, v models.Voucher) (string, error) {
	const op = "storage.CreateVoucher"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO vouchers (title, description, code, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		v.Title, v.Description, v.Code, v.IsActive).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetVoucher возвращает ваучер по ID.
func (s *Storage) GetVoucher(ctx context.Context, id string) (*models.Voucher, error) {
	const op = "storage.GetVoucher"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, code, is_active, created_at
			  FROM vouchers WHERE id = $1`
	var v models.Voucher
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Title, &v.Description, &v.Code, &v.IsActive, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &v, nil
}

// ListVouchers возвращает все ваучеры. При onlyActive отдаются
// только включённые — этот режим используется для списка участника.
func (s *Storage) ListVouchers(ctx context.Context, onlyActive bool) ([]*models.Voucher, error) {
	const op = "storage.ListVouchers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, code, is_active, created_at
			  FROM vouchers`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Voucher
	for rows.Next() {
		var v models.Voucher
		if err = rows.Scan(&v.ID, &v.Title, &v.Description, &v.Code, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ToggleVoucher переключает доступность ваучера и возвращает новое значение.
func (s *Storage) ToggleVoucher(ctx context.Context, id string) (bool, error) {
	const op = "storage.ToggleVoucher"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE vouchers SET is_active = NOT is_active WHERE id = $1 RETURNING is_active`
	var isActive bool
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return isActive, nil
}

// DeleteVoucher удаляет ваучер и возвращает количество удалённых строк.
func (s *Storage) DeleteVoucher(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteVoucher"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM vouchers WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ClaimVoucher фиксирует получение ваучера пользователем.
// Первичный ключ (voucher_id, user_uid) гарантирует идемпотентность:
// повторная вставка не проходит, и возвращается ErrAlreadyClaimed.
func (s *Storage) ClaimVoucher(ctx context.Context, voucherID, userUID string) error {
	const op = "storage.ClaimVoucher"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO voucher_claims (voucher_id, user_uid)
			  VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`
	result, err := s.DB.ExecContext(ctx, query, voucherID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAlreadyClaimed)
	}
	return nil
}

// ListClaimedVoucherIDs возвращает ID ваучеров, уже полученных пользователем.
func (s *Storage) ListClaimedVoucherIDs(ctx context.Context, userUID string) (map[string]bool, error) {
	const op = "storage.ListClaimedVoucherIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT voucher_id FROM voucher_claims WHERE user_uid = $1`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	claimed := make(map[string]bool)
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		claimed[id] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claimed, nil
}
