package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/theclub367services-boop/club369/internal/models"
)

const userColumns = `uid, name, email, mobile, password_hash, role, status,
			      profile_picture, membership_status, membership_end_date, autopay_enabled, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var membershipEndDate sql.NullTime
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.Mobile, &u.PasswordHash,
		&u.Role, &u.Status, &u.ProfilePicture, &u.MembershipStatus,
		&membershipEndDate, &u.AutopayEnabled, &u.CreatedAt); err != nil {
		return nil, err
	}
	if membershipEndDate.Valid {
		u.MembershipEndDate = &membershipEndDate.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (name, email, mobile, password_hash, role, status, membership_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Mobile, user.PasswordHash, user.Role,
		user.Status, user.MembershipStatus).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по электронной почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateProfile обновляет имя и телефон пользователя, возвращает свежую запись.
func (s *Storage) UpdateProfile(ctx context.Context, userUID, name, mobile string) (*models.User, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = COALESCE(NULLIF($1, ''), name),
			      mobile = COALESCE(NULLIF($2, ''), mobile)
			  WHERE uid = $3
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, name, mobile, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SaveProfilePicture сохраняет ссылку на аватар пользователя.
func (s *Storage) SaveProfilePicture(ctx context.Context, userUID, pictureURL string) error {
	const op = "storage.SaveProfilePicture"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET profile_picture = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, pictureURL, userUID)
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

// ActivateMembership отмечает оплату: статус учётной записи и членства
// становятся активными, срок членства продлевается до until.
func (s *Storage) ActivateMembership(ctx context.Context, userUID string, until time.Time) error {
	const op = "storage.ActivateMembership"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET status = $1,
			      membership_status = $2,
			      membership_end_date = $3
			  WHERE uid = $4`
	_, err := s.DB.ExecContext(ctx, query, models.StatusActive, models.MembershipActive, until, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ExpireLapsedMemberships переводит просроченные членства в EXPIRED.
// Возвращает количество затронутых записей.
func (s *Storage) ExpireLapsedMemberships(ctx context.Context) (int, error) {
	const op = "storage.ExpireLapsedMemberships"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET membership_status = $1
			  WHERE membership_status = $2 AND membership_end_date < NOW()`
	result, err := s.DB.ExecContext(ctx, query, models.MembershipExpired, models.MembershipActive)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindMembershipsExpiringWithin находит активные членства, истекающие
// в ближайшие days дней. Используется планировщиком напоминаний.
func (s *Storage) FindMembershipsExpiringWithin(ctx context.Context, days int) ([]*models.User, error) {
	const op = "storage.FindMembershipsExpiringWithin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE membership_status = $1
			    AND membership_end_date BETWEEN NOW() AND NOW() + make_interval(days => $2)`
	rows, err := s.DB.QueryContext(ctx, query, models.MembershipActive, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUsers возвращает список пользователей с пагинацией для админки.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteUser удаляет пользователя и возвращает количество удалённых строк.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
