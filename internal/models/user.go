// Package models содержит доменные структуры клуба: пользователей,
// членство, ваучеры и платёжные операции.
package models

import (
	"strings"
	"time"

	"github.com/theclub367services-boop/club369/internal/lib/urls"
)

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Статусы учётной записи. Новый пользователь создаётся со статусом PENDING
// и до первой оплаты допускается только на страницу оплаты.
const (
	StatusPending = "PENDING"
	StatusActive  = "ACTIVE"
	StatusBlocked = "BLOCKED"
)

// Статусы членства.
const (
	MembershipActive  = "ACTIVE"
	MembershipExpired = "EXPIRED"
	MembershipNone    = "NONE"
)

// User представляет зарегистрированного пользователя клуба.
type User struct {
	UID               string     // Уникальный идентификатор пользователя
	Name              string     // Отображаемое имя
	Email             string     // Электронная почта (уникальная)
	Mobile            string     // Телефон, может быть пустым
	PasswordHash      string     // Хэш пароля
	Role              string     // admin или user
	Status            string     // Статус учётной записи
	ProfilePicture    string     // Ссылка или путь к аватару
	MembershipStatus  string     // ACTIVE, EXPIRED или NONE
	MembershipEndDate *time.Time // Дата окончания членства
	AutopayEnabled    bool       // Включено ли автосписание
	CreatedAt         time.Time  // Дата регистрации
}

// HasRole сравнивает роль без учёта регистра.
func (u *User) HasRole(role string) bool {
	return strings.EqualFold(u.Role, role)
}

// Profile — представление пользователя, которое отдаётся клиенту.
// Имена полей совпадают с контрактом API.
type Profile struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	Mobile            string `json:"mobile,omitempty"`
	ProfilePicture    string `json:"profile_picture,omitempty"`
	Status            string `json:"status"`
	MembershipStatus  string `json:"membership_status,omitempty"`
	MembershipEndDate string `json:"membership_end_date,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// NewProfile собирает Profile из доменной модели, нормализуя ссылку на аватар.
func NewProfile(u *User, assetBaseURL string) Profile {
	p := Profile{
		ID:               u.UID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Mobile:           u.Mobile,
		ProfilePicture:   urls.Full(assetBaseURL, u.ProfilePicture),
		Status:           u.Status,
		MembershipStatus: u.MembershipStatus,
	}
	if u.MembershipEndDate != nil {
		p.MembershipEndDate = u.MembershipEndDate.Format(time.RFC3339)
	}
	if !u.CreatedAt.IsZero() {
		p.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return p
}
