// Package club — клиентский SDK для API клуба: HTTP-клиент с конвертом
// ответов и одноразовым обновлением токенов по 401, сессия с фоновой
// проверкой, маршрутные правила и оркестратор оплаты.
package club

import (
	"strings"
	"time"
)

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Статусы учётной записи.
const (
	StatusPending = "PENDING"
	StatusActive  = "ACTIVE"
)

// Статусы членства.
const (
	MembershipActive  = "ACTIVE"
	MembershipExpired = "EXPIRED"
	MembershipNone    = "NONE"
)

// User — профиль пользователя, как его отдаёт сервер.
type User struct {
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

// HasRole сравнивает роль без учёта регистра.
func (u *User) HasRole(role string) bool {
	return strings.EqualFold(u.Role, role)
}

// MembershipDetails — проекция членства для личного кабинета.
type MembershipDetails struct {
	Status          string `json:"status"`
	ExpiryDate      string `json:"expiryDate"`
	NextBillingDate string `json:"nextBillingDate"`
	AutopayStatus   string `json:"autopayStatus"`
}

// Voucher — партнёрский ваучер. Код раскрывается после получения.
type Voucher struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code,omitempty"`
	IsClaimed   bool   `json:"isClaimed"`
	IsActive    bool   `json:"isActive"`
}

// Transaction — запись журнала платежей, только для чтения.
type Transaction struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Date   time.Time `json:"date"`
	Amount int       `json:"amount"`
	Status string    `json:"status"`
	Method string    `json:"method"`
}

// Order — параметры платёжного заказа для открытия виджета.
// Сумма и валюта определяются сервером.
type Order struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// CheckoutResult — подписанный результат оплаты из виджета шлюза.
type CheckoutResult struct {
	OrderID   string `json:"gateway_order_id"`
	PaymentID string `json:"gateway_payment_id"`
	Signature string `json:"gateway_signature"`
}

// UploadSignature — подписанные параметры прямой загрузки изображения.
type UploadSignature struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}
