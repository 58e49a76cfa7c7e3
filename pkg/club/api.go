package club

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// LoginRequest — данные входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest — данные регистрации.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// UpdateProfileRequest — частичное обновление профиля.
// Пустые поля не отправляются и не изменяются.
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

type userData struct {
	User *User `json:"user"`
}

type membershipData struct {
	Membership     *MembershipDetails `json:"membership"`
	RenewalAllowed bool               `json:"renewal_allowed"`
}

type vouchersData struct {
	Vouchers []Voucher `json:"vouchers"`
}

type voucherData struct {
	Voucher *Voucher `json:"voucher"`
}

type transactionsData struct {
	Transactions []Transaction `json:"transactions"`
}

type orderData struct {
	Order *Order `json:"order"`
}

// Login выполняет вход. Cookie с токенами выставляет сервер;
// возвращённый профиль — ориентировочный, сессия перепроверяет его
// отдельным запросом GetMe.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*User, error) {
	var data userData
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// Register создает учётную запись и сразу открывает сессию.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var data userData
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// Logout завершает сессию на сервере.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// GetMe возвращает текущий профиль. Это единственный источник истины
// о состоянии аутентификации.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var data userData
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// UpdateProfile изменяет имя и телефон текущего пользователя.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var data userData
	if err := c.do(ctx, http.MethodPatch, "/auth/me", req, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// GetMembershipDetails возвращает сведения о членстве и флаг
// доступности продления, рассчитанный сервером.
func (c *Client) GetMembershipDetails(ctx context.Context) (*MembershipDetails, bool, error) {
	var data membershipData
	if err := c.do(ctx, http.MethodGet, "/membership/details", nil, &data); err != nil {
		return nil, false, err
	}
	return data.Membership, data.RenewalAllowed, nil
}

// GetTransactions возвращает страницу журнала платежей.
func (c *Client) GetTransactions(ctx context.Context, limit, offset int) ([]Transaction, error) {
	var data transactionsData
	path := paged("/membership/transactions", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Transactions, nil
}

// GetVouchers возвращает активные ваучеры.
func (c *Client) GetVouchers(ctx context.Context) ([]Voucher, error) {
	var data vouchersData
	if err := c.do(ctx, http.MethodGet, "/vouchers", nil, &data); err != nil {
		return nil, err
	}
	return data.Vouchers, nil
}

// ClaimVoucher получает ваучер. Возвращённая запись содержит код.
func (c *Client) ClaimVoucher(ctx context.Context, voucherID string) (*Voucher, error) {
	var data voucherData
	path := "/vouchers/claim/" + url.PathEscape(voucherID)
	if err := c.do(ctx, http.MethodPost, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Voucher, nil
}

// CreateOrder создает платёжный заказ. Сумму и валюту задаёт сервер.
func (c *Client) CreateOrder(ctx context.Context) (*Order, error) {
	var data orderData
	if err := c.do(ctx, http.MethodPost, "/payments/create-order", nil, &data); err != nil {
		return nil, err
	}
	return data.Order, nil
}

// VerifyPayment отправляет подписанный результат оплаты на проверку
// и возвращает обновлённые сведения о членстве.
func (c *Client) VerifyPayment(ctx context.Context, result CheckoutResult) (*MembershipDetails, error) {
	var data membershipData
	if err := c.do(ctx, http.MethodPost, "/payments/verify", result, &data); err != nil {
		return nil, err
	}
	return data.Membership, nil
}

// GetUploadSignature возвращает подписанные параметры прямой загрузки
// изображения профиля.
func (c *Client) GetUploadSignature(ctx context.Context) (*UploadSignature, error) {
	var sig UploadSignature
	if err := c.do(ctx, http.MethodGet, "/profile/upload-signature", nil, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

// SavePicture привязывает загруженное изображение к профилю.
func (c *Client) SavePicture(ctx context.Context, pictureURL string) (*User, error) {
	var data userData
	body := map[string]string{"picture_url": pictureURL}
	if err := c.do(ctx, http.MethodPost, "/profile/save-picture", body, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

func paged(path string, limit, offset int) string {
	if limit <= 0 && offset <= 0 {
		return path
	}
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	return fmt.Sprintf("%s?%s", path, q.Encode())
}
