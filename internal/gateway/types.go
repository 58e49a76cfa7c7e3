package gateway

// CreateOrderRequest представляет запрос на создание заказа.
type CreateOrderRequest struct {
	Amount   int               `json:"amount"`   // сумма в минимальных единицах валюты
	Currency string            `json:"currency"` // валюта, например "INR"
	Receipt  string            `json:"receipt"`  // внутренний идентификатор для сверки
	Notes    map[string]string `json:"notes,omitempty"`
}

// OrderResponse представляет ответ шлюза на создание заказа.
type OrderResponse struct {
	ID        string `json:"id"`       // ID заказа в шлюзе
	Amount    int    `json:"amount"`   // сумма
	Currency  string `json:"currency"` // валюта
	Status    string `json:"status"`   // статус заказа, например "created"
	Receipt   string `json:"receipt"`
	CreatedAt int64  `json:"created_at"`
}

// CheckoutResult — подписанный результат оплаты, который клиент получает
// от виджета шлюза и пересылает серверу для проверки.
type CheckoutResult struct {
	OrderID   string `json:"gateway_order_id"`
	PaymentID string `json:"gateway_payment_id"`
	Signature string `json:"gateway_signature"`
}
