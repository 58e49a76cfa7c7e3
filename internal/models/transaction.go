package models

import "time"

// Статусы платёжных операций.
const (
	TransactionSuccess = "success"
	TransactionFailed  = "failed"
	TransactionPending = "pending"
)

// Transaction — запись журнала платежей. Журнал только пополняется,
// клиенту записи отдаются в режиме чтения.
type Transaction struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Date   time.Time `json:"date"`
	Amount int       `json:"amount"`
	Status string    `json:"status"` // success, failed или pending
	Method string    `json:"method"`
}

// PaymentOrder — заказ, созданный на стороне шлюза перед оплатой.
// Сумма и валюта определяются сервером, клиент их не присылает.
type PaymentOrder struct {
	ID             string    // Внутренний идентификатор заказа
	UserUID        string    // Владелец заказа
	GatewayOrderID string    // Идентификатор заказа в шлюзе
	Amount         int       // Сумма в минимальных единицах валюты
	Currency       string    // Валюта заказа
	Status         string    // created, paid или failed
	CreatedAt      time.Time // Время создания
}

// Статусы заказов.
const (
	OrderCreated = "created"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)
