package models

import "time"

// Voucher представляет партнёрский ваучер клуба.
// Code раскрывается пользователю только после получения ваучера.
type Voucher struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code,omitempty"`
	IsClaimed   bool      `json:"isClaimed"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"-"`
}

// ForMember возвращает копию ваучера, подготовленную для выдачи пользователю:
// код скрыт, пока ваучер не получен.
func (v Voucher) ForMember(claimed bool) Voucher {
	out := v
	out.IsClaimed = claimed
	if !claimed {
		out.Code = ""
	}
	return out
}
