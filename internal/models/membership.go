package models

import "time"

// Статусы автосписания.
const (
	AutopayActive   = "active"
	AutopayInactive = "inactive"
)

// MembershipDetails — проекция членства для личного кабинета.
// Используется для отображения срока действия и права на продление.
type MembershipDetails struct {
	Status          string `json:"status"`          // ACTIVE, EXPIRED или NONE
	ExpiryDate      string `json:"expiryDate"`      // RFC3339, пустая строка при отсутствии
	NextBillingDate string `json:"nextBillingDate"` // RFC3339, пустая строка при отсутствии
	AutopayStatus   string `json:"autopayStatus"`   // active или inactive
}

// NewMembershipDetails собирает проекцию из данных пользователя.
// Просроченная дата окончания даёт статус EXPIRED независимо от
// сохранённого значения.
func NewMembershipDetails(u *User, now time.Time) MembershipDetails {
	details := MembershipDetails{
		Status:        MembershipNone,
		AutopayStatus: AutopayInactive,
	}
	if u.MembershipStatus != "" {
		details.Status = u.MembershipStatus
	}
	if u.MembershipEndDate != nil {
		details.ExpiryDate = u.MembershipEndDate.Format(time.RFC3339)
		details.NextBillingDate = u.MembershipEndDate.Format(time.RFC3339)
		if details.Status == MembershipActive && u.MembershipEndDate.Before(now) {
			details.Status = MembershipExpired
		}
	}
	if u.AutopayEnabled {
		details.AutopayStatus = AutopayActive
	}
	return details
}
