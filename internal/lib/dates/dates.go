// Package dates содержит чистые функции для форматирования дат и расчёта
// окна продления членства.
package dates

import "time"

// NotAvailable возвращается вместо даты, когда значения нет или оно не парсится.
const NotAvailable = "N/A"

// Format приводит дату к виду DD-MM-YYYY. Для nil возвращает "N/A".
func Format(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.Format("02-01-2006")
}

// FormatString форматирует дату из строки в формате RFC3339.
// Пустая или некорректная строка даёт "N/A".
func FormatString(s string) string {
	if s == "" {
		return NotAvailable
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return NotAvailable
	}
	return Format(&t)
}

// DaysUntilCeil считает количество дней до момента t, округляя вверх:
// остаток неполного дня считается за целый день. Для прошедших дат
// результат неположительный.
func DaysUntilCeil(t, now time.Time) int {
	diff := t.Sub(now)
	days := diff / (24 * time.Hour)
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}
