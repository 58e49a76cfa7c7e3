package club

import (
	"strings"
	"time"
)

// NotAvailable подставляется вместо отсутствующей даты.
const NotAvailable = "N/A"

const displayDateLayout = "02-01-2006"

// FormatDate приводит дату сервера к виду ДД-ММ-ГГГГ. Пустая или
// нераспознанная строка отображается как N/A.
func FormatDate(value string) string {
	if value == "" {
		return NotAvailable
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return NotAvailable
}

// FullURL достраивает относительный путь изображения до абсолютного
// адреса. Абсолютные и data: адреса возвращаются как есть.
func FullURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "data:") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
