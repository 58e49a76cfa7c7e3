// Package urls нормализует ссылки на изображения и другие ресурсы.
//
// Бэкенд хранит как абсолютные ссылки (CDN), так и относительные пути;
// клиентам всегда отдаётся полная ссылка.
package urls

import "strings"

// Full пропускает абсолютные и data: ссылки без изменений,
// относительные пути дополняет базовым адресом ресурсов.
// Для пустого пути возвращает пустую строку.
func Full(baseURL, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "data:") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(baseURL, "/") + path
}
