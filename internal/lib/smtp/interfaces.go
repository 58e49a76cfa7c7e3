// Package smtp реализует почтовый транспорт для сервиса уведомлений.
package smtp

import "io"

// Client описывает минимальный набор операций SMTP-сессии,
// нужный отправителю писем. Выделен в интерфейс ради подмены в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
