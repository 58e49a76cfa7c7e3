// Package health реализует HTTP-обработчик проверки работоспособности.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/storage/repository"
)

// Handler обрабатывает запросы проверки работоспособности.
type Handler struct {
	log     *slog.Logger
	storage *repository.Storage
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, storage *repository.Storage) *Handler {
	return &Handler{log: log, storage: storage}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Description Проверяет доступность базы данных.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Сервис работает"
// @Failure 503 {object} response.ErrorResponse "База данных недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := repository.CheckDatabaseReady(h.storage); err != nil {
		h.log.Error("database is not ready", sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}
	render.JSON(w, r, response.OK(map[string]any{"status": "ok"}))
}
