// Package collections реализует HTTP-обработчик сводки по сборам.
package collections

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/services/admin"
)

// Service описывает интерфейс сводки по сборам.
type Service interface {
	Collections(ctx context.Context) (admin.Collections, error)
}

// Handler обрабатывает запросы сводки по сборам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводка по сборам
// @Description Возвращает сумму успешных платежей за последние 30 дней. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Сводка по сборам"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/collections [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.collections"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	collections, err := h.service.Collections(r.Context())
	if err != nil {
		log.Error("failed to load collections", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load collections"))
		return
	}

	render.JSON(w, r, response.OK(collections))
}
