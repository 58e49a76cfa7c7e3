// Package transactions реализует HTTP-обработчик полного журнала платежей
// для админки.
package transactions

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	membertx "github.com/theclub367services-boop/club369/internal/http/handlers/membership/transactions"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

// Service описывает интерфейс полного журнала платежей.
type Service interface {
	Transactions(ctx context.Context, limit, offset int) ([]*models.Transaction, error)
}

// Handler обрабатывает запросы полного журнала платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Полный журнал платежей
// @Description Возвращает платежи всех пользователей с пагинацией. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/transactions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.transactions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := membertx.ParsePagination(r)
	txs, err := h.service.Transactions(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list transactions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load transactions"))
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}

	render.JSON(w, r, response.OK(map[string]any{
		"transactions": txs,
	}))
}
