// Package transactions реализует HTTP-обработчик журнала платежей участника.
package transactions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

const defaultLimit = 20

// Service описывает интерфейс журнала платежей.
type Service interface {
	Transactions(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error)
}

// Handler обрабатывает запросы журнала платежей участника.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ParsePagination читает limit и offset из query-параметров.
func ParsePagination(r *http.Request) (int, int) {
	limit := defaultLimit
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// ServeHTTP godoc
// @Summary Журнал платежей участника
// @Description Возвращает платежи текущего пользователя, новые первыми.
// @Tags Membership
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /membership/transactions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.transactions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user missing from context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	limit, offset := ParsePagination(r)
	txs, err := h.service.Transactions(r.Context(), user.UID, limit, offset)
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
