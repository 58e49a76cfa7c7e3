// Package voucherlist реализует HTTP-обработчик списка всех ваучеров
// для админки, включая выключенные и с раскрытыми кодами.
package voucherlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

// Service описывает интерфейс списка ваучеров для админки.
type Service interface {
	Vouchers(ctx context.Context) ([]*models.Voucher, error)
}

// Handler обрабатывает запросы списка ваучеров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список всех ваучеров
// @Description Возвращает все ваучеры, включая выключенные. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Список ваучеров"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/vouchers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.voucherlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	vouchers, err := h.service.Vouchers(r.Context())
	if err != nil {
		log.Error("failed to list vouchers", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load vouchers"))
		return
	}
	if vouchers == nil {
		vouchers = []*models.Voucher{}
	}

	render.JSON(w, r, response.OK(map[string]any{
		"vouchers": vouchers,
	}))
}
