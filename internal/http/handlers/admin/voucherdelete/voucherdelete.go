// Package voucherdelete реализует HTTP-обработчик удаления ваучера.
package voucherdelete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/services/admin"
)

// Service описывает интерфейс удаления ваучера.
type Service interface {
	DeleteVoucher(ctx context.Context, id string) error
}

// Handler обрабатывает запросы удаления ваучера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление ваучера
// @Description Удаляет ваучер вместе с заявками на него. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param id path string true "ID ваучера"
// @Success 200 {object} response.Response "Ваучер удалён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Ваучер не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/vouchers/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.voucherdelete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	voucherID := chi.URLParam(r, "id")
	if voucherID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("voucher id required"))
		return
	}

	if err := h.service.DeleteVoucher(r.Context(), voucherID); err != nil {
		if errors.Is(err, admin.ErrVoucherNotFound) {
			log.Warn("voucher not found", slog.String("voucher_id", voucherID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("voucher not found"))
			return
		}
		log.Error("failed to delete voucher", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete voucher"))
		return
	}

	log.Info("voucher deleted", slog.String("voucher_id", voucherID))
	render.JSON(w, r, response.OKWithMessage("voucher deleted", nil))
}
