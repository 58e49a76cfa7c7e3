// Package vouchertoggle реализует HTTP-обработчик переключения
// доступности ваучера.
package vouchertoggle

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
	"github.com/theclub367services-boop/club369/internal/models"
	"github.com/theclub367services-boop/club369/internal/storage/repository"
)

// Service описывает интерфейс переключения ваучера.
type Service interface {
	ToggleVoucher(ctx context.Context, id string) (*models.Voucher, error)
}

// Handler обрабатывает запросы переключения ваучера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Переключение ваучера
// @Description Включает или выключает ваучер. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param id path string true "ID ваучера"
// @Success 200 {object} response.Response "Обновлённый ваучер"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Ваучер не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/vouchers/{id}/toggle [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.vouchertoggle"

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

	voucher, err := h.service.ToggleVoucher(r.Context(), voucherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("voucher not found", slog.String("voucher_id", voucherID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("voucher not found"))
			return
		}
		log.Error("failed to toggle voucher", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle voucher"))
		return
	}

	log.Info("voucher toggled",
		slog.String("voucher_id", voucherID), slog.Bool("is_active", voucher.IsActive))
	render.JSON(w, r, response.OKWithMessage("voucher updated", map[string]any{
		"voucher": voucher,
	}))
}
