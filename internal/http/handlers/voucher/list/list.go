// Package list реализует HTTP-обработчик списка ваучеров участника.
// Коды ваучеров раскрываются только для уже полученных.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

// Service описывает интерфейс списка ваучеров.
type Service interface {
	Vouchers(ctx context.Context, userUID string) ([]models.Voucher, error)
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
// @Summary Список ваучеров
// @Description Возвращает активные ваучеры с отметкой о получении.
// @Tags Vouchers
// @Produce  json
// @Success 200 {object} response.Response "Список ваучеров"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /vouchers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voucher.list"

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

	vouchers, err := h.service.Vouchers(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to list vouchers", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load vouchers"))
		return
	}
	if vouchers == nil {
		vouchers = []models.Voucher{}
	}

	render.JSON(w, r, response.OK(map[string]any{
		"vouchers": vouchers,
	}))
}
