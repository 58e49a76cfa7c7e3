// Package claim реализует HTTP-обработчик получения ваучера.
//
// Получение идемпотентно на уровне хранилища: повторный запрос
// завершается HTTP 409, уже полученный ваучер при этом не отзывается.
package claim

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
	"github.com/theclub367services-boop/club369/internal/storage/repository"
)

// Service описывает интерфейс получения ваучера.
type Service interface {
	ClaimVoucher(ctx context.Context, userUID, voucherID string) (*models.Voucher, error)
}

// Handler обрабатывает запросы получения ваучера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получение ваучера
// @Description Фиксирует получение ваучера и раскрывает его код.
// @Tags Vouchers
// @Produce  json
// @Param id path string true "ID ваучера"
// @Success 200 {object} response.Response "Полученный ваучер с кодом"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Ваучер не найден"
// @Failure 409 {object} response.ErrorResponse "Ваучер уже получен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /vouchers/claim/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voucher.claim"

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

	voucherID := chi.URLParam(r, "id")
	if voucherID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("voucher id required"))
		return
	}

	voucher, err := h.service.ClaimVoucher(r.Context(), user.UID, voucherID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Warn("voucher not found", slog.String("voucher_id", voucherID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("voucher not found"))
		case errors.Is(err, repository.ErrAlreadyClaimed):
			log.Info("voucher already claimed", slog.String("voucher_id", voucherID))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("voucher already claimed"))
		default:
			log.Error("failed to claim voucher", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not claim voucher"))
		}
		return
	}

	log.Info("voucher claimed", slog.String("voucher_id", voucherID), slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithMessage("voucher claimed", map[string]any{
		"voucher": voucher,
	}))
}
