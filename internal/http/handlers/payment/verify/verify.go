// Package verify реализует HTTP-обработчик проверки результата оплаты.
//
// Клиент присылает подписанный результат виджета; подпись сверяется
// с секретом шлюза. Успешная проверка активирует членство и возвращает
// свежую проекцию, неуспешная фиксируется в журнале платежей.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/theclub367services-boop/club369/internal/gateway"
	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
	"github.com/theclub367services-boop/club369/internal/services/payment"
	"github.com/theclub367services-boop/club369/internal/storage/repository"
)

// Request — подписанный результат оплаты из виджета.
type Request struct {
	OrderID   string `json:"gateway_order_id" validate:"required"`
	PaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature string `json:"gateway_signature" validate:"required"`
}

// Service описывает интерфейс проверки оплаты.
type Service interface {
	Verify(ctx context.Context, userUID string, result gateway.CheckoutResult) (models.MembershipDetails, error)
}

// Handler обрабатывает запросы проверки оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверка результата оплаты
// @Description Сверяет подпись результата оплаты и активирует членство.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Подписанный результат оплаты"
// @Success 200 {object} response.Response "Членство активировано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неверная подпись"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	details, err := h.service.Verify(r.Context(), user.UID, gateway.CheckoutResult{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Warn("order not found", slog.String("gateway_order_id", req.OrderID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
		case errors.Is(err, payment.ErrOrderOwnership):
			log.Warn("order ownership mismatch", slog.String("gateway_order_id", req.OrderID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("order belongs to another user"))
		case errors.Is(err, payment.ErrVerificationFailed):
			log.Warn("payment verification failed", slog.String("gateway_order_id", req.OrderID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
		default:
			log.Error("failed to verify payment", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify payment"))
		}
		return
	}

	log.Info("payment verified", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithMessage("membership activated", map[string]any{
		"membership": details,
	}))
}
