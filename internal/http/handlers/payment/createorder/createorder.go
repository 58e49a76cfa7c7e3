// Package createorder реализует HTTP-обработчик создания платёжного заказа.
//
// Сумма и валюта определяются сервером из конфигурации: тело запроса
// не содержит параметров, любые присланные значения игнорируются.
package createorder

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/services/payment"
)

// Service описывает интерфейс создания заказа.
type Service interface {
	CreateOrder(ctx context.Context, userUID string) (*payment.OrderInfo, error)
}

// Handler обрабатывает запросы создания платёжного заказа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создание платёжного заказа
// @Description Создает заказ в платёжном шлюзе и возвращает параметры для открытия виджета оплаты.
// @Tags Payments
// @Produce  json
// @Success 200 {object} response.Response "Параметры заказа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Шлюз недоступен"
// @Router /payments/create-order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.createorder"

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

	order, err := h.service.CreateOrder(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to create payment order", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not create payment order"))
		return
	}

	log.Info("payment order created", slog.String("order_id", order.OrderID))
	render.JSON(w, r, response.OK(map[string]any{
		"order": order,
	}))
}
