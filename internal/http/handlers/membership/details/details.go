// Package details реализует HTTP-обработчик проекции членства:
// статус, дата окончания, дата следующего списания и автоплатёж,
// плюс признак доступности продления.
package details

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
	"github.com/theclub367services-boop/club369/internal/services/membership"
)

// Service описывает интерфейс бизнес-логики проекции членства.
type Service interface {
	Details(ctx context.Context, userUID string) (models.MembershipDetails, error)
}

// Handler обрабатывает запросы проекции членства.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Данные членства
// @Description Возвращает проекцию членства текущего пользователя и признак доступности продления.
// @Tags Membership
// @Produce  json
// @Success 200 {object} response.Response "Проекция членства"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /membership/details [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.details"

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

	details, err := h.service.Details(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to load membership details", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load membership details"))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"membership":      details,
		"renewal_allowed": membership.RenewalAllowed(details, time.Now()),
	}))
}
