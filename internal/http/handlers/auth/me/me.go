// Package me реализует HTTP-обработчик текущего профиля.
// Клиент опрашивает этот маршрут при восстановлении сессии
// и периодически для проверки её актуальности.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/models"
)

// Handler обрабатывает запросы текущего профиля.
type Handler struct {
	log          *slog.Logger
	assetBaseURL string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, assetBaseURL string) *Handler {
	return &Handler{log: log, assetBaseURL: assetBaseURL}
}

// ServeHTTP godoc
// @Summary Текущий профиль
// @Description Возвращает профиль аутентифицированного пользователя.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

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

	render.JSON(w, r, response.OK(map[string]any{
		"user": models.NewProfile(user, h.assetBaseURL),
	}))
}
