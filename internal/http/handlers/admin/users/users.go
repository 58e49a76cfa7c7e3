// Package users реализует HTTP-обработчик списка пользователей для админки.
package users

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

const defaultLimit = 50

// Service описывает интерфейс списка пользователей.
type Service interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// Handler обрабатывает запросы списка пользователей.
type Handler struct {
	log          *slog.Logger
	service      Service
	assetBaseURL string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, assetBaseURL string) *Handler {
	return &Handler{log: log, service: service, assetBaseURL: assetBaseURL}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает пользователей клуба с пагинацией. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 50, максимум 200)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.users"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := defaultLimit
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load users"))
		return
	}

	profiles := make([]models.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, models.NewProfile(u, h.assetBaseURL))
	}

	render.JSON(w, r, response.OK(map[string]any{
		"users": profiles,
	}))
}
