// Package userdelete реализует HTTP-обработчик удаления пользователя.
package userdelete

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
	"github.com/theclub367services-boop/club369/internal/services/admin"
)

// Service описывает интерфейс удаления пользователя.
type Service interface {
	DeleteUser(ctx context.Context, userUID string) error
}

// Handler обрабатывает запросы удаления пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление пользователя
// @Description Удаляет пользователя вместе с его заявками и заказами. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Пользователь удалён"
// @Failure 400 {object} response.ErrorResponse "Нельзя удалить самого себя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userdelete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if userUID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("user uid required"))
		return
	}

	if current, ok := middlewarectx.UserFromContext(r.Context()); ok && current.UID == userUID {
		log.Warn("attempt to delete own account", slog.String("user_uid", userUID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("cannot delete own account"))
		return
	}

	if err := h.service.DeleteUser(r.Context(), userUID); err != nil {
		if errors.Is(err, admin.ErrUserNotFound) {
			log.Warn("user not found", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to delete user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete user"))
		return
	}

	log.Info("user deleted", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithMessage("user deleted", nil))
}
