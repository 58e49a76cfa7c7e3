// Package updateprofile реализует HTTP-обработчик изменения профиля.
// Обновляются только имя и телефон; пустые поля оставляют текущее значение.
package updateprofile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

// Request — структура входных данных для изменения профиля.
type Request struct {
	Name   string `json:"name" validate:"omitempty,min=2,max=100"`
	Mobile string `json:"mobile" validate:"omitempty,min=10,max=15"`
}

// Service описывает интерфейс бизнес-логики изменения профиля.
type Service interface {
	UpdateProfile(ctx context.Context, userUID, name, mobile string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы изменения профиля.
type Handler struct {
	log          *slog.Logger
	service      Service
	validate     *validator.Validate
	assetBaseURL string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, assetBaseURL string) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		validate:     validator.New(),
		assetBaseURL: assetBaseURL,
	}
}

// ServeHTTP godoc
// @Summary Изменение профиля
// @Description Обновляет имя и телефон текущего пользователя.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Новые значения полей"
// @Success 200 {object} response.Response "Обновлённый профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/me [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.updateprofile"

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

	updated, err := h.service.UpdateProfile(r.Context(), user.UID, req.Name, req.Mobile)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update profile"))
		return
	}

	log.Info("profile updated", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithMessage("profile updated", map[string]any{
		"user": models.NewProfile(updated, h.assetBaseURL),
	}))
}
