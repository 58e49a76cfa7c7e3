// Package savepicture реализует HTTP-обработчик сохранения пути
// загруженного изображения профиля.
package savepicture

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

// Request — структура входных данных с путём к загруженному изображению.
type Request struct {
	PictureURL string `json:"picture_url" validate:"required,max=500"`
}

// Service описывает интерфейс сохранения изображения профиля.
type Service interface {
	SavePicture(ctx context.Context, userUID, path string) (*models.User, error)
}

// Handler обрабатывает запросы сохранения изображения профиля.
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
// @Summary Сохранение изображения профиля
// @Description Привязывает загруженное изображение к профилю пользователя.
// @Tags Profile
// @Accept  json
// @Produce  json
// @Param request body Request true "Путь к загруженному изображению"
// @Success 200 {object} response.Response "Обновлённый профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile/save-picture [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.savepicture"

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

	updated, err := h.service.SavePicture(r.Context(), user.UID, req.PictureURL)
	if err != nil {
		log.Error("failed to save profile picture", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save profile picture"))
		return
	}

	log.Info("profile picture saved", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithMessage("profile picture saved", map[string]any{
		"user": models.NewProfile(updated, h.assetBaseURL),
	}))
}
