// Package login реализует HTTP-обработчик входа участника.
//
// Принимает JSON с email и паролем, валидирует поля и делегирует
// проверку сервису аутентификации. При успехе пара токенов пишется
// в HttpOnly cookie, а в ответе возвращается профиль пользователя.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/theclub367services-boop/club369/internal/http/cookies"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
	"github.com/theclub367services-boop/club369/internal/services/auth"
)

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, rawPassword string) (*models.User, auth.TokenPair, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log          *slog.Logger
	service      Service
	validate     *validator.Validate
	assetBaseURL string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, assetBaseURL string, accessTTL, refreshTTL time.Duration) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		validate:     validator.New(),
		assetBaseURL: assetBaseURL,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

// ServeHTTP godoc
// @Summary Вход участника
// @Description Аутентифицирует участника по email и паролю, выпускает пару токенов в HttpOnly cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	user, pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Warn("invalid credentials", slog.String("email", req.Email))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not log in"))
		return
	}

	cookies.Set(w, pair.Access, pair.Refresh, h.accessTTL, h.refreshTTL)

	log.Info("login success", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithMessage("login successful", map[string]any{
		"user": models.NewProfile(user, h.assetBaseURL),
	}))
}
