// Package register реализует HTTP-обработчик регистрации нового участника.
//
// Принимает JSON с именем, email, телефоном и паролем, валидирует поля,
// создает учётную запись через сервис аутентификации и сразу выпускает
// пару токенов: новый участник попадает в кабинет в статусе PENDING и
// до оплаты членства допускается только на страницу оплаты.
package register

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
	"github.com/theclub367services-boop/club369/internal/storage/repository"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,min=10,max=15"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, name, email, mobile, rawPassword string) (*models.User, auth.TokenPair, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация нового участника
// @Description Создает учётную запись и выпускает пару токенов в HttpOnly cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового участника"
// @Success 201 {object} response.Response "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	user, pair, err := h.service.Register(r.Context(), req.Name, req.Email, req.Mobile, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			log.Warn("email already registered", slog.String("email", req.Email))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		log.Error("failed to register user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	cookies.Set(w, pair.Access, pair.Refresh, h.accessTTL, h.refreshTTL)

	log.Info("user registered", slog.String("user_uid", user.UID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithMessage("registration successful", map[string]any{
		"user": models.NewProfile(user, h.assetBaseURL),
	}))
}
