// Package vouchercreate реализует HTTP-обработчик создания ваучера.
package vouchercreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

// Request — структура входных данных для создания ваучера.
type Request struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Code        string `json:"code" validate:"required,min=2,max=100"`
}

// Service описывает интерфейс создания ваучера.
type Service interface {
	CreateVoucher(ctx context.Context, title, description, code string) (*models.Voucher, error)
}

// Handler обрабатывает запросы создания ваучера.
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
// @Summary Создание ваучера
// @Description Создает новый ваучер, по умолчанию включённый. Доступно только администратору.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового ваучера"
// @Success 201 {object} response.Response "Созданный ваучер"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/vouchers [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.vouchercreate"

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

	voucher, err := h.service.CreateVoucher(r.Context(), req.Title, req.Description, req.Code)
	if err != nil {
		log.Error("failed to create voucher", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create voucher"))
		return
	}

	log.Info("voucher created", slog.String("voucher_id", voucher.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithMessage("voucher created", map[string]any{
		"voucher": voucher,
	}))
}
