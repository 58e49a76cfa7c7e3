// Package uploadsignature реализует HTTP-обработчик подписи для прямой
// загрузки изображения профиля в Cloudinary с клиента.
package uploadsignature

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/services/media"
)

// Service описывает интерфейс подписи параметров загрузки.
type Service interface {
	SignUpload() (media.UploadSignature, error)
}

// Handler обрабатывает запросы подписи загрузки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подпись для загрузки изображения
// @Description Возвращает подписанные параметры для прямой загрузки в Cloudinary.
// @Tags Profile
// @Produce  json
// @Success 200 {object} response.Response "Параметры загрузки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile/upload-signature [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.uploadsignature"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	signature, err := h.service.SignUpload()
	if err != nil {
		log.Error("failed to sign upload parameters", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not sign upload"))
		return
	}

	render.JSON(w, r, response.OK(signature))
}
