// Package logout реализует HTTP-обработчик выхода: сбрасывает cookie
// с токенами. Обработчик идемпотентен и отвечает успехом даже без
// активной сессии.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/cookies"
	"github.com/theclub367services-boop/club369/internal/http/response"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выход участника
// @Description Сбрасывает HttpOnly cookie с токенами.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Успешный выход"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cookies.Clear(w)

	log.Info("logout success")
	render.JSON(w, r, response.OKWithMessage("logout successful", nil))
}
