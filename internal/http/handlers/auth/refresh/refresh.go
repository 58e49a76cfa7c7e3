// Package refresh реализует HTTP-обработчик обновления пары токенов.
//
// Refresh-токен читается из HttpOnly cookie или из тела запроса.
// При успехе выпускается новая пара (ротация), при невалидном токене
// cookie сбрасываются и возвращается HTTP 401: клиенту нужно войти заново.
package refresh

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/cookies"
	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
	"github.com/theclub367services-boop/club369/internal/services/auth"
)

// Request — запасной способ передать refresh-токен в теле запроса.
type Request struct {
	RefreshToken string `json:"refresh_token"`
}

// Service описывает интерфейс бизнес-логики обновления токенов.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (*models.User, auth.TokenPair, error)
}

// Handler обрабатывает HTTP-запросы обновления токенов.
type Handler struct {
	log          *slog.Logger
	service      Service
	assetBaseURL string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, assetBaseURL string, accessTTL, refreshTTL time.Duration) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		assetBaseURL: assetBaseURL,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

// ServeHTTP godoc
// @Summary Обновление пары токенов
// @Description Проверяет refresh-токен и выпускает новую пару в HttpOnly cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Success 200 {object} response.Response "Токены обновлены"
// @Failure 401 {object} response.ErrorResponse "Невалидный refresh-токен"
// @Router /auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tokenStr := ""
	if c, err := r.Cookie(middlewarectx.RefreshTokenCookie); err == nil && c.Value != "" {
		tokenStr = c.Value
	} else {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			tokenStr = req.RefreshToken
		}
	}
	if tokenStr == "" {
		log.Warn("missing refresh token")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("refresh token required"))
		return
	}

	user, pair, err := h.service.Refresh(r.Context(), tokenStr)
	if err != nil {
		log.Warn("refresh failed", sl.Err(err))
		cookies.Clear(w)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired refresh token"))
		return
	}

	cookies.Set(w, pair.Access, pair.Refresh, h.accessTTL, h.refreshTTL)

	log.Info("tokens refreshed", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithMessage("tokens refreshed", map[string]any{
		"user": models.NewProfile(user, h.assetBaseURL),
	}))
}
