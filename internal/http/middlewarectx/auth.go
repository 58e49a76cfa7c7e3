// Package middlewarectx содержит HTTP middleware приложения: проверку
// JWT токенов, ограничение по роли, платёжный шлагбаум для неоплаченных
// учётных записей и ограничение частоты запросов.
//
// Access-токен ожидается в HttpOnly cookie access_token; заголовок
// Authorization с Bearer-токеном поддерживается как запасной вариант
// для программных клиентов. Аутентифицированный пользователь кладётся
// в контекст запроса под ключом User.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ для аутентифицированного пользователя в контексте.
const User Key = "user"

// AccessTokenCookie — имя cookie с access-токеном.
const AccessTokenCookie = "access_token"

// RefreshTokenCookie — имя cookie с refresh-токеном.
const RefreshTokenCookie = "refresh_token"

// AuthService описывает проверку access-токена.
type AuthService interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// UserFromContext возвращает пользователя, положенного AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok
}

// extractToken достает access-токен из cookie или заголовка Authorization.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware возвращает middleware, который проверяет access-токен
// и кладёт актуального пользователя в контекст запроса.
//
// Без валидного токена запрос завершается HTTP 401 Unauthorized.
func AuthMiddleware(authService AuthService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := extractToken(r)
			if tokenStr == "" {
				log.Warn("missing access token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			user, err := authService.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
