package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/theclub367services-boop/club369/internal/http/response"
	"github.com/theclub367services-boop/club369/internal/models"
)

// RequireRole возвращает middleware, пропускающий только пользователей
// с указанной ролью. Сравнение ролей регистронезависимое.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user missing from context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			if !user.HasRole(role) {
				log.Warn("insufficient role",
					slog.String("user_uid", user.UID), slog.String("required", role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePaid возвращает middleware, закрывающий участки кабинета от
// учётных записей, ещё не оплативших членство: пользователь в статусе
// PENDING получает HTTP 402 и должен пройти оплату. Администраторов
// шлагбаум не касается.
func RequirePaid(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user missing from context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			if user.HasRole(models.RoleAdmin) {
				next.ServeHTTP(w, r)
				return
			}
			if user.Status == models.StatusPending {
				log.Info("payment required", slog.String("user_uid", user.UID))
				render.Status(r, http.StatusPaymentRequired)
				render.JSON(w, r, response.Error("membership payment required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
