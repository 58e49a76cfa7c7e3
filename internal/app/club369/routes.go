package club369

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/theclub367services-boop/club369/internal/config"
	admincollections "github.com/theclub367services-boop/club369/internal/http/handlers/admin/collections"
	admintransactions "github.com/theclub367services-boop/club369/internal/http/handlers/admin/transactions"
	"github.com/theclub367services-boop/club369/internal/http/handlers/admin/userdelete"
	adminusers "github.com/theclub367services-boop/club369/internal/http/handlers/admin/users"
	"github.com/theclub367services-boop/club369/internal/http/handlers/admin/vouchercreate"
	"github.com/theclub367services-boop/club369/internal/http/handlers/admin/voucherdelete"
	"github.com/theclub367services-boop/club369/internal/http/handlers/admin/voucherlist"
	"github.com/theclub367services-boop/club369/internal/http/handlers/admin/vouchertoggle"
	"github.com/theclub367services-boop/club369/internal/http/handlers/auth/login"
	"github.com/theclub367services-boop/club369/internal/http/handlers/auth/logout"
	"github.com/theclub367services-boop/club369/internal/http/handlers/auth/me"
	"github.com/theclub367services-boop/club369/internal/http/handlers/auth/refresh"
	"github.com/theclub367services-boop/club369/internal/http/handlers/auth/register"
	"github.com/theclub367services-boop/club369/internal/http/handlers/auth/updateprofile"
	"github.com/theclub367services-boop/club369/internal/http/handlers/health"
	"github.com/theclub367services-boop/club369/internal/http/handlers/membership/details"
	membertransactions "github.com/theclub367services-boop/club369/internal/http/handlers/membership/transactions"
	"github.com/theclub367services-boop/club369/internal/http/handlers/payment/createorder"
	"github.com/theclub367services-boop/club369/internal/http/handlers/payment/verify"
	"github.com/theclub367services-boop/club369/internal/http/handlers/profile/savepicture"
	"github.com/theclub367services-boop/club369/internal/http/handlers/profile/uploadsignature"
	voucherclaim "github.com/theclub367services-boop/club369/internal/http/handlers/voucher/claim"
	voucherlistmember "github.com/theclub367services-boop/club369/internal/http/handlers/voucher/list"
	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/models"
	adminservice "github.com/theclub367services-boop/club369/internal/services/admin"
	authservice "github.com/theclub367services-boop/club369/internal/services/auth"
	mediaservice "github.com/theclub367services-boop/club369/internal/services/media"
	membershipservice "github.com/theclub367services-boop/club369/internal/services/membership"
	paymentservice "github.com/theclub367services-boop/club369/internal/services/payment"
	"github.com/theclub367services-boop/club369/internal/storage/repository"
)

// Services — собранные сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth       *authservice.Service
	Membership *membershipservice.Service
	Payment    *paymentservice.Service
	Admin      *adminservice.Service
	Media      *mediaservice.Service
	Storage    *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	assetBaseURL := cfg.AssetBaseURL
	accessTTL := cfg.JWTToken.AccessTTL
	refreshTTL := cfg.JWTToken.RefreshTTL

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, svc.Auth, assetBaseURL, accessTTL, refreshTTL).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svc.Auth, assetBaseURL, accessTTL, refreshTTL).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, svc.Auth, assetBaseURL, accessTTL, refreshTTL).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger).ServeHTTP)
		r.Get("/health", health.New(logger, svc.Storage).ServeHTTP)

		// Группа с аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(svc.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth/me", me.New(logger, assetBaseURL).ServeHTTP)
			r.Patch("/auth/me", updateprofile.New(logger, svc.Auth, assetBaseURL).ServeHTTP)

			// Оплата доступна и учётным записям в статусе PENDING:
			// это единственный путь к активации членства.
			r.Post("/payments/create-order", createorder.New(logger, svc.Payment).ServeHTTP)
			r.Post("/payments/verify", verify.New(logger, svc.Payment).ServeHTTP)

			// Кабинет участника закрыт до первой оплаты
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequirePaid(logger))
				r.Get("/membership/details", details.New(logger, svc.Membership).ServeHTTP)
				r.Get("/membership/transactions", membertransactions.New(logger, svc.Membership).ServeHTTP)
				r.Get("/vouchers", voucherlistmember.New(logger, svc.Membership).ServeHTTP)
				r.Post("/vouchers/claim/{id}", voucherclaim.New(logger, svc.Membership).ServeHTTP)
				r.Get("/profile/upload-signature", uploadsignature.New(logger, svc.Media).ServeHTTP)
				r.Post("/profile/save-picture", savepicture.New(logger, svc.Media, assetBaseURL).ServeHTTP)
			})

			// Административная панель
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))
				r.Get("/users", adminusers.New(logger, svc.Admin, assetBaseURL).ServeHTTP)
				r.Delete("/users/{uid}", userdelete.New(logger, svc.Admin).ServeHTTP)
				r.Get("/transactions", admintransactions.New(logger, svc.Admin).ServeHTTP)
				r.Get("/collections", admincollections.New(logger, svc.Admin).ServeHTTP)
				r.Get("/vouchers", voucherlist.New(logger, svc.Admin).ServeHTTP)
				r.Post("/vouchers", vouchercreate.New(logger, svc.Admin).ServeHTTP)
				r.Patch("/vouchers/{id}/toggle", vouchertoggle.New(logger, svc.Admin).ServeHTTP)
				r.Delete("/vouchers/{id}", voucherdelete.New(logger, svc.Admin).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
