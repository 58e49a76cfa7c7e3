// Package club369 собирает HTTP-приложение клуба: хранилище, кеш,
// платёжный шлюз, очередь уведомлений и маршруты API.
package club369

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/theclub367services-boop/club369/internal/cache"
	"github.com/theclub367services-boop/club369/internal/config"
	"github.com/theclub367services-boop/club369/internal/gateway"
	"github.com/theclub367services-boop/club369/internal/lib/jwt"
	"github.com/theclub367services-boop/club369/internal/lib/sl"
	"github.com/theclub367services-boop/club369/internal/migrations"
	"github.com/theclub367services-boop/club369/internal/rabbitmq"
	adminservice "github.com/theclub367services-boop/club369/internal/services/admin"
	authservice "github.com/theclub367services-boop/club369/internal/services/auth"
	mediaservice "github.com/theclub367services-boop/club369/internal/services/media"
	membershipservice "github.com/theclub367services-boop/club369/internal/services/membership"
	paymentservice "github.com/theclub367services-boop/club369/internal/services/payment"
	"github.com/theclub367services-boop/club369/internal/storage/repository"
)

// App представляет HTTP-приложение клуба.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// receiptPublisher публикует квитанции в exchange уведомлений.
// Нулевой канал выключает публикацию.
type receiptPublisher struct {
	ch *amqp.Channel
}

func (p *receiptPublisher) PublishReceipt(receipt paymentservice.Receipt) error {
	return rabbitmq.PublishMessage(p.ch, rabbitmq.Exchange, rabbitmq.RouteReceipt, receipt)
}

// New собирает приложение из конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var conn *amqp.Connection
	var ch *amqp.Channel
	var publisher paymentservice.ReceiptPublisher
	if cfg.RabbitURL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitDelay)
		if err != nil {
			return nil, err
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.DefaultQueues())
		if err != nil {
			return nil, err
		}
		publisher = &receiptPublisher{ch: ch}
	} else {
		logger.Warn("rabbitmq url is empty, receipts will not be published")
	}

	jwtMaker := jwt.NewMaker(cfg.JWTToken.SecretKey, cfg.JWTToken.AccessTTL, cfg.JWTToken.RefreshTTL)
	gatewayClient := gateway.NewClient(cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.APIURL)

	authSvc := authservice.New(db, jwtMaker)
	membershipSvc := membershipservice.New(db, cacheRedis, logger)
	paymentSvc := paymentservice.New(db, gatewayClient, membershipSvc, publisher, paymentservice.Config{
		MembershipFee: cfg.Gateway.MembershipFee,
		Currency:      cfg.Gateway.Currency,
		KeyID:         cfg.Gateway.KeyID,
		PaymentMethod: "razorpay",
	}, logger)
	adminSvc := adminservice.New(db, logger)
	mediaSvc, err := mediaservice.New(cfg.Cloudinary, db, logger)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, &Services{
		Auth:       authSvc,
		Membership: membershipSvc,
		Payment:    paymentSvc,
		Admin:      adminSvc,
		Media:      mediaSvc,
		Storage:    db,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и ждёт сигнала завершения.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.ch != nil {
			if closeErr := a.ch.Close(); closeErr != nil {
				a.logger.Error("failed to close channel", sl.Err(closeErr))
			}
		}
		if a.conn != nil {
			if closeErr := a.conn.Close(); closeErr != nil {
				a.logger.Error("failed to close connection", sl.Err(closeErr))
			}
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
