package ecommerce

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/ecommerce-backend/internal/cache"
	"github.com/magabrotheeeer/ecommerce-backend/internal/config"
	"github.com/magabrotheeeer/ecommerce-backend/internal/http/realtime"
	"github.com/magabrotheeeer/ecommerce-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/ecommerce-backend/internal/migrations"
	"github.com/magabrotheeeer/ecommerce-backend/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/auth"
	cartservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/cart"
	catalogservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/catalog"
	checkoutservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/checkout"
	resetservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/passwordreset"
	ticketservice "github.com/magabrotheeeer/ecommerce-backend/internal/services/ticket"
	"github.com/magabrotheeeer/ecommerce-backend/internal/storage/repository"
)

const feedPageLimit = 10

// App собирает все зависимости магазина и управляет жизненным циклом
// HTTP-сервера.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает хранилище, накатывает миграции,
// поднимает кеш и брокер, собирает сервисы и маршруты.
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

	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.ConnRetries, cfg.ConnRetryWait)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEmailQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.JWTToken.TokenTTL)

	hub := realtime.NewHub(feedPageLimit, logger)
	catalogService := catalogservice.New(db, cacheRedis, hub, logger)
	hub.SetSource(catalogService)

	cartService := cartservice.New(db, db, logger)
	checkoutEngine := checkoutservice.New(db, catalogService, db, logger)
	ticketService := ticketservice.New(db, logger)
	authService := authservice.New(db, db, jwtMaker)

	publisher := rabbitmq.NewResetEmailPublisher(ch, "emails")
	resetService := resetservice.New(db, publisher, cfg.ResetLinkBase, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutEngine,
		Ticket:   ticketService,
		Auth:     authService,
		Reset:    resetService,
		Feed:     hub,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до остановки контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
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
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		_ = a.db.DB.Close()
		return err
	}
}
