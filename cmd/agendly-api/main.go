package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agendly/agendly/internal/accounts"
	"github.com/agendly/agendly/internal/catalog"
	"github.com/agendly/agendly/internal/handlers"
	"github.com/agendly/agendly/internal/outbox"
	"github.com/agendly/agendly/internal/scheduling"
	"github.com/agendly/agendly/internal/storage"
	"github.com/agendly/agendly/libs/config"
	"github.com/agendly/agendly/libs/db"
	"github.com/agendly/agendly/libs/httpx"
	"github.com/agendly/agendly/libs/kafkax"
	otelx "github.com/agendly/agendly/libs/otel"
	"github.com/agendly/agendly/libs/runtime"
)

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "agendly-api")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}

	users := storage.NewUserRepository(pool)
	services := storage.NewServiceRepository(pool)
	customers := storage.NewCustomerRepository(pool)
	appointments := storage.NewAppointmentRepository(pool)
	availabilities := storage.NewAvailabilityRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: config.Duration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go outboxPublisher.Run(ctx)

	accountsService := accounts.NewService(users, nil)
	tokens := accounts.NewTokenManager(jwtSecret, config.Duration("JWT_TTL", 24*time.Hour), nil)
	scheduler := scheduling.NewScheduler(appointments, availabilities, customers, services, outboxRepo, pool, nil)
	cat := catalog.NewCatalog(services, customers, appointments, nil)

	checks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if kafkaBrokers != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}

	// The public surface is rate limited per client IP; Redis keeps the
	// counters shared across replicas when configured.
	publicLimit := config.Int("PUBLIC_RATE_LIMIT", 60)
	publicWindow := config.Duration("PUBLIC_RATE_WINDOW", time.Minute)
	var publicMW httpx.Middleware
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: httpx.RedisReadyCheck(rdb)})
		publicMW = httpx.NewRedisRateLimiter(rdb, publicLimit, publicWindow, service).Middleware(logger, true)
	} else {
		publicMW = httpx.NewRateLimiter(publicLimit, publicWindow).Middleware()
	}

	mux := runtime.NewBaseMux(checks...)
	handlers.Handlers{
		Auth:         handlers.NewAuthHandler(accountsService, tokens, logger),
		Availability: handlers.NewAvailabilityHandler(scheduler, logger),
		Appointments: handlers.NewAppointmentsHandler(scheduler, logger),
		Services:     handlers.NewServicesHandler(cat, logger),
		Customers:    handlers.NewCustomersHandler(cat, logger),
		Profile:      handlers.NewProfileHandler(accountsService, logger),
		Public:       handlers.NewPublicHandler(accountsService, cat, scheduler, logger),
	}.Register(mux, publicMW)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithRecovery(logger),
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: splitList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithBodyLimit(1<<20),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
