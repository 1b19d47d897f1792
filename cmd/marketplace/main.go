package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/artique/internal/es"
	"github.com/Skotchmaster/artique/internal/httpserver"
	"github.com/Skotchmaster/artique/internal/mykafka"
	"github.com/Skotchmaster/artique/internal/repo"
	"github.com/Skotchmaster/artique/internal/search"
	"github.com/Skotchmaster/artique/internal/service"
	"github.com/Skotchmaster/artique/pkg/config"
	pkgdb "github.com/Skotchmaster/artique/pkg/db"
	"github.com/Skotchmaster/artique/pkg/hash"
	"github.com/Skotchmaster/artique/pkg/logging"
	authmw "github.com/Skotchmaster/artique/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/artique/pkg/middleware/logging"
	"github.com/Skotchmaster/artique/pkg/tokens"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err == nil {
		err = repo.Migrate(ctx, db)
	}
	cancel()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	gormRepo := repo.New(db)
	issuer := tokens.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)

	authSvc := &service.AuthService{
		Repo:   gormRepo,
		Hasher: hash.NewHasher(cfg.BcryptCost),
		Tokens: issuer,
	}
	itemSvc := &service.ItemService{Repo: gormRepo}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		authSvc.Events = producer
		itemSvc.Events = producer
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	} else {
		authSvc.Events = mykafka.NopPublisher{}
		itemSvc.Events = mykafka.NopPublisher{}
	}

	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		idx := search.New(client, cfg.ESIndex)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = idx.Ensure(ctx)
		cancel()
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		itemSvc.Index = idx
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: !slices.Contains(cfg.CORSOrigins, "*"),
	}))
	e.Use(echomw.Secure())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:   &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		ItemsHandler:  &httpserver.ItemsHTTP{Svc: itemSvc},
		Auth:          authmw.New(issuer),
		Ready:         gormRepo.Ping,
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
		StaticDir:     cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close", "error", err)
	}

	logger.Info("stopped")
}

