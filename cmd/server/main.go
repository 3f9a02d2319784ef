// server runs the POS session gateway: HTTP API, revocation sweeper, and auth telemetry.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	appsettingshandler "github.com/MohamedAliSmk/pos-app/internal/appsettings/handler"
	appsettingsrepo "github.com/MohamedAliSmk/pos-app/internal/appsettings/repository"
	"github.com/MohamedAliSmk/pos-app/internal/audit"
	audithandler "github.com/MohamedAliSmk/pos-app/internal/audit/handler"
	auditrepo "github.com/MohamedAliSmk/pos-app/internal/audit/repository"
	"github.com/MohamedAliSmk/pos-app/internal/config"
	"github.com/MohamedAliSmk/pos-app/internal/db"
	"github.com/MohamedAliSmk/pos-app/internal/docstore"
	healthhandler "github.com/MohamedAliSmk/pos-app/internal/health/handler"
	identityhandler "github.com/MohamedAliSmk/pos-app/internal/identity/handler"
	identityservice "github.com/MohamedAliSmk/pos-app/internal/identity/service"
	posprofilerepo "github.com/MohamedAliSmk/pos-app/internal/posprofile/repository"
	"github.com/MohamedAliSmk/pos-app/internal/revocation"
	revocationrepo "github.com/MohamedAliSmk/pos-app/internal/revocation/repository"
	"github.com/MohamedAliSmk/pos-app/internal/security"
	"github.com/MohamedAliSmk/pos-app/internal/server"
	"github.com/MohamedAliSmk/pos-app/internal/server/middleware"
	sessionrepo "github.com/MohamedAliSmk/pos-app/internal/session/repository"
	"github.com/MohamedAliSmk/pos-app/internal/telemetry"
	telemetryotel "github.com/MohamedAliSmk/pos-app/internal/telemetry/otel"
	"github.com/MohamedAliSmk/pos-app/internal/telemetry/producer"
	userrepo "github.com/MohamedAliSmk/pos-app/internal/user/repository"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	rdb, err := db.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.AuthEventsTopic)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	events := telemetry.MultiEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	if kafkaProducer != nil {
		events = append(events, kafkaProducer)
		log.Printf("telemetry: auth events streamed to kafka topic %s", kafkaProducer.Topic())
	}

	codec, err := security.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenTTL())
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	var storeOpts []revocation.Option
	var redisPinger healthhandler.Pinger
	if rdb != nil {
		storeOpts = append(storeOpts, revocation.WithCache(revocationrepo.NewRedisCache(rdb)))
		redisPinger = healthhandler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Println("revocation: redis cache enabled")
	}
	revoked := revocation.NewStore(revocationrepo.NewPostgresRepository(conn), codec, codec.TTL(), storeOpts...)

	store := docstore.NewService(
		userrepo.NewPostgresRepository(conn),
		posprofilerepo.NewPostgresRepository(conn),
		sessionrepo.NewPostgresRepository(conn),
		security.NewHasher(cfg.BcryptCost),
		docstore.WithSessionTTL(codec.TTL()),
		docstore.WithIPExtractor(middleware.ClientIP),
	)

	auditRepo := auditrepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(auditRepo, middleware.ClientIP)

	auth := identityservice.NewAuthService(store, codec, revoked, cfg.SiteURL,
		identityservice.WithAuditLogger(auditLogger),
		identityservice.WithEventEmitter(events),
		identityservice.WithIPExtractor(middleware.ClientIP),
	)

	gatekeeper := middleware.NewGatekeeper(codec, revoked,
		middleware.WithRejectionEvents(events),
		middleware.WithMeter(providers.Meter()),
	)
	siteBase := identityservice.SiteBaseURL(cfg.SiteURL)

	router := server.NewRouter(server.Deps{
		Auth:           identityhandler.NewHandler(auth),
		Settings:       appsettingshandler.NewHandler(appsettingsrepo.NewPostgresRepository(conn), siteBase),
		Activity:       audithandler.NewHandler(auditRepo),
		Health:         healthhandler.NewHandler(conn, redisPinger),
		Gatekeeper:     gatekeeper,
		AuditLogger:    auditLogger,
		TracerProvider: providers.Tracing(),
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOriginsList(),
	})

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		revocation.RunSweeper(sweepCtx, revoked, cfg.SweepInterval())
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	stopSweeper()
	<-sweeperDone

	// Let in-flight async auth events finish before the exporters go away.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := kafkaProducer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry: shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
