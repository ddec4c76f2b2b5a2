package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"verifyhr/internal/anchor"
	"verifyhr/internal/audit"
	"verifyhr/internal/content"
	"verifyhr/internal/issuance"
	jwttoken "verifyhr/internal/jwt_token"
	"verifyhr/internal/ledger"
	"verifyhr/internal/passport"
	"verifyhr/internal/platform/config"
	"verifyhr/internal/platform/httpserver"
	"verifyhr/internal/platform/logger"
	"verifyhr/internal/platform/metrics"
	platformredis "verifyhr/internal/platform/redis"
	"verifyhr/internal/transport/http"
	"verifyhr/internal/verify"
)

func main() {
	app := &cli.App{
		Name:  "verifyhr",
		Usage: "credential anchoring and verification engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				EnvVars: []string{"VERIFYHR_ADDR"},
			},
			&cli.StringFlag{
				Name:     "issuer-address",
				Required: true,
				EnvVars:  []string{"VERIFYHR_ISSUER_ADDRESS"},
			},
			&cli.StringFlag{
				Name:    "pin-endpoint",
				EnvVars: []string{"VERIFYHR_PIN_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "pin-token",
				EnvVars: []string{"VERIFYHR_PIN_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "ipfs-gateway",
				Value:   "https://ipfs.io/ipfs",
				EnvVars: []string{"VERIFYHR_IPFS_GATEWAY"},
			},
			&cli.StringFlag{
				Name:    "redis-url",
				EnvVars: []string{"VERIFYHR_REDIS_URL"},
			},
			&cli.StringFlag{
				Name:    "postgres-url",
				EnvVars: []string{"VERIFYHR_POSTGRES_URL"},
			},
			&cli.StringSliceFlag{
				Name:    "kafka-brokers",
				EnvVars: []string{"VERIFYHR_KAFKA_BROKERS"},
			},
			&cli.StringFlag{
				Name:    "kafka-topic",
				Value:   "verifyhr.audit",
				EnvVars: []string{"VERIFYHR_KAFKA_TOPIC"},
			},
			&cli.StringFlag{
				Name:     "jwt-signing-key",
				Required: true,
				EnvVars:  []string{"VERIFYHR_JWT_SIGNING_KEY"},
			},
			&cli.StringFlag{
				Name:    "admin-password-hash",
				EnvVars: []string{"VERIFYHR_ADMIN_PASSWORD_HASH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"VERIFYHR_LOG_LEVEL"},
			},
		},
		Action: func(cmd *cli.Context) error {
			cfg := &config.Config{
				Addr:              cmd.String("addr"),
				IssuerAddress:     cmd.String("issuer-address"),
				PinEndpoint:       cmd.String("pin-endpoint"),
				PinToken:          cmd.String("pin-token"),
				IPFSGateway:       cmd.String("ipfs-gateway"),
				RedisURL:          cmd.String("redis-url"),
				PostgresURL:       cmd.String("postgres-url"),
				KafkaBrokers:      cmd.StringSlice("kafka-brokers"),
				KafkaTopic:        cmd.String("kafka-topic"),
				JWTSigningKey:     cmd.String("jwt-signing-key"),
				AdminPasswordHash: cmd.String("admin-password-hash"),
			}
			return run(cfg, cmd.String("log-level"))
		},
		ErrWriter: os.Stdout,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logLevel string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := logger.New(level)
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ledger transport. The in-process ledger keeps a dev deployment
	// self-contained; a network-backed transport slots in behind the same
	// interface.
	var ledgerTransport ledger.Transport = ledger.NewInMemoryLedger()

	// Content-addressed store; nil when no pin token is configured, which
	// degrades publishing to inline locators.
	var contentTransport content.Transport
	if c := content.NewHTTPClient(content.HTTPClientArgs{
		Endpoint: cfg.PinEndpoint,
		Token:    cfg.PinToken,
		Gateway:  cfg.IPFSGateway,
	}); c != nil {
		contentTransport = c
	}
	publisher := content.NewPublisher(contentTransport, log, m)

	index, cleanup, err := buildIndex(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	auditStore := audit.NewInMemoryStore()
	auditSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return fmt.Errorf("audit sink: %w", err)
	}
	defer auditSink.Close()
	auditPub := audit.NewPublisher(1024, log)
	auditWorker := audit.NewWorker(auditStore, auditSink, auditPub.Inbox(), log)

	minter := anchor.NewMinter(ledgerTransport, log, m, nil)
	registry := passport.NewRegistry(index, ledgerTransport, publisher, log, m)
	engine := verify.NewEngine(ledgerTransport, contentTransport, cfg.IPFSGateway, auditPub, log, m)
	service := issuance.NewService(minter, registry, publisher, auditPub, log, cfg.IssuerAddress)

	jwtSvc := jwttoken.NewJWTService(cfg.JWTSigningKey, "verifyhr")

	router := httptransport.NewRouter(httptransport.RouterArgs{
		Issuance:          service,
		Registry:          registry,
		Verifier:          engine,
		Index:             index,
		Logger:            log,
		Metrics:           m,
		JWTValidator:      jwttoken.NewJWTServiceAdapter(jwtSvc),
		AdminPasswordHash: cfg.AdminPasswordHash,
	})
	server := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// buildIndex picks the candidate index backend: postgres wins over redis,
// redis over the in-process map.
func buildIndex(ctx context.Context, cfg *config.Config, log *slog.Logger) (passport.IndexStore, func(), error) {
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := passport.NewPostgresIndex(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("candidate index backed by postgres")
		return store, pool.Close, nil
	}

	if cfg.RedisURL != "" {
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("candidate index backed by redis")
		return passport.NewRedisIndex(client), func() { _ = client.Close() }, nil
	}

	log.Info("candidate index is in-memory")
	return passport.NewInMemoryIndex(), func() {}, nil
}
