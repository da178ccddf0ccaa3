package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mosaic-market/metadata-sync/internal/adapter"
	"github.com/mosaic-market/metadata-sync/internal/api/middleware"
	"github.com/mosaic-market/metadata-sync/internal/api/server"
	"github.com/mosaic-market/metadata-sync/internal/config"
	"github.com/mosaic-market/metadata-sync/internal/contentstore"
	"github.com/mosaic-market/metadata-sync/internal/gateway"
	"github.com/mosaic-market/metadata-sync/internal/logger"
	"github.com/mosaic-market/metadata-sync/internal/messaging"
	"github.com/mosaic-market/metadata-sync/internal/metadata"
	"github.com/mosaic-market/metadata-sync/internal/store"
	syncer "github.com/mosaic-market/metadata-sync/internal/sync"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncdConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "syncd",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting metadata sync service")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	pgStore, err := store.NewPGStore(db)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize store", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database", zap.String("host", cfg.Database.Host))

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(cfg.IPFS.Timeout)

	// Connect to the Ethereum node
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Ethereum node", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}
	defer ethClient.Close()

	chainGateway, err := gateway.NewEthereumGateway(
		ctx,
		ethClient,
		clock,
		cfg.Ethereum.FactoryAddress,
		cfg.Ethereum.PrivateKey,
		cfg.Ethereum.ConfirmationTimeout,
		cfg.Ethereum.PollInterval,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize chain gateway", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to Ethereum node",
		zap.String("chain_id", string(cfg.Ethereum.ChainID)),
		zap.String("signer", chainGateway.SignerAddress()))

	// Initialize content store client
	contentClient := contentstore.NewIPFSClient(cfg.IPFS.APIURL, cfg.IPFS.GatewayURL, httpClient, jsonAdapter)

	// Connect to NATS for sync event broadcasting. The publisher is optional:
	// without it the service still synchronizes, it just does not notify.
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = messaging.NewJetStreamPublisher(
			adapter.NewNatsJetStream(),
			cfg.NATS.URL,
			cfg.NATS.StreamName,
			nats.MaxReconnects(cfg.NATS.MaxReconnects),
			nats.ReconnectWait(cfg.NATS.ReconnectWait),
			nats.Name(cfg.NATS.ConnectionName),
		)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer publisher.Close()
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, sync events will not be broadcast")
	}

	// Assemble the synchronizer
	codec := metadata.NewCodec(clock)
	synchronizer := syncer.NewSynchronizer(
		codec,
		contentClient,
		chainGateway,
		pgStore,
		pgStore,
		publisher,
		clock,
		cfg.Ethereum.ChainID,
	)

	// Create and start server
	srv := server.New(server.Config{
		Debug:         cfg.Debug,
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ReadTimeout:   time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:  time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:   time.Duration(cfg.Server.IdleTimeout) * time.Second,
		BatchPoolSize: cfg.Worker.PoolSize,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, synchronizer)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.FatalCtx(ctx, "Server error", zap.Error(err))
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(ctx, "Failed to shutdown server gracefully", zap.Error(err))
	}

	logger.InfoCtx(ctx, "Metadata sync service stopped")
}
