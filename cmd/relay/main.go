package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kabylesystem/xrpl-hackaton/internal/api"
	"github.com/kabylesystem/xrpl-hackaton/internal/client"
	"github.com/kabylesystem/xrpl-hackaton/internal/config"
	"github.com/kabylesystem/xrpl-hackaton/internal/relay"

	"go.uber.org/zap"

	_ "github.com/kabylesystem/xrpl-hackaton/docs"
)

// @title        XRPL SMS Relay API
// @version      1.0
// @description  Relay backend that accepts signed XRP Ledger transactions over SMS and submits them in order.
// @BasePath     /
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := config.Init(); err != nil {
		log.Fatalw("failed to load config", "err", err)
	}
	cfg := config.Get()

	checkpoints, err := relay.OpenCheckpointStore(cfg.CheckpointDBPath)
	if err != nil {
		log.Fatalw("failed to open checkpoint store", "err", err)
	}
	defer checkpoints.Close()

	// Surface claims stranded by an earlier crash between the funding
	// and sweep submissions.
	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pending, err := checkpoints.PendingSweeps(startupCtx)
	cancel()
	if err != nil {
		log.Fatalw("failed to list pending sweeps", "err", err)
	}
	for _, cp := range pending {
		log.Warnw("claim with confirmed funding but no completed sweep",
			"id", cp.ID, "from", cp.FromAddress, "state", cp.State,
			"funding_hash", cp.FundingHash, "reason", cp.Reason)
	}

	var directory relay.Directory = relay.EmptyDirectory{}
	if cfg.DirectoryPath != "" {
		fileDir, err := relay.LoadDirectory(cfg.DirectoryPath)
		if err != nil {
			log.Fatalw("failed to load phone directory", "err", err)
		}
		directory = fileDir
	}

	ledger := client.NewXRPLClient(cfg.XRPLWebsocketURL)
	defer ledger.Close()

	gateway := client.NewSMSGateway(cfg.GatewayBaseURL, cfg.GatewayAccountSID, cfg.GatewayAuthToken, cfg.GatewayFromNumber)
	broadcaster := relay.NewBroadcaster(ledger, gateway, directory, checkpoints, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.SetupRouter(broadcaster, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("relay listening", "port", cfg.Port, "xrpl", cfg.XRPLWebsocketURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("shutdown failed", "err", err)
	}
}
