package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"price-relay/src/config"
	"price-relay/src/logger"
	"price-relay/src/pool"
	"price-relay/src/registry"
	"price-relay/src/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "config/hub.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	// 4. Setup Components
	store, err := setupStorage(conf, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init storage: %v", err)
	}

	workPool := pool.NewWorkPool(conf.Pool.Symbols, appLogger.Named("WorkPool"))
	subscribers := registry.NewSubscriberRegistry(appLogger.Named("SubscriberRegistry"))
	srv := server.NewRelayServer(conf.MConfig, appLogger.Named("RelayServer"), workPool, subscribers, store)

	appLogger.Info("Work pool loaded with %d symbols", workPool.Remaining())

	// 5. Start Servers
	servers := startServers(srv, conf, *configPath, workPool, subscribers, appLogger)

	// 6. Wait for a signal or a fatal server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Received %s, shutting down...", sig)
	case err := <-servers.errs:
		appLogger.Error("Server failed: %v", err)
	}

	// 7. Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	servers.stop(ctx)
	if err := store.Close(); err != nil {
		appLogger.Error("Failed to close storage: %v", err)
	}
	appLogger.Info("Shutdown complete.")
}
