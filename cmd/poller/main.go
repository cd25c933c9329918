package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"price-relay/src/config"
	datasource "price-relay/src/data_source"
	"price-relay/src/data_source/binance"
	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/network"
	"price-relay/src/poller"
)

func main() {
	configPath := flag.String("config", "config/poller.yaml", "path to config file")
	flag.Parse()

	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	networkManager := network.NewAsyncNetworkManager(conf.MConfig, appLogger.Named("Network"))
	sourceLogger := appLogger.Named("BinanceSource")
	sources := []interfaces.IPriceSource{binance.NewBinanceSource(conf.Poller.UpstreamURL, networkManager, sourceLogger)}
	for _, u := range conf.Poller.FallbackURLs {
		sources = append(sources, binance.NewBinanceSource(u, networkManager, sourceLogger))
	}
	source := datasource.NewMultiSourceManager(sources, appLogger.Named("MultiSourceManager"))
	client := poller.NewPollingClient(conf.Poller, source, appLogger.Named("PollingClient"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Poller stopped: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Poller stopped.")
}
