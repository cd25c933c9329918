package main

import (
	"price-relay/src/config"
	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/storage"
)

// setupStorage builds the price history backend and prepares its schema
func setupStorage(conf *config.Config, appLogger *logger.Logger) (interfaces.IPriceStore, error) {
	store, err := storage.NewPriceStore(conf.MConfig, appLogger.Named("Storage"))
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(); err != nil {
		return nil, err
	}
	appLogger.Info("Price history backend: %s", conf.Storage.DBType)
	return store, nil
}
