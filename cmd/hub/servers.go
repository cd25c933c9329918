package main

import (
	"context"
	"fmt"
	"net"

	"price-relay/src/config"
	pb "price-relay/src/grpc_control"
	"price-relay/src/logger"
	"price-relay/src/pool"
	"price-relay/src/registry"
	"price-relay/src/server"

	"google.golang.org/grpc"
)

type runningServers struct {
	relay *server.RelayServer
	grpc  *grpc.Server
	errs  chan error
	log   *logger.Logger
}

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of all server components
func startServers(
	srv *server.RelayServer,
	conf *config.Config,
	configPath string,
	workPool *pool.WorkPool,
	subscribers *registry.SubscriberRegistry,
	appLogger *logger.Logger,
) *runningServers {
	rs := &runningServers{relay: srv, errs: make(chan error, 2), log: appLogger}

	// 1. Relay (HTTP + WebSocket)
	go func() {
		if err := srv.Start(); err != nil {
			rs.errs <- err
		}
	}()

	// 2. gRPC Control Server (grpc_port 0 disables it)
	if conf.GrpcPort == 0 {
		return rs
	}

	addr := fmt.Sprintf("%s:%d", conf.GrpcHost, conf.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error("failed to listen for gRPC on %s: %v", addr, err)
		rs.errs <- err
		return rs
	}

	rs.grpc = grpc.NewServer()
	controlService := pb.NewControlService(conf, configPath, workPool, subscribers, srv, appLogger.Named("ControlService"))
	pb.RegisterHubControlServer(rs.grpc, controlService)

	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", addr)
		if err := rs.grpc.Serve(lis); err != nil {
			rs.errs <- fmt.Errorf("gRPC: %w", err)
		}
	}()

	return rs
}

// -----------------------------------------------------------------------------

func (rs *runningServers) stop(ctx context.Context) {
	if rs.grpc != nil {
		rs.grpc.GracefulStop()
	}
	if err := rs.relay.Shutdown(ctx); err != nil {
		rs.log.Warning("Relay shutdown incomplete: %v", err)
	}
}
