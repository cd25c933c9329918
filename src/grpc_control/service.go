package grpc_control

import (
	"context"
	"strings"
	"sync"

	"price-relay/src/config"
	"price-relay/src/interfaces"
	"price-relay/src/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type connectionCounter interface {
	ActiveConnections() int
}

// ControlService implements HubControlServer on top of the hub's shared state
type ControlService struct {
	Config      *config.Config
	ConfigPath  string
	Pool        interfaces.IWorkPool
	Registry    interfaces.ISubscriberRegistry
	Connections connectionCounter
	Logger      *logger.Logger

	// mu guards Config.Pool.Symbols and its persistence.
	mu sync.Mutex
}

// NewControlService creates a new instance of ControlService.
// An empty cfgPath disables persisting replenished symbols.
func NewControlService(
	cfg *config.Config,
	cfgPath string,
	pool interfaces.IWorkPool,
	reg interfaces.ISubscriberRegistry,
	conns connectionCounter,
	log *logger.Logger,
) *ControlService {
	return &ControlService{
		Config:      cfg,
		ConfigPath:  cfgPath,
		Pool:        pool,
		Registry:    reg,
		Connections: conns,
		Logger:      log,
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) Status(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"name":           s.Config.Name,
		"version":        s.Config.Version,
		"pool_remaining": s.Pool.Remaining(),
		"subscribers":    s.Registry.Count(),
	}
	if s.Connections != nil {
		fields["connections"] = s.Connections.ActiveConnections()
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode status: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// Replenish adds symbols to the pool and to the configured symbol list. It
// returns how many were actually new to the pool.
func (s *ControlService) Replenish(ctx context.Context, req *structpb.ListValue) (*wrapperspb.Int32Value, error) {
	if len(req.GetValues()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "symbols list cannot be empty")
	}

	symbols := make([]string, 0, len(req.GetValues()))
	for i, v := range req.GetValues() {
		str, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "symbol %d is not a string", i)
		}
		sym := strings.TrimSpace(str.StringValue)
		if sym == "" {
			return nil, status.Errorf(codes.InvalidArgument, "symbol %d is empty", i)
		}
		symbols = append(symbols, sym)
	}

	added := s.Pool.Replenish(symbols...)
	s.persist(symbols)

	s.Logger.Info("gRPC: Replenish added %d of %d symbols", added, len(symbols))
	return wrapperspb.Int32(int32(added)), nil
}

func (s *ControlService) persist(symbols []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.Config.Pool.Symbols))
	for _, sym := range s.Config.Pool.Symbols {
		known[sym] = struct{}{}
	}
	changed := false
	for _, sym := range symbols {
		if _, ok := known[sym]; ok {
			continue
		}
		known[sym] = struct{}{}
		s.Config.Pool.Symbols = append(s.Config.Pool.Symbols, sym)
		changed = true
	}

	if !changed || s.ConfigPath == "" {
		return
	}
	if err := s.Config.Save(s.ConfigPath); err != nil {
		s.Logger.Error("gRPC: Failed to save config: %v", err)
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) ListPool(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error) {
	available := s.Pool.Available()
	values := make([]*structpb.Value, 0, len(available))
	for _, sym := range available {
		values = append(values, structpb.NewStringValue(sym))
	}
	return &structpb.ListValue{Values: values}, nil
}
