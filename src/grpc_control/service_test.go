package grpc_control

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"price-relay/src/config"
	"price-relay/src/logger"
	"price-relay/src/pool"
	"price-relay/src/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type fixedConnections int

func (f fixedConnections) ActiveConnections() int { return int(f) }

type fixture struct {
	client  *HubControlClient
	pool    *pool.WorkPool
	cfg     *config.Config
	cfgPath string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Version = "1.2.3"
	cfgPath := filepath.Join(t.TempDir(), "hub.yaml")
	require.NoError(t, cfg.Save(cfgPath))

	log := logger.Discard()
	p := pool.NewWorkPool(cfg.Pool.Symbols, log)
	reg := registry.NewSubscriberRegistry(log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterHubControlServer(srv, NewControlService(cfg, cfgPath, p, reg, fixedConnections(3), log))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &fixture{client: NewHubControlClient(conn), pool: p, cfg: cfg, cfgPath: cfgPath}
}

func TestStatus(t *testing.T) {
	f := setup(t)
	f.pool.Take()

	resp, err := f.client.Status(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	fields := resp.AsMap()
	assert.Equal(t, "price-relay", fields["name"])
	assert.Equal(t, "1.2.3", fields["version"])
	assert.Equal(t, float64(1), fields["pool_remaining"])
	assert.Equal(t, float64(0), fields["subscribers"])
	assert.Equal(t, float64(3), fields["connections"])
}

func TestReplenishAndListPool(t *testing.T) {
	f := setup(t)
	item, ok := f.pool.Take()
	require.True(t, ok)

	req, err := structpb.NewList([]interface{}{"SOLUSDT", item, "SOLUSDT"})
	require.NoError(t, err)

	added, err := f.client.Replenish(context.Background(), req)
	require.NoError(t, err)
	// item is still assigned, SOLUSDT only counts once
	assert.Equal(t, int32(1), added.GetValue())

	list, err := f.client.ListPool(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"ETHUSDT", "SOLUSDT"}, list.AsSlice())

	saved, err := config.NewConfig(f.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, saved.Pool.Symbols)
}

func TestReplenish_InvalidArgument(t *testing.T) {
	f := setup(t)

	cases := map[string][]interface{}{
		"empty":      {},
		"non-string": {"BTCUSDT", 42},
		"blank":      {"  "},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			req, err := structpb.NewList(values)
			require.NoError(t, err)

			_, err = f.client.Replenish(context.Background(), req)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
	assert.Equal(t, 2, f.pool.Remaining())
}
