package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"price-relay/src/config"
	"price-relay/src/logger"
	"price-relay/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tick(symbol string, price int) models.MPriceTick {
	return models.MPriceTick{
		Symbol:     symbol,
		Price:      fmt.Sprintf("%d.00", price),
		ReceivedAt: time.Unix(1700000000+int64(price), 0).UTC(),
	}
}

func TestRingBuffer_WrapAround(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 1; i <= 5; i++ {
		rb.Append(tick("BTCUSDT", i))
	}

	assert.True(t, rb.IsFull())
	assert.Equal(t, 3, rb.Size())

	latest := rb.GetLatest(10)
	require.Len(t, latest, 3)
	assert.Equal(t, "3.00", latest[0].Price)
	assert.Equal(t, "5.00", latest[2].Price)

	latest = rb.GetLatest(1)
	require.Len(t, latest, 1)
	assert.Equal(t, "5.00", latest[0].Price)

	assert.Empty(t, NewRingBuffer(2).GetLatest(5))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(2)
	require.NoError(t, s.Initialize())

	require.NoError(t, s.SavePrice(tick("BTCUSDT", 1)))
	require.NoError(t, s.SavePrice(tick("BTCUSDT", 2)))
	require.NoError(t, s.SavePrice(tick("BTCUSDT", 3)))
	require.NoError(t, s.SavePrice(tick("ETHUSDT", 9)))

	got, err := s.RecentPrices("BTCUSDT", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2.00", got[0].Price)
	assert.Equal(t, "3.00", got[1].Price)

	got, err = s.RecentPrices("SOLUSDT", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func newSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	db := NewSQLiteDB(filepath.Join(t.TempDir(), "relay.db"), logger.Discard())
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteDB_SaveAndQuery(t *testing.T) {
	db := newSQLite(t)

	for i := 1; i <= 4; i++ {
		require.NoError(t, db.SavePrice(tick("BTCUSDT", i)))
	}
	require.NoError(t, db.SavePrice(tick("ETHUSDT", 7)))

	got, err := db.RecentPrices("BTCUSDT", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2.00", got[0].Price, "oldest of the latest three first")
	assert.Equal(t, "4.00", got[2].Price)
	assert.Equal(t, tick("BTCUSDT", 4).ReceivedAt, got[2].ReceivedAt)

	got, err = db.RecentPrices("XRPUSDT", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteDB_InitializeIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.db")

	first := NewSQLiteDB(path, logger.Discard())
	require.NoError(t, first.Initialize())
	require.NoError(t, first.SavePrice(tick("BTCUSDT", 1)))
	require.NoError(t, first.Close())

	second := NewSQLiteDB(path, logger.Discard())
	require.NoError(t, second.Initialize())
	defer second.Close()

	got, err := second.RecentPrices("BTCUSDT", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1, "history survives reopening")
}

func TestAsyncRecorder_DrainsOnClose(t *testing.T) {
	mem := NewMemoryStore(100)
	rec := NewAsyncRecorder(mem, 64, logger.Discard())
	require.NoError(t, rec.Initialize())

	for i := 0; i < 20; i++ {
		require.NoError(t, rec.SavePrice(tick("BTCUSDT", i)))
	}
	require.NoError(t, rec.Close())

	got, err := mem.RecentPrices("BTCUSDT", 100)
	require.NoError(t, err)
	assert.Len(t, got, 20)

	assert.Error(t, rec.SavePrice(tick("BTCUSDT", 99)), "closed recorder rejects ticks")
	assert.NoError(t, rec.Close(), "second close is safe")
}

func TestNewPriceStore(t *testing.T) {
	cfg := config.Default()

	s, err := NewPriceStore(cfg.MConfig, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	cfg.Storage.DBType = "sqlite"
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "relay.db")
	s, err = NewPriceStore(cfg.MConfig, logger.Discard())
	require.NoError(t, err)
	require.IsType(t, &AsyncRecorder{}, s)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Close())

	cfg.Storage.DBType = "mongo"
	_, err = NewPriceStore(cfg.MConfig, logger.Discard())
	assert.Error(t, err)
}
