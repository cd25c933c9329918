package storage

import (
	"database/sql"
	"fmt"
	"time"

	"price-relay/src/helpers"
	"price-relay/src/logger"
	"price-relay/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteDB struct {
	DSN    string
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteDB(dsn string, log *logger.Logger) *SQLiteDB {
	return &SQLiteDB{
		DSN:    dsn,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Initialize() error {
	db, err := sql.Open("sqlite", d.DSN)
	if err != nil {
		return helpers.NewDatabaseError("failed to open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		return helpers.NewDatabaseError("failed to ping sqlite", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS price_ticks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			price TEXT NOT NULL,
			received_at INTEGER NOT NULL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("failed to create price_ticks", err)
	}

	if _, err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_price_ticks_symbol ON price_ticks (symbol, id)`); err != nil {
		return helpers.NewDatabaseError("failed to index price_ticks", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SavePrice(tick models.MPriceTick) error {
	_, err := d.DB.Exec(
		`INSERT INTO price_ticks (symbol, price, received_at) VALUES (?, ?, ?)`,
		tick.Symbol, tick.Price, tick.ReceivedAt.UnixNano(),
	)
	if err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("failed to save %s tick", tick.Symbol), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) RecentPrices(symbol string, limit int) ([]models.MPriceTick, error) {
	rows, err := d.DB.Query(
		`SELECT symbol, price, received_at FROM (
			SELECT id, symbol, price, received_at FROM price_ticks
			WHERE symbol = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		symbol, limit,
	)
	if err != nil {
		return nil, helpers.NewDatabaseError("failed to query price_ticks", err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// -----------------------------------------------------------------------------

func scanTicks(rows *sql.Rows) ([]models.MPriceTick, error) {
	ticks := []models.MPriceTick{}
	for rows.Next() {
		var (
			tick models.MPriceTick
			ns   int64
		)
		if err := rows.Scan(&tick.Symbol, &tick.Price, &ns); err != nil {
			return nil, helpers.NewDatabaseError("failed to scan tick", err)
		}
		tick.ReceivedAt = time.Unix(0, ns).UTC()
		ticks = append(ticks, tick)
	}
	if err := rows.Err(); err != nil {
		return nil, helpers.NewDatabaseError("failed to read ticks", err)
	}
	return ticks, nil
}
