package storage

import (
	"database/sql"
	"fmt"

	"price-relay/src/helpers"
	"price-relay/src/logger"
	"price-relay/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	DSN    string
	Schema string
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewPostgresDB keeps all tables inside schema, named after the application.
func NewPostgresDB(dsn string, schema string, log *logger.Logger) *PostgresDB {
	return &PostgresDB{
		DSN:    dsn,
		Schema: schema,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	db, err := sql.Open("postgres", d.DSN)
	if err != nil {
		return helpers.NewDatabaseError("failed to open postgres", err)
	}

	if err := db.Ping(); err != nil {
		return helpers.NewDatabaseError("failed to ping postgres", err)
	}

	d.DB = db

	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("failed to create schema %s", d.Schema), err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."price_ticks" (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			price TEXT NOT NULL,
			received_at BIGINT NOT NULL
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("failed to create price_ticks", err)
	}

	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS price_ticks_symbol_idx ON "%s"."price_ticks" (symbol, id)`, d.Schema)
	if _, err := d.DB.Exec(index); err != nil {
		return helpers.NewDatabaseError("failed to index price_ticks", err)
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SavePrice(tick models.MPriceTick) error {
	query := fmt.Sprintf(`INSERT INTO "%s"."price_ticks" (symbol, price, received_at) VALUES ($1, $2, $3)`, d.Schema)
	if _, err := d.DB.Exec(query, tick.Symbol, tick.Price, tick.ReceivedAt.UnixNano()); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("failed to save %s tick", tick.Symbol), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) RecentPrices(symbol string, limit int) ([]models.MPriceTick, error) {
	query := fmt.Sprintf(`
		SELECT symbol, price, received_at FROM (
			SELECT id, symbol, price, received_at FROM "%s"."price_ticks"
			WHERE symbol = $1 ORDER BY id DESC LIMIT $2
		) recent ORDER BY id ASC`, d.Schema)

	rows, err := d.DB.Query(query, symbol, limit)
	if err != nil {
		return nil, helpers.NewDatabaseError("failed to query price_ticks", err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
