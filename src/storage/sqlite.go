package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"token-pulse/src/helpers"
	"token-pulse/src/logger"
	"token-pulse/src/models"
	"token-pulse/src/observability"

	_ "modernc.org/sqlite"
)

// settingsKey is the single row holding the display settings.
const settingsKey = "display"

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	Config  *models.MConfig
	DB      *sql.DB
	Logger  *logger.Logger
	Metrics *observability.Metrics
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	if log == nil {
		log = logger.NewLogger(cfg, "SQLiteDB")
	}
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath
	if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return helpers.NewDatabaseError("failed to create database directory", err)
		}
	}

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return helpers.NewDatabaseError("failed to open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("failed to reach sqlite", err)
	}

	// One writer; avoids SQLITE_BUSY between the archive listener and API writes.
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

func (d *AsyncSQLiteDB) createTables() error {
	queries := map[string]string{
		"settings": `
			CREATE TABLE IF NOT EXISTS settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at INTEGER NOT NULL
			);
		`,
		// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
		"price_ticks": `
			CREATE TABLE IF NOT EXISTS price_ticks (
				token_id TEXT,
				symbol TEXT,
				price REAL,
				direction TEXT,
				timestamp INTEGER,
				PRIMARY KEY (token_id, timestamp)
			);
		`,
		"tokens": `
			CREATE TABLE IF NOT EXISTS tokens (
				id TEXT PRIMARY KEY,
				symbol TEXT,
				name TEXT,
				address TEXT,
				image TEXT,
				column_title TEXT,
				updated_at INTEGER
			);
		`,
	}

	for _, table := range []string{"settings", "price_ticks", "tokens"} {
		if _, err := d.DB.Exec(queries[table]); err != nil {
			return helpers.NewDatabaseError(fmt.Sprintf("failed to create %s", table), err)
		}
	}
	if _, err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_price_ticks_timestamp ON price_ticks (timestamp)`); err != nil {
		return helpers.NewDatabaseError("failed to index price_ticks", err)
	}

	d.Logger.Info("SQLite initialized at %s", d.Config.Storage.DBPath)
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) LoadSettings(ctx context.Context) (models.MDisplaySettings, bool, error) {
	start := time.Now()
	var raw string
	err := d.DB.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&raw)
	d.Metrics.RecordDBQuery("sqlite", "load_settings", start, ignoreNoRows(err))

	if errors.Is(err, sql.ErrNoRows) {
		return models.MDisplaySettings{}, false, nil
	}
	if err != nil {
		return models.MDisplaySettings{}, false, helpers.NewDatabaseError("failed to load settings", err)
	}

	var s models.MDisplaySettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return models.MDisplaySettings{}, false, helpers.NewDatabaseError("stored settings are corrupt", err)
	}
	return s, true, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) SaveSettings(ctx context.Context, settings models.MDisplaySettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = d.DB.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, settingsKey, string(raw), time.Now().UTC().UnixMilli())
	d.Metrics.RecordDBQuery("sqlite", "save_settings", start, err)
	if err != nil {
		return helpers.NewDatabaseError("failed to save settings", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) SavePriceTicksBulk(ctx context.Context, ticks []models.MPriceTick) (err error) {
	if len(ticks) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { d.Metrics.RecordDBQuery("sqlite", "save_ticks", start, err) }()

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO price_ticks (token_id, symbol, price, direction, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range ticks {
		if _, err = stmt.ExecContext(ctx, t.TokenID, t.Symbol, t.Price, string(t.Direction), t.Timestamp); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) LoadPriceTicks(ctx context.Context, tokenID string, since int64) ([]models.MPriceTick, error) {
	start := time.Now()
	rows, err := d.DB.QueryContext(ctx, `
		SELECT token_id, symbol, price, direction, timestamp
		FROM price_ticks WHERE token_id = ? AND timestamp >= ?
		ORDER BY timestamp
	`, tokenID, since)
	d.Metrics.RecordDBQuery("sqlite", "load_ticks", start, err)
	if err != nil {
		return nil, helpers.NewDatabaseError("failed to load price ticks", err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) SaveTokens(ctx context.Context, columns []models.MColumnGroup) (err error) {
	start := time.Now()
	defer func() { d.Metrics.RecordDBQuery("sqlite", "save_tokens", start, err) }()

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tokens (id, symbol, name, address, image, column_title, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			symbol = excluded.symbol,
			name = excluded.name,
			address = excluded.address,
			image = excluded.image,
			column_title = excluded.column_title,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixMilli()
	for _, c := range columns {
		for _, r := range c.Records {
			if _, err = stmt.ExecContext(ctx, r.ID, r.Symbol, r.Name, r.Address, r.Image, c.Title, now); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) LoadTokens(ctx context.Context) ([]models.MTokenMetadata, error) {
	rows, err := d.DB.QueryContext(ctx, `SELECT id, symbol, name, address, image, column_title FROM tokens ORDER BY id`)
	if err != nil {
		return nil, helpers.NewDatabaseError("failed to load tokens", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) CleanupOldData(ctx context.Context) error {
	retention := d.Config.Feed.RetentionMinutes
	cutoff := time.Now().UTC().Add(-time.Duration(retention) * time.Minute).UnixMilli()

	d.Logger.Info("Cleaning up ticks older than %d minutes (timestamp < %d)...", retention, cutoff)

	start := time.Now()
	res, err := d.DB.ExecContext(ctx, "DELETE FROM price_ticks WHERE timestamp < ?", cutoff)
	d.Metrics.RecordDBQuery("sqlite", "cleanup", start, err)
	if err != nil {
		return helpers.NewDatabaseError("cleanup price_ticks failed", err)
	}

	n, _ := res.RowsAffected()
	d.Logger.Info("Cleanup completed (%d ticks removed)", n)
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
