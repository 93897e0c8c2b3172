package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"token-pulse/src/helpers"
	"token-pulse/src/logger"
	"token-pulse/src/models"
	"token-pulse/src/observability"

	"github.com/lib/pq"
)

var unsafeSchemaChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config  *models.MConfig
	DB      *sql.DB
	Schema  string
	Logger  *logger.Logger
	Metrics *observability.Metrics
}

// -----------------------------------------------------------------------------

// NewPostgresDB keeps every table under a schema named after the executable.
func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	if log == nil {
		log = logger.NewLogger(cfg, "PostgresDB")
	}

	return &PostgresDB{
		Config: cfg,
		Schema: SchemaName(exe),
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

// SchemaName derives a schema identifier from an executable path.
func SchemaName(exe string) string {
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = unsafeSchemaChars.ReplaceAllString(name, "_")
	if name == "" {
		return "token_pulse"
	}
	return strings.ToLower(name)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) table(name string) string {
	return pq.QuoteIdentifier(d.Schema) + "." + pq.QuoteIdentifier(name)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return helpers.NewDatabaseError("failed to open postgres", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("failed to reach postgres", err)
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(`CREATE SCHEMA IF NOT EXISTS ` + pq.QuoteIdentifier(d.Schema)); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("failed to create schema %s", d.Schema), err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	queries := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				key TEXT PRIMARY KEY,
				value JSONB NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`, d.table("settings")),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				token_id TEXT,
				symbol TEXT,
				price DOUBLE PRECISION,
				direction TEXT,
				timestamp BIGINT,
				PRIMARY KEY (token_id, timestamp)
			);
		`, d.table("price_ticks")),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS price_ticks_timestamp_idx ON %s (timestamp);`, d.table("price_ticks")),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				symbol TEXT,
				name TEXT,
				address TEXT,
				image TEXT,
				column_title TEXT,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`, d.table("tokens")),
	}

	for _, q := range queries {
		if _, err := d.DB.Exec(q); err != nil {
			return helpers.NewDatabaseError("failed to create tables", err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadSettings(ctx context.Context) (models.MDisplaySettings, bool, error) {
	start := time.Now()
	var raw []byte
	err := d.DB.QueryRowContext(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, d.table("settings")), settingsKey).Scan(&raw)
	d.Metrics.RecordDBQuery("postgres", "load_settings", start, ignoreNoRows(err))

	if errors.Is(err, sql.ErrNoRows) {
		return models.MDisplaySettings{}, false, nil
	}
	if err != nil {
		return models.MDisplaySettings{}, false, helpers.NewDatabaseError("failed to load settings", err)
	}

	var s models.MDisplaySettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.MDisplaySettings{}, false, helpers.NewDatabaseError("stored settings are corrupt", err)
	}
	return s, true, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveSettings(ctx context.Context, settings models.MDisplaySettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = d.DB.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, d.table("settings")), settingsKey, string(raw), time.Now().UTC())
	d.Metrics.RecordDBQuery("postgres", "save_settings", start, err)
	if err != nil {
		return helpers.NewDatabaseError("failed to save settings", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// SavePriceTicksBulk streams ticks through COPY into a temp table, then
// upserts, since COPY cannot resolve key conflicts itself.
func (d *PostgresDB) SavePriceTicksBulk(ctx context.Context, ticks []models.MPriceTick) (err error) {
	if len(ticks) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { d.Metrics.RecordDBQuery("postgres", "save_ticks", start, err) }()

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `
		CREATE TEMP TABLE price_ticks_staging (
			token_id TEXT, symbol TEXT, price DOUBLE PRECISION, direction TEXT, timestamp BIGINT
		) ON COMMIT DROP
	`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("price_ticks_staging", "token_id", "symbol", "price", "direction", "timestamp"))
	if err != nil {
		return err
	}
	for _, t := range ticks {
		if _, err = stmt.ExecContext(ctx, t.TokenID, t.Symbol, t.Price, string(t.Direction), t.Timestamp); err != nil {
			stmt.Close()
			return err
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return err
	}
	if err = stmt.Close(); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (token_id, symbol, price, direction, timestamp)
		SELECT token_id, symbol, price, direction, timestamp FROM price_ticks_staging
		ON CONFLICT (token_id, timestamp) DO UPDATE SET
			price = EXCLUDED.price,
			direction = EXCLUDED.direction
	`, d.table("price_ticks"))); err != nil {
		return err
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadPriceTicks(ctx context.Context, tokenID string, since int64) ([]models.MPriceTick, error) {
	start := time.Now()
	rows, err := d.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT token_id, symbol, price, direction, timestamp
		FROM %s WHERE token_id = $1 AND timestamp >= $2
		ORDER BY timestamp
	`, d.table("price_ticks")), tokenID, since)
	d.Metrics.RecordDBQuery("postgres", "load_ticks", start, err)
	if err != nil {
		return nil, helpers.NewDatabaseError("failed to load price ticks", err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveTokens(ctx context.Context, columns []models.MColumnGroup) (err error) {
	start := time.Now()
	defer func() { d.Metrics.RecordDBQuery("postgres", "save_tokens", start, err) }()

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, symbol, name, address, image, column_title, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			image = EXCLUDED.image,
			column_title = EXCLUDED.column_title,
			updated_at = EXCLUDED.updated_at
	`, d.table("tokens")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
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

func (d *PostgresDB) LoadTokens(ctx context.Context) ([]models.MTokenMetadata, error) {
	rows, err := d.DB.QueryContext(ctx, fmt.Sprintf(`SELECT id, symbol, name, address, image, column_title FROM %s ORDER BY id`, d.table("tokens")))
	if err != nil {
		return nil, helpers.NewDatabaseError("failed to load tokens", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) CleanupOldData(ctx context.Context) error {
	retention := d.Config.Feed.RetentionMinutes
	cutoff := time.Now().UTC().Add(-time.Duration(retention) * time.Minute).UnixMilli()

	d.Logger.Info("Cleaning up ticks older than %d minutes (timestamp < %d)...", retention, cutoff)

	start := time.Now()
	res, err := d.DB.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE timestamp < $1`, d.table("price_ticks")), cutoff)
	d.Metrics.RecordDBQuery("postgres", "cleanup", start, err)
	if err != nil {
		return helpers.NewDatabaseError("cleanup price_ticks failed", err)
	}

	n, _ := res.RowsAffected()
	d.Logger.Info("Cleanup completed (%d ticks removed)", n)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
