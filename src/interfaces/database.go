package interfaces

import (
	"context"

	"token-pulse/src/models"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for storage operations.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// LoadSettings returns the stored display settings.
	// found is false when nothing has been saved yet.
	LoadSettings(ctx context.Context) (settings models.MDisplaySettings, found bool, err error)

	// -----------------------------------------------------------------------------

	// SaveSettings replaces the stored display settings.
	SaveSettings(ctx context.Context, settings models.MDisplaySettings) error

	// -----------------------------------------------------------------------------

	// SavePriceTicksBulk inserts a batch of archived price ticks.
	SavePriceTicksBulk(ctx context.Context, ticks []models.MPriceTick) error

	// -----------------------------------------------------------------------------

	// LoadPriceTicks returns a token's archived ticks at or after since (unix millis), oldest first.
	LoadPriceTicks(ctx context.Context, tokenID string, since int64) ([]models.MPriceTick, error)

	// -----------------------------------------------------------------------------

	// SaveTokens upserts token metadata for every record on the board.
	SaveTokens(ctx context.Context, columns []models.MColumnGroup) error

	// -----------------------------------------------------------------------------

	// LoadTokens lists the token registry.
	LoadTokens(ctx context.Context) ([]models.MTokenMetadata, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes ticks older than the retention policy.
	CleanupOldData(ctx context.Context) error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
