package interfaces

import (
	"context"

	"token-pulse/src/models"
)

// -----------------------------------------------------------------------------
// IFeedSource produces the column set and its per-tick replacements.
// -----------------------------------------------------------------------------

type IFeedSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchInitialData builds the starting column set.
	FetchInitialData(ctx context.Context) ([]models.MColumnGroup, error)

	// -----------------------------------------------------------------------------

	// NextBatch returns the column set for the next tick given the current one.
	// current must not be modified.
	NextBatch(ctx context.Context, current []models.MColumnGroup) ([]models.MColumnGroup, error)
}
