package interfaces

import "token-pulse/src/models"

// -----------------------------------------------------------------------------
// IFeedState is the read side of the running feed.
// -----------------------------------------------------------------------------

type IFeedState interface {

	// Snapshot returns a copy of the current column set.
	Snapshot() models.MFeedSnapshot

	// -----------------------------------------------------------------------------

	// Record looks up a token by id.
	Record(id string) (models.MTokenRecord, bool)

	// -----------------------------------------------------------------------------

	// History returns a token's recent prices, oldest first.
	History(id string) []models.MHistoryPoint
}
