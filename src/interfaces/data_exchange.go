package interfaces

import "token-pulse/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defines the contract for pushing feed state to external clients.
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast pushes a feed snapshot to every connected client.
	Broadcast(snapshot models.MFeedSnapshot)

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
