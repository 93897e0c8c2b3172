package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"token-pulse/src/feed"
	"token-pulse/src/helpers"
	"token-pulse/src/interfaces"
	"token-pulse/src/logger"
	"token-pulse/src/models"
)

// columnsResponse is the body of GET {base}/columns.
type columnsResponse struct {
	Columns []models.MColumnGroup `json:"columns"`
}

// quotesResponse is the body of GET {base}/quotes.
type quotesResponse struct {
	Quotes []models.MTokenQuote `json:"quotes"`
}

// -----------------------------------------------------------------------------
// RemoteSource reads the column set and price quotes from an HTTP JSON feed.
// -----------------------------------------------------------------------------

type RemoteSource struct {
	BaseURL string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

func NewRemoteSource(baseURL string, netMgr interfaces.INetworkManager, log *logger.Logger) *RemoteSource {
	if log == nil {
		log = logger.NewLogger(nil, "RemoteSource")
	}
	return &RemoteSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (s *RemoteSource) Name() string {
	return "remote"
}

// -----------------------------------------------------------------------------

// FetchInitialData loads the full column set.
func (s *RemoteSource) FetchInitialData(ctx context.Context) ([]models.MColumnGroup, error) {
	body, err := s.Network.Get(ctx, s.BaseURL+"/columns", nil)
	if err != nil {
		return nil, err
	}

	var resp columnsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, helpers.NewDataSourceError("failed to decode columns", err)
	}
	if len(resp.Columns) == 0 {
		return nil, helpers.NewDataSourceError("remote feed returned no columns", nil)
	}

	s.Logger.Info("Loaded %d columns from %s", len(resp.Columns), s.BaseURL)
	return resp.Columns, nil
}

// -----------------------------------------------------------------------------

// NextBatch fetches quotes for the ids currently on the board and merges them.
// The feed may answer with any subset of the ids.
func (s *RemoteSource) NextBatch(ctx context.Context, current []models.MColumnGroup) ([]models.MColumnGroup, error) {
	ids := make([]string, 0)
	for _, c := range current {
		for _, r := range c.Records {
			ids = append(ids, r.ID)
		}
	}

	body, err := s.Network.Get(ctx, s.BaseURL+"/quotes", map[string]string{"ids": strings.Join(ids, ",")})
	if err != nil {
		return nil, err
	}

	var resp quotesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, helpers.NewDataSourceError("failed to decode quotes", err)
	}

	out := make([]models.MColumnGroup, len(current))
	for i, c := range current {
		out[i] = models.MColumnGroup{Title: c.Title, Records: feed.ApplyQuotes(c.Records, resp.Quotes)}
	}

	s.Logger.Debug("Applied %d quotes to %d records", len(resp.Quotes), len(ids))
	return out, nil
}

// -----------------------------------------------------------------------------

func (s *RemoteSource) String() string {
	return fmt.Sprintf("RemoteSource(%s)", s.BaseURL)
}
