package server

import (
	"net/http"
	"strconv"

	"token-pulse/src/analysis"
	"token-pulse/src/display"
	"token-pulse/src/models"

	"github.com/gin-gonic/gin"
)

const defaultCandleWindow = "1m"

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHealth(c *gin.Context) {
	snap := s.Feed.Snapshot()

	s.stateMutex.RLock()
	connections := s.connections
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   connections,
		"latest_update": snap.Timestamp,
		"tick":          snap.Tick,
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.Feed.Snapshot().ProcessingMetrics)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"source":           s.Config.Feed.Source,
		"tick_interval_ms": s.Config.Feed.TickIntervalMs,
		"max_change_pct":   s.Config.Feed.MaxChangePct,
		"history_size":     s.Config.Feed.HistorySize,
		"columns":          s.Config.Feed.Columns,
		"sort_fields": []analysis.SortField{
			analysis.SortByMarketCap, analysis.SortByVolume, analysis.SortByPrice,
			analysis.SortByTxCount, analysis.SortByTimeAgo,
		},
		"default_sort": gin.H{
			"field":     analysis.DefaultSortField,
			"direction": analysis.DefaultSortDirection,
		},
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getColumns(c *gin.Context) {
	field, dir, err := parseSortParams(c.Query("sort"), c.Query("dir"))
	if err != nil {
		writeError(c, err)
		return
	}

	snap := s.Feed.Snapshot()
	views := display.RenderColumns(snap.Columns, splitList(c.Query("columns")), field, dir, s.Settings.Get())
	c.JSON(http.StatusOK, gin.H{
		"tick":      snap.Tick,
		"timestamp": snap.Timestamp,
		"columns":   views,
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getColumn(c *gin.Context) {
	field, dir, err := parseSortParams(c.Query("sort"), c.Query("dir"))
	if err != nil {
		writeError(c, err)
		return
	}

	title := c.Param("title")
	for _, col := range s.Feed.Snapshot().Columns {
		if col.Title == title {
			c.JSON(http.StatusOK, display.RenderColumn(col, field, dir, s.Settings.Get()))
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "column not found: " + title})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getToken(c *gin.Context) {
	id := c.Param("id")
	rec, ok := s.Feed.Record(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found: " + id})
		return
	}

	history := s.Feed.History(id)
	mean, std, change := analysis.SummarizeHistory(history)
	if history == nil {
		history = []models.MHistoryPoint{}
	}

	c.JSON(http.StatusOK, models.MTokenDetail{
		Record:        rec,
		Card:          display.RenderCard(rec, s.Settings.Get()),
		History:       history,
		MeanPrice:     mean,
		StdPrice:      std,
		PercentChange: change,
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getCandles(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.Feed.Record(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found: " + id})
		return
	}

	window := c.DefaultQuery("window", defaultCandleWindow)
	candles, err := analysis.BuildCandles(id, s.Feed.History(id), window)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if candles == nil {
		candles = []models.MCandle{}
	}
	c.JSON(http.StatusOK, gin.H{"token_id": id, "window": window, "candles": candles})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getTicks(c *gin.Context) {
	if s.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price archive is disabled"})
		return
	}

	var since int64
	if raw := c.Query("since"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be unix millis"})
			return
		}
		since = v
	}

	ticks, err := s.DB.LoadPriceTicks(c.Request.Context(), c.Param("id"), since)
	if err != nil {
		writeError(c, err)
		return
	}
	if ticks == nil {
		ticks = []models.MPriceTick{}
	}
	c.JSON(http.StatusOK, ticks)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getTokenRegistry(c *gin.Context) {
	if s.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "token registry is disabled"})
		return
	}

	tokens, err := s.DB.LoadTokens(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if tokens == nil {
		tokens = []models.MTokenMetadata{}
	}
	c.JSON(http.StatusOK, tokens)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.Settings.Get())
}

// -----------------------------------------------------------------------------

// putSettings replaces the settings wholesale; omitted fields take their
// zero value and are validated as such.
func (s *FastAPIServer) putSettings(c *gin.Context) {
	var next models.MDisplaySettings
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings body: " + err.Error()})
		return
	}

	if err := s.Settings.Replace(c.Request.Context(), next); err != nil {
		writeError(c, err)
		return
	}

	// Re-render open clients with the new formatting.
	s.Refresh()
	c.JSON(http.StatusOK, s.Settings.Get())
}
