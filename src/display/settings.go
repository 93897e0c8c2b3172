package display

import (
	"context"
	"sync"
	"sync/atomic"

	"token-pulse/src/helpers"
	"token-pulse/src/interfaces"
	"token-pulse/src/logger"
	"token-pulse/src/models"
	"token-pulse/src/observability"
)

// Allowed values for the enumerated settings.
var (
	metricsSizes  = map[string]bool{"small": true, "large": true}
	quickBuySizes = map[string]bool{"small": true, "large": true, "mega": true, "ultra": true}
	themes        = map[string]bool{"grey": true, "dark": true}
)

// ValidateSettings checks enumerated fields and bounds.
func ValidateSettings(s models.MDisplaySettings) error {
	if !metricsSizes[s.MetricsSize] {
		return helpers.NewValidationError("invalid metrics_size %q (small|large)", s.MetricsSize)
	}
	if !quickBuySizes[s.QuickBuySize] {
		return helpers.NewValidationError("invalid quick_buy_size %q (small|large|mega|ultra)", s.QuickBuySize)
	}
	if s.QuickBuyAmount < 0 {
		return helpers.NewValidationError("quick_buy_amount cannot be negative, got %d", s.QuickBuyAmount)
	}
	if !themes[s.Theme] {
		return helpers.NewValidationError("invalid theme %q (grey|dark)", s.Theme)
	}
	return nil
}

// -----------------------------------------------------------------------------
// SettingsHolder hands out the current display settings by value and
// swaps them wholesale.
// -----------------------------------------------------------------------------

type SettingsHolder struct {
	DB      interfaces.IDatabase
	Metrics *observability.Metrics
	Logger  *logger.Logger

	current atomic.Pointer[models.MDisplaySettings]
	writeMu sync.Mutex
}

// NewSettingsHolder starts from the defaults. db may be nil, in which case
// settings live only in memory.
func NewSettingsHolder(db interfaces.IDatabase, metrics *observability.Metrics, log *logger.Logger) *SettingsHolder {
	if log == nil {
		log = logger.NewLogger(nil, "SettingsHolder")
	}
	h := &SettingsHolder{DB: db, Metrics: metrics, Logger: log}
	defaults := models.DefaultDisplaySettings()
	h.current.Store(&defaults)
	return h
}

// -----------------------------------------------------------------------------

// Get returns a copy of the current settings.
func (h *SettingsHolder) Get() models.MDisplaySettings {
	return *h.current.Load()
}

// -----------------------------------------------------------------------------

// Replace validates, persists and then publishes s. On any error the
// current settings are left untouched.
func (h *SettingsHolder) Replace(ctx context.Context, s models.MDisplaySettings) error {
	if err := ValidateSettings(s); err != nil {
		return err
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if h.DB != nil {
		if err := h.DB.SaveSettings(ctx, s); err != nil {
			return err
		}
	}

	h.current.Store(&s)
	h.Metrics.RecordSettingsUpdate()
	h.Logger.Info("Display settings replaced (no_decimals=%v, circle_images=%v)", s.NoDecimals, s.CircleImages)
	return nil
}

// -----------------------------------------------------------------------------

// Load restores persisted settings. Missing or invalid rows keep the defaults.
func (h *SettingsHolder) Load(ctx context.Context) error {
	if h.DB == nil {
		return nil
	}

	s, found, err := h.DB.LoadSettings(ctx)
	if err != nil {
		return err
	}
	if !found {
		h.Logger.Info("No stored display settings, using defaults")
		return nil
	}
	if err := ValidateSettings(s); err != nil {
		h.Logger.Warning("Ignoring stored display settings: %v", err)
		return nil
	}

	h.writeMu.Lock()
	h.current.Store(&s)
	h.writeMu.Unlock()
	return nil
}
