package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// logger. The CLI registers it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// Register installs h for pipeline, cache and HTTP events.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnGenerateStart(_ context.Context, runID, params string) {
	h.Logger.Debug("generation started", "run", runID, "params", params)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, runID string, stars int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("generation failed", "run", runID, "error", err)
		return
	}
	h.Logger.Debug("generation finished", "run", runID, "stars", stars, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnLayerComplete(_ context.Context, runID, layer string, d time.Duration, skipped bool) {
	if skipped {
		h.Logger.Debug("layer skipped", "run", runID, "layer", layer)
		return
	}
	h.Logger.Debug("layer done", "run", runID, "layer", layer, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnExportComplete(_ context.Context, runID, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("export failed", "run", runID, "format", format, "error", err)
		return
	}
	h.Logger.Debug("exported", "run", runID, "format", format, "bytes", size, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Error("request failed", "method", method, "path", path, "error", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
