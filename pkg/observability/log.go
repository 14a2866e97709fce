package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that report to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnReadStart(_ context.Context, source string) {
	h.logger.Debug("reading points", "source", source)
}

func (h *LogHooks) OnReadComplete(_ context.Context, source string, points int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("read failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("read points", "source", source, "points", points, "duration", d)
}

func (h *LogHooks) OnAssembleStart(_ context.Context, points int) {
	h.logger.Debug("assembling scene", "points", points)
}

func (h *LogHooks) OnAssembleComplete(_ context.Context, visible, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("assemble failed", "err", err)
		return
	}
	h.logger.Debug("assembled scene", "visible", visible, "edges", edges, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("rendered", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
