package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timeruler/pkg/observability"
)

// LogHooks reports pipeline, cache and HTTP events to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// RegisterLogHooks installs LogHooks as the global observability hooks.
func RegisterLogHooks(logger *log.Logger) {
	h := LogHooks{Logger: logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h LogHooks) OnGenerateStart(_ context.Context, start, end string) {
	h.Logger.Debug("generate start", "start", start, "end", end)
}

func (h LogHooks) OnGenerateComplete(_ context.Context, start, end string, days int, d time.Duration, err error) {
	h.Logger.Debug("generate done", "start", start, "end", end, "days", days, "duration", d, "error", err)
}

func (h LogHooks) OnLayoutStart(_ context.Context, focus string, activeDays int) {
	h.Logger.Debug("layout start", "focus", focus, "active", activeDays)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, focus string, d time.Duration, err error) {
	h.Logger.Debug("layout done", "focus", focus, "duration", d, "error", err)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render done", "formats", formats, "duration", d, "error", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string)  { h.Logger.Debug("cache hit", "type", keyType) }
func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) { h.Logger.Debug("cache miss", "type", keyType) }
func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequestServed(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("served", "method", method, "route", route, "status", status, "duration", d)
}

func (h LogHooks) OnViewCreated(_ context.Context, id string) {
	h.Logger.Debug("view created", "view", id)
}

func (h LogHooks) OnDateClick(_ context.Context, id, date string) {
	h.Logger.Debug("date click", "view", id, "date", date)
}

var (
	_ observability.PipelineHooks = LogHooks{}
	_ observability.CacheHooks    = LogHooks{}
	_ observability.HTTPHooks     = LogHooks{}
)
