package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports observability events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnLoadStart(_ context.Context, name string) {
	h.logger.Debug("load started", "name", name)
}

func (h logHooks) OnLoadComplete(_ context.Context, name string, nodes, links int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "name", name, "duration", d, "error", err)
		return
	}
	h.logger.Debug("load complete", "name", name, "nodes", nodes, "links", links, "duration", d)
}

func (h logHooks) OnLayoutSettled(_ context.Context, ticks int) {
	h.logger.Debug("layout settled", "ticks", ticks)
}

func (h logHooks) OnClick(_ context.Context, x, y float64, nodeID string) {
	if nodeID == "" {
		h.logger.Debug("click missed", "x", x, "y", y)
		return
	}
	h.logger.Debug("click", "x", x, "y", y, "node", nodeID)
}

func (h logHooks) OnFilter(_ context.Context, lo, hi int, reset bool) {
	h.logger.Debug("filter", "min", lo, "max", hi, "reset", reset)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
