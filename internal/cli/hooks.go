package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/observability"
)

// RegisterDebugHooks reports layout, progression, cache and HTTP events to
// logger at debug level. main registers them when --verbose is set.
func RegisterDebugHooks(logger *log.Logger) {
	h := debugHooks{logger.WithPrefix("hook")}
	observability.SetLayoutHooks(h)
	observability.SetProgressionHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnLayoutStart(_ context.Context, treeID string, nodeCount int) {
	h.logger.Debug("layout start", "tree", treeID, "skills", nodeCount)
}

func (h debugHooks) OnLayoutComplete(_ context.Context, treeID string, d time.Duration, err error) {
	h.logger.Debug("layout done", "tree", treeID, "duration", d, "error", err)
}

func (h debugHooks) OnUpgrade(_ context.Context, treeID, skillID string, level int, err error) {
	h.logger.Debug("upgrade", "tree", treeID, "skill", skillID, "level", level, "error", err)
}

func (h debugHooks) OnDowngrade(_ context.Context, treeID, skillID string, level int, err error) {
	h.logger.Debug("downgrade", "tree", treeID, "skill", skillID, "level", level, "error", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// OnRequest is silent; the server middleware logs each request once done.
func (h debugHooks) OnRequest(context.Context, string, string) {}

func (h debugHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}
