package editor

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/lexedit/internal/cachemanager"
	"github.com/zjrosen/lexedit/internal/config"
	"github.com/zjrosen/lexedit/internal/history"
	"github.com/zjrosen/lexedit/internal/lexer"
	"github.com/zjrosen/lexedit/internal/relex"
)

// Options configures a Document.
type Options struct {
	Language    lexer.Language
	MaxHistory  int
	ZoomDefault int
	ZoomMin     int
	ZoomMax     int

	// ScanCache memoizes line scans for CacheTTL when set.
	ScanCache cachemanager.CacheManager[relex.ScanKey, lexer.Result]
	CacheTTL  time.Duration

	// Tracer records document spans. Nil disables tracing.
	Tracer trace.Tracer
}

// DefaultOptions returns C++ scanning, a DefaultMaxEntries history and zoom
// 100 within 50..150.
func DefaultOptions() Options {
	return Options{
		Language:    lexer.CPP(),
		MaxHistory:  history.DefaultMaxEntries,
		ZoomDefault: 100,
		ZoomMin:     50,
		ZoomMax:     150,
	}
}

// OptionsFromConfig builds Options from cfg, creating the scan cache when
// lexer.cache is enabled.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.Language = opts.Language.WithKeywords(cfg.Lexer.ExtraKeywords...)
	if cfg.History.MaxEntries > 0 {
		opts.MaxHistory = cfg.History.MaxEntries
	}
	if cfg.Editor.ZoomMin > 0 && cfg.Editor.ZoomMax >= cfg.Editor.ZoomMin {
		opts.ZoomDefault = cfg.Editor.ZoomDefault
		opts.ZoomMin = cfg.Editor.ZoomMin
		opts.ZoomMax = cfg.Editor.ZoomMax
	}
	if cfg.Lexer.Cache.Enabled {
		opts.ScanCache = cachemanager.NewInMemoryCacheManager[relex.ScanKey, lexer.Result](
			"scan", cfg.Lexer.Cache.TTL, cfg.Lexer.Cache.CleanupInterval)
		opts.CacheTTL = cfg.Lexer.Cache.TTL
	}
	return opts
}
