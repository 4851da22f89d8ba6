// CLAUDE:SUMMARY Session wiring — owns the compressor, caches, and id generator for one logical browser session.
// Package mapper orchestrates the full page-to-PageMap build: cache tier
// decision, weight filtering, chunking, pruning, metadata extraction, and
// budgeted compression.
package mapper

import (
	"log/slog"

	"github.com/hazyhaar/domap/compress"
	"github.com/hazyhaar/domap/idgen"
	"github.com/hazyhaar/domap/pagecache"
	"github.com/hazyhaar/domap/templates"
)

// Session holds the per-session machinery. One Session serves one logical
// browser session; it is not safe for concurrent use, mirroring the cache
// layer's single-writer assumption.
type Session struct {
	cfg   Config
	log   *slog.Logger
	comp  *compress.Compressor
	langs *compress.LocaleDetector
	pages *pagecache.Cache
	tpls  *templates.Cache
	newID idgen.Generator

	noLangs bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithLogger(log *slog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// WithIDGenerator replaces the generation-id strategy.
func WithIDGenerator(gen idgen.Generator) SessionOption {
	return func(s *Session) { s.newID = gen }
}

// WithTemplateStore attaches SQLite persistence to the template cache.
func WithTemplateStore(store *templates.Store) SessionOption {
	return func(s *Session) {
		s.tpls = templates.NewCache(
			templates.WithTTL(s.cfg.Template.TTL),
			templates.WithLogger(s.log),
			templates.WithStore(store),
		)
	}
}

// WithoutLocaleDetection skips building the language detector. Builds
// then rely entirely on the caller's locale hint.
func WithoutLocaleDetection() SessionOption {
	return func(s *Session) { s.noLangs = true }
}

// NewSession builds a Session. The language detector is constructed
// eagerly; pass WithoutLocaleDetection when startup cost matters more
// than CJK budget accuracy.
func NewSession(cfg Config, opts ...SessionOption) *Session {
	cfg.defaults()
	s := &Session{
		cfg:   cfg,
		log:   slog.Default(),
		newID: idgen.Default,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.pages == nil {
		s.pages = pagecache.New(
			pagecache.WithCapacity(cfg.Cache.Capacity),
			pagecache.WithTTL(cfg.Cache.TTL),
			pagecache.WithLogger(s.log),
		)
	}
	if s.tpls == nil {
		s.tpls = templates.NewCache(
			templates.WithTTL(cfg.Template.TTL),
			templates.WithLogger(s.log),
		)
	}
	if s.comp == nil {
		s.comp = compress.New(nil)
	}
	if s.langs == nil && !s.noLangs {
		s.langs = compress.NewLocaleDetector()
	}
	return s
}

// Invalidate applies an invalidation event to the page cache.
func (s *Session) Invalidate(url string, reason pagecache.Reason) {
	s.pages.Invalidate(url, reason)
}

// CacheStats reports the session's cache outcome counters.
func (s *Session) CacheStats() pagecache.Stats {
	return s.pages.Stats()
}

// Truncate cuts text to at most max tokens using the session's counter.
func (s *Session) Truncate(text string, max int) string {
	return s.comp.Counter().Truncate(text, max)
}
