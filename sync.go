package videoshelf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eringen/videoshelf/content"
)

// Enricher fills in node metadata from an external source before indexing.
type Enricher interface {
	Enrich(ctx context.Context, nodes []content.Node) ([]content.Node, error)
}

// SyncReport describes one completed sync.
type SyncReport struct {
	Nodes    int
	Videos   int
	Duration time.Duration
	At       time.Time
}

// Syncer loads the content directory into the Store. Calls are serialized,
// so the watcher, the scheduler and the admin resync can share one Syncer.
type Syncer struct {
	mu         sync.Mutex
	contentDir string
	store      *Store
	enricher   Enricher
	logger     *zap.Logger
	onSync     []func()
	last       SyncReport
}

// NewSyncer creates a Syncer for dir. enricher and logger may be nil.
func NewSyncer(dir string, store *Store, enricher Enricher, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{contentDir: dir, store: store, enricher: enricher, logger: logger}
}

// OnSync registers fn to run after every successful sync.
func (s *Syncer) OnSync(fn func()) {
	s.mu.Lock()
	s.onSync = append(s.onSync, fn)
	s.mu.Unlock()
}

// Sync reloads every document and replaces the index. Enrichment failures
// are logged and leave the nodes as loaded.
func (s *Syncer) Sync(ctx context.Context) (SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	nodes, err := content.Load(ctx, s.contentDir, content.LoadOptions{Logger: s.logger})
	if err != nil {
		return SyncReport{}, fmt.Errorf("videoshelf: sync: %w", err)
	}
	if s.enricher != nil {
		enriched, err := s.enricher.Enrich(ctx, nodes)
		if err != nil {
			s.logger.Warn("enrichment failed", zap.Error(err))
		} else {
			nodes = enriched
		}
	}
	if err := s.store.ReplaceAll(ctx, nodes); err != nil {
		return SyncReport{}, fmt.Errorf("videoshelf: sync: %w", err)
	}

	report := SyncReport{Nodes: len(nodes), Duration: time.Since(start), At: time.Now()}
	for _, n := range nodes {
		if n.Frontmatter.Type != content.TypeVideo {
			continue
		}
		report.Videos++
		if n.Frontmatter.Title == "" {
			s.logger.Warn("video has no title", zap.String("path", n.Path))
		}
	}
	s.last = report
	for _, fn := range s.onSync {
		fn()
	}
	s.logger.Info("content synced",
		zap.String("dir", s.contentDir),
		zap.Int("nodes", report.Nodes),
		zap.Int("videos", report.Videos),
		zap.Duration("took", report.Duration),
	)
	return report, nil
}

// LastReport returns the most recent successful sync, if any.
func (s *Syncer) LastReport() (SyncReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, !s.last.At.IsZero()
}

// ContentDir returns the directory this Syncer loads.
func (s *Syncer) ContentDir() string {
	return s.contentDir
}
