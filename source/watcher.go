package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the shape document watcher.
type WatcherConfig struct {
	// Root is the directory to watch recursively.
	Root string

	// Patterns select the files that trigger a reload, relative to Root.
	// Defaults to DefaultPatterns.
	Patterns []string

	// DebounceDelay is how long the tree must be quiet before OnChange runs.
	DebounceDelay time.Duration

	// OnChange receives the sorted relative paths changed since the last call.
	OnChange func(ctx context.Context, changed []string)

	// Logger for logging events
	Logger *slog.Logger
}

// Watcher watches a directory tree of shape documents and reports batches of
// changes after a quiet period.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // relative path → most recent operation
	lastEvent time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher. Call Start to begin watching.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Root == "" {
		return nil, fmt.Errorf("watch root required")
	}
	if config.OnChange == nil {
		return nil, fmt.Errorf("change callback required")
	}
	if len(config.Patterns) == 0 {
		config.Patterns = DefaultPatterns
	}
	for _, p := range config.Patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = 250 * time.Millisecond
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
	}, nil
}

// Start adds watches under Root and processes events until ctx is cancelled
// or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return fmt.Errorf("watch %s: %w", w.config.Root, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.processEvents(ctx)

	w.logger.Info("Shape watcher started",
		"root", w.config.Root,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop stops the watcher and waits for any in-flight callback.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

func skipDir(path string) bool {
	base := filepath.Base(path)
	return base == "vendor" || base == "node_modules" || strings.HasPrefix(base, ".")
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.DebounceDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return
		}
	}

	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil || !w.relevant(filepath.ToSlash(rel)) {
		return
	}
	rel = filepath.ToSlash(rel)

	w.pendingMu.Lock()
	w.pending[rel] |= event.Op
	w.lastEvent = time.Now()
	w.pendingMu.Unlock()

	w.logger.Debug("Shape document change detected",
		"path", rel,
		"op", event.Op.String())
}

func (w *Watcher) relevant(rel string) bool {
	if hidden(rel) {
		return false
	}
	for _, p := range w.config.Patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// handleNewDirectory watches a directory created after Start, along with any
// subdirectories created before the watch was in place.
func (w *Watcher) handleNewDirectory(path string) {
	if skipDir(path) {
		return
	}
	if err := w.addWatchesRecursive(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
		return
	}
	w.logger.Debug("Added watch for new directory", "path", path)

	// Files written before the watch existed produce no events.
	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		w.handleFSEvent(fsnotify.Event{Name: p, Op: fsnotify.Create})
		return nil
	})
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 || time.Since(w.lastEvent) < w.config.DebounceDelay {
		w.pendingMu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for rel := range w.pending {
		changed = append(changed, rel)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	slices.Sort(changed)
	w.logger.Debug("Shape documents changed", "paths", changed)
	w.config.OnChange(ctx, changed)
}
