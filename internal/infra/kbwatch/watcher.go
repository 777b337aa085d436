// Package kbwatch reloads a knowledge-base file when it changes on disk.
package kbwatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aalvaropc/haidx/internal/domain"
	"github.com/aalvaropc/haidx/internal/ports"
)

// Reload is the outcome of one reload: a new knowledge base, or the load error.
type Reload struct {
	Path string
	KB   *domain.KnowledgeBase
	Err  error
}

// Watcher watches the directory of a knowledge-base file so that editors
// which save by rename are still seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	loader   ports.KnowledgeBaseLoader
	path     string
	debounce time.Duration
	pending  time.Time
	running  bool
	stopped  bool

	updates   chan Reload
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once

	log *slog.Logger
}

type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

func New(path string, loader ports.KnowledgeBaseLoader, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &domain.OpError{Op: "kbwatch.new", Kind: domain.KindInvalidInput, Path: path, Err: err}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &domain.OpError{Op: "kbwatch.new", Kind: domain.KindExecution, Path: path, Err: err}
	}

	w := &Watcher{
		watcher:  fw,
		loader:   loader,
		path:     filepath.Clean(abs),
		debounce: 300 * time.Millisecond,
		updates:  make(chan Reload, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Updates delivers reloads. Only the latest unread reload is kept.
// The channel is closed when the watcher stops.
func (w *Watcher) Updates() <-chan Reload { return w.updates }

// Path is the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching. It does not block. The lock is held until the
// loop is launched, so a concurrent Stop sees either nothing or a running loop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.stopped {
		return &domain.OpError{Op: "kbwatch.start", Kind: domain.KindExecution, Path: w.path, Err: errors.New("watcher already stopped")}
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return &domain.OpError{Op: "kbwatch.start", Kind: domain.KindNotFound, Path: dir, Err: err}
	}
	w.running = true
	w.log.Info("kbwatch.started", "path", w.path)

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	w.closeOnce.Do(func() {
		close(w.stopCh)
		if wasRunning {
			<-w.doneCh
		} else {
			close(w.updates)
		}
		if err := w.watcher.Close(); err != nil {
			w.log.Error("kbwatch.close_failed", "err", err.Error())
		}
		w.log.Info("kbwatch.stopped", "path", w.path)
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.updates)

	tick := time.NewTicker(max(w.debounce/4, time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("kbwatch.error", "err", err.Error())

		case now := <-tick.C:
			if !w.pending.IsZero() && now.Sub(w.pending) >= w.debounce {
				w.pending = time.Time{}
				w.reload()
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	w.log.Debug("kbwatch.event", "op", ev.Op.String(), "path", ev.Name)
	w.pending = time.Now()
}

func (w *Watcher) reload() {
	kb, err := w.loader.LoadKnowledgeBase(w.path)
	r := Reload{Path: w.path, KB: kb, Err: err}
	if err != nil {
		w.log.Warn("kbwatch.reload_failed", "path", w.path, "err", err.Error())
	} else {
		w.log.Info("kbwatch.reloaded", "path", w.path, "profiles", kb.Len())
	}

	// drop a stale unread reload so the newest one wins
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- r:
	default:
	}
}
