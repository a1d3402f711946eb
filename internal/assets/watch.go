package assets

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/logger"
)

// changeBuffer bounds pending change notifications; extra events are dropped
// because one pending notification already triggers a reload.
const changeBuffer = 64

type watchState struct {
	watcher *fsnotify.Watcher
	changes chan string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Watch starts watching every directory source (recursively) for changes.
// Changed files are evicted from the cache and reported on Changes.
// The watcher stops when ctx is cancelled or Close is called.
func (m *Manager) Watch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watch != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	var roots []string
	for _, src := range m.sources {
		if src.dir == "" {
			continue
		}
		abs, err := filepath.Abs(src.dir)
		if err != nil {
			w.Close()
			return fmt.Errorf("resolving %s: %w", src.dir, err)
		}
		err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.Add(p)
			}
			return nil
		})
		if err != nil {
			w.Close()
			return fmt.Errorf("watching %s: %w", src.dir, err)
		}
		roots = append(roots, abs)
	}

	ctx, cancel := context.WithCancel(ctx)
	ws := &watchState{
		watcher: w,
		changes: make(chan string, changeBuffer),
		cancel:  cancel,
	}
	m.watch = ws

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		m.watchLoop(ctx, ws, roots)
	}()

	logger.Info("watching assets", zap.Strings("dirs", roots))
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, ws *watchState, roots []string) {
	log := logger.Named("assets")
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ws.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name, ok := relativeTo(roots, ev.Name)
			if !ok {
				continue
			}
			m.cache.Delete(name)
			log.Debug("asset changed", zap.String("file", name), zap.String("op", ev.Op.String()))
			select {
			case ws.changes <- name:
			default:
			}
		case err, ok := <-ws.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}

// relativeTo maps an absolute event path to a slash path relative to its root.
func relativeTo(roots []string, p string) (string, bool) {
	for _, root := range roots {
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel), true
	}
	return "", false
}

// Changes returns pending changed files without blocking.
func (m *Manager) Changes() []string {
	m.mu.RLock()
	ws := m.watch
	m.mu.RUnlock()
	if ws == nil {
		return nil
	}

	var changed []string
	for {
		select {
		case name := <-ws.changes:
			changed = append(changed, name)
		default:
			return changed
		}
	}
}

func (m *Manager) stopWatch() {
	m.mu.Lock()
	ws := m.watch
	m.watch = nil
	m.mu.Unlock()
	if ws == nil {
		return
	}

	ws.cancel()
	ws.watcher.Close()
	ws.wg.Wait()
}
