// Package watcher delivers file change notifications from fsnotify.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are never descended into.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// Watcher creates recursive fsnotify subscriptions.
type Watcher struct {
	logger ports.Logger
}

// New creates a Watcher that reports backend errors to logger.
func New(logger ports.Logger) *Watcher {
	return &Watcher{logger: logger}
}

// Watch observes root and every directory below it. handler is called on the subscription's
// goroutine for writes and creations of files whose base name is in filters.
// An empty filters list passes every file.
func (w *Watcher) Watch(
	ctx context.Context,
	root string,
	filters []string,
	handler ports.WatchHandler,
) (ports.Subscription, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create fsnotify watcher")
	}

	for dir := range walkDirs(root) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	names := make(map[string]struct{}, len(filters))
	for _, name := range filters {
		names[name] = struct{}{}
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		fsw:     fsw,
		names:   names,
		handler: handler,
		logger:  w.logger,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go sub.processEvents(ctx)

	return sub, nil
}

// walkDirs yields root and all directories below it, skipping unreadable ones.
func walkDirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

type subscription struct {
	fsw     *fsnotify.Watcher
	names   map[string]struct{}
	handler ports.WatchHandler
	logger  ports.Logger
	cancel  context.CancelFunc
	done    chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Close stops the subscription and waits until the handler is no longer running.
func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = s.fsw.Close()
		<-s.done
	})
	return s.closeErr
}

func (s *subscription) processEvents(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			s.handle(event)
		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
			s.logger.Error(zerr.Wrap(err, "file system watch error"))
		}
	}
}

func (s *subscription) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !skipDirectories[info.Name()] {
				for dir := range walkDirs(event.Name) {
					_ = s.fsw.Add(dir)
				}
			}
			return
		}
	}

	if !s.matches(event.Name) {
		return
	}
	s.handler(ports.WatchEvent{Path: event.Name})
}

func (s *subscription) matches(path string) bool {
	if len(s.names) == 0 {
		return true
	}
	_, ok := s.names[filepath.Base(path)]
	return ok
}
