package ports

import "context"

// WatchEvent is a change notification for a single file.
type WatchEvent struct {
	// Path is the absolute path of the file that changed.
	Path string
}

// WatchHandler receives change notifications. It may be invoked from any goroutine.
type WatchHandler func(WatchEvent)

// Subscription is an active change notification subscription.
type Subscription interface {
	// Close stops delivery and releases the OS watch resources.
	// Once Close returns the handler is no longer running and will not be invoked again.
	Close() error
}

// Watcher subscribes to OS-level file change notifications.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch observes root recursively and delivers changes of files whose base name
	// is one of filters.
	Watch(ctx context.Context, root string, filters []string, handler WatchHandler) (Subscription, error)
}
