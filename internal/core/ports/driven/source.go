package driven

import (
	"context"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// RemoteSource provides access to the remote file-storage provider.
// Implementations must map provider errors onto the domain taxonomy:
// transient network failures to domain.ErrRemoteUnavailable, and a file
// deleted between list and fetch to domain.ErrNotFound.
type RemoteSource interface {
	// List enumerates every file recursively reachable under the
	// configured folder. Order is not guaranteed. The listing carries
	// metadata only; no content is downloaded.
	List(ctx context.Context) ([]domain.RemoteFile, error)

	// Fetch downloads the raw content of a single file.
	Fetch(ctx context.Context, fileID string) ([]byte, error)

	// Close releases resources.
	Close() error
}

// WatchableSource is a RemoteSource that can push change notifications.
// Only local sources implement this; the events carry no payload and
// callers respond by triggering a sync pass.
type WatchableSource interface {
	RemoteSource

	// Watch emits an event whenever the source content changes.
	// The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
