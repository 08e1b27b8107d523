package domain

import (
	"fmt"
	"time"
)

// RemoteFile describes a file in the remote source listing.
// It is ephemeral: re-fetched on every sync pass and never persisted
// beyond the ManifestEntry it produces.
type RemoteFile struct {
	// ID is the stable unique identifier assigned by the remote source.
	ID string

	// Name is the file name including extension.
	Name string

	// MIMEType is the MIME type reported by the remote source.
	MIMEType string

	// ModifiedTime is the last modification timestamp.
	ModifiedTime time.Time

	// SizeBytes is the file size in bytes.
	SizeBytes int64

	// Checksum is a content hash reported by the remote source,
	// empty when the source does not expose one.
	Checksum string
}

// Fingerprint returns a compact value used to detect content changes
// between sync passes. A content hash is preferred when the source
// exposes one; otherwise modified time and size are combined. An edit
// that changes neither timestamp nor size is missed in the fallback case.
func (f RemoteFile) Fingerprint() string {
	if f.Checksum != "" {
		return "md5:" + f.Checksum
	}
	return fmt.Sprintf("ts:%d:%d", f.ModifiedTime.UnixNano(), f.SizeBytes)
}
