// Package gdrive implements the RemoteSource port on top of the Google
// Drive v3 API with service-account credentials.
package gdrive

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
	"github.com/hctlabs/kbsync/internal/logger"
)

// Google Workspace MIME types that need export instead of download.
const (
	mimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	mimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	mimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	mimeTypeFolder       = "application/vnd.google-apps.folder"
)

// exportTargets maps Workspace MIME types to their export format.
var exportTargets = map[string]string{
	mimeTypeGoogleDoc:    "text/plain",
	mimeTypeGoogleSheet:  "text/csv",
	mimeTypeGoogleSlides: "text/plain",
}

// MaxFetchSize caps a single download or export (32MB).
const MaxFetchSize = 32 * 1024 * 1024

// listFields selects the file metadata a sync pass needs.
const listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, md5Checksum, trashed)"

// Drive allows 10 requests/sec/user; stay under it.
const (
	requestsPerSecond = 8.0
	burstSize         = 10
)

// Config holds the connector configuration.
type Config struct {
	// FolderID is the Drive folder to mirror, including subfolders.
	FolderID string

	// CredentialsFile is the path to the service-account JSON key.
	CredentialsFile string
}

// Source lists and fetches files from one Google Drive folder tree.
type Source struct {
	svc      *drive.Service
	folderID string
	limiter  *rate.Limiter
}

var _ driven.RemoteSource = (*Source)(nil)

// NewSource creates a Drive source from service-account credentials.
// Missing or unreadable credentials fail with domain.ErrMissingCredentials.
func NewSource(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.FolderID == "" {
		return nil, fmt.Errorf("%w: folder_id is required", domain.ErrInvalidInput)
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("%w: no credentials file configured", domain.ErrMissingCredentials)
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrMissingCredentials, cfg.CredentialsFile, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", domain.ErrMissingCredentials, cfg.CredentialsFile, err)
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Source{
		svc:      svc,
		folderID: cfg.FolderID,
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}, nil
}

// List walks the folder tree breadth-first and returns every non-folder
// file in it. Workspace files are advertised with their export MIME
// type so format dispatch sees what Fetch will actually return.
func (s *Source) List(ctx context.Context) ([]domain.RemoteFile, error) {
	var files []domain.RemoteFile

	queue := []string{s.folderID}
	seen := map[string]bool{s.folderID: true}

	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		pageToken := ""
		for {
			var page *drive.FileList
			err := s.call(ctx, func() error {
				var err error
				page, err = s.svc.Files.List().
					Q(fmt.Sprintf("'%s' in parents and trashed = false", folder)).
					Fields(listFields).
					PageSize(1000).
					PageToken(pageToken).
					Context(ctx).
					Do()
				return err
			})
			if err != nil {
				return nil, fmt.Errorf("listing folder %s: %w", folder, translateErr(err))
			}

			for _, f := range page.Files {
				if f.MimeType == mimeTypeFolder {
					if !seen[f.Id] {
						seen[f.Id] = true
						queue = append(queue, f.Id)
					}
					continue
				}
				files = append(files, mapFile(f))
			}

			pageToken = page.NextPageToken
			if pageToken == "" {
				break
			}
		}
	}

	logger.Debug("Drive listing: %d files under folder %s", len(files), s.folderID)
	return files, nil
}

// Fetch downloads a file's content, exporting Workspace formats to
// text. A file deleted since listing fails with domain.ErrNotFound.
func (s *Source) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	var meta *drive.File
	err := s.call(ctx, func() error {
		var err error
		meta, err = s.svc.Files.Get(fileID).
			Fields("id, mimeType, trashed").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching metadata for %s: %w", fileID, translateErr(err))
	}
	if meta.Trashed {
		return nil, fmt.Errorf("file %s is trashed: %w", fileID, domain.ErrNotFound)
	}

	var body io.ReadCloser
	if exportMime, ok := exportTargets[meta.MimeType]; ok {
		err = s.call(ctx, func() error {
			resp, err := s.svc.Files.Export(fileID, exportMime).Context(ctx).Download()
			if err != nil {
				return err
			}
			body = resp.Body
			return nil
		})
	} else {
		err = s.call(ctx, func() error {
			resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
			if err != nil {
				return err
			}
			body = resp.Body
			return nil
		})
	}
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", fileID, translateErr(err))
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileID, translateErr(err))
	}
	return data, nil
}

// Close releases the source. The Drive client holds no resources that
// outlive its HTTP connections.
func (s *Source) Close() error {
	return nil
}

// mapFile converts Drive metadata to a RemoteFile.
func mapFile(f *drive.File) domain.RemoteFile {
	mimeType := f.MimeType
	if export, ok := exportTargets[f.MimeType]; ok {
		mimeType = export
	}

	modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		modified = time.Time{}
	}

	return domain.RemoteFile{
		ID:           f.Id,
		Name:         f.Name,
		MIMEType:     mimeType,
		SizeBytes:    f.Size,
		ModifiedTime: modified,
		Checksum:     f.Md5Checksum,
	}
}
