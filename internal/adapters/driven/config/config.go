// Package config loads the kbsync configuration from a TOML file with
// environment overrides for credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

// Source types.
const (
	SourceGDrive  = "gdrive"
	SourceLocalFS = "localfs"
)

// EnvCredentials overrides credentials_file when set.
const EnvCredentials = "KBSYNC_GDRIVE_CREDENTIALS"

// Defaults applied to unset options.
const (
	DefaultMaxExtractChars = 1_000_000
	DefaultWorkers         = 4
	DefaultFetchTimeout    = Duration(30 * time.Second)
	DefaultSnippetWidth    = 200
)

// Duration is a time.Duration that unmarshals from TOML strings like
// "30s" or "2m".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the standard-library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full kbsync configuration.
type Config struct {
	// Source selects the remote backend: "gdrive" or "localfs".
	Source string `toml:"source"`

	// FolderID is the Drive folder to mirror (gdrive source).
	FolderID string `toml:"folder_id"`

	// CredentialsFile is the service-account JSON path (gdrive source).
	// The KBSYNC_GDRIVE_CREDENTIALS environment variable overrides it.
	CredentialsFile string `toml:"credentials_file"`

	// LocalPath is the directory to mirror (localfs source).
	LocalPath string `toml:"local_path"`

	// DataDir holds the index database. Empty means ~/.kbsync/data.
	// The special value ":memory:" selects an ephemeral in-memory index.
	DataDir string `toml:"data_dir"`

	// MaxExtractChars caps extracted text per document.
	MaxExtractChars int `toml:"max_extract_chars"`

	// Workers is the sync extraction worker-pool size.
	Workers int `toml:"workers"`

	// FetchTimeout bounds a single document download.
	FetchTimeout Duration `toml:"fetch_timeout"`

	// SnippetWidth is the search snippet window in characters.
	SnippetWidth int `toml:"snippet_width"`

	// Aliases rewrites query phrasings onto indexed spellings. Empty
	// means the built-in product aliases.
	Aliases map[string]string `toml:"aliases"`
}

// DefaultPath returns ~/.kbsync/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".kbsync", "config.toml"), nil
}

// Load reads the configuration file at path, overlays environment
// variables and fills defaults. A missing file yields the defaults;
// a malformed file is an error. Validation failures are fatal at
// startup rather than at first use.
func Load(path string) (*Config, error) {
	// Best effort: a .env in the working directory supplies overrides
	// during development.
	_ = godotenv.Load()

	cfg := &Config{Source: SourceGDrive}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if env := os.Getenv(EnvCredentials); env != "" {
		cfg.CredentialsFile = env
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxExtractChars <= 0 {
		c.MaxExtractChars = DefaultMaxExtractChars
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.SnippetWidth <= 0 {
		c.SnippetWidth = DefaultSnippetWidth
	}
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceGDrive:
		if c.FolderID == "" {
			return fmt.Errorf("%w: folder_id is required for the gdrive source", domain.ErrInvalidInput)
		}
		if c.CredentialsFile == "" {
			return fmt.Errorf("%w: set credentials_file or %s", domain.ErrMissingCredentials, EnvCredentials)
		}
	case SourceLocalFS:
		if c.LocalPath == "" {
			return fmt.Errorf("%w: local_path is required for the localfs source", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", domain.ErrInvalidInput, c.Source)
	}
	return nil
}
