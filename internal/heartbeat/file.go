package heartbeat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var errFileNotCreated = errors.New("heartbeat file has not been created yet")

// FileChannel carries the heartbeat through a marker file's mtime, for hosts
// where a unix socket is unavailable. Create must run once at startup before
// the first Update.
type FileChannel struct {
	path    string
	created bool
}

// NewFileChannel places the marker under the user cache directory, falling
// back to the working directory when the platform has none.
func NewFileChannel() (*FileChannel, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		base, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving heartbeat file directory: %w", err)
		}
	}
	return &FileChannel{path: filepath.Join(base, "weathercollector", "heartbeat")}, nil
}

// Path returns where the marker lives.
func (f *FileChannel) Path() string { return f.path }

// Create writes the empty marker file. Its mtime starts fresh, so the file
// transport reads healthy right after startup, unlike the socket one.
func (f *FileChannel) Create() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating heartbeat directory: %w", err)
	}
	if err := os.WriteFile(f.path, nil, 0o644); err != nil {
		return fmt.Errorf("creating heartbeat file: %w", err)
	}
	f.created = true
	return nil
}

// Update recreates the marker and stamps it with the current time. Calling it
// before Create is a bug in the caller, not a transient condition.
func (f *FileChannel) Update() error {
	if !f.created {
		return errFileNotCreated
	}
	if err := os.WriteFile(f.path, nil, 0o644); err != nil {
		return fmt.Errorf("touching heartbeat file: %w", err)
	}
	now := time.Now()
	if err := os.Chtimes(f.path, now, now); err != nil {
		return fmt.Errorf("stamping heartbeat file: %w", err)
	}
	return nil
}

// Query reads the marker's mtime. A missing file reads as unhealthy.
func (f *FileChannel) Query() (time.Time, error) {
	fi, err := os.Stat(f.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading heartbeat file: %w", err)
	}
	return fi.ModTime(), nil
}
