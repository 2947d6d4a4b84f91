package cache

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// entryMagic starts every file entry. The header line is
// "nsky1 <expiry unix nanos>\n", 0 meaning no expiry, and the raw document
// bytes follow it unchanged.
const entryMagic = "nsky1"

// FileCache stores one file per key under dir, sharded by the first byte of
// the key's SHA-256.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates dir if needed. An empty dir means
// $XDG_CACHE_HOME/nightsky or the platform equivalent.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "nightsky")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

func (c *FileCache) Dir() string { return c.dir }

// Get treats expired and malformed entries as misses and removes them.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	p := c.path(key)
	raw, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, body, ok := parseEntry(raw)
	if !ok || (expires > 0 && c.now().UnixNano() > expires) {
		_ = os.Remove(p)
		return nil, false, nil
	}
	return body, true, nil
}

func parseEntry(raw []byte) (expires int64, body []byte, ok bool) {
	header, body, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return 0, nil, false
	}
	var magic string
	if _, err := fmt.Sscanf(string(header), "%s %d", &magic, &expires); err != nil || magic != entryMagic {
		return 0, nil, false
	}
	return expires, body, true
}

// Set writes through a temp file and rename so readers never see a partial
// entry.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = c.now().Add(ttl).UnixNano()
	}

	p := c.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), ".entry-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s %d\n", entryMagic, expires)
	w.Write(data)
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, name[:2], name[2:])
}

var _ Cache = (*FileCache)(nil)
