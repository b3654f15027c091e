package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"tokflow/internal/diag"
	"tokflow/internal/source"
	"tokflow/internal/token"
	"tokflow/internal/tokens"
)

// Bump when CachePayload or tokens.Snapshot change shape.
const diskCacheSchemaVersion uint16 = 1

// Digest keys cache entries.
type Digest [32]byte

// DiskCache stores linked token lists keyed by file content and the
// options that shaped them. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is one cached unit: the list after linking plus the
// diagnostics tokenizing produced.
type CachePayload struct {
	Schema   uint16
	Path     string
	Snapshot *tokens.Snapshot
	Diags    []diag.Diagnostic
}

// OpenDiskCache opens dir, or $XDG_CACHE_HOME/tokflow when dir is empty.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "tokflow")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

// CacheKey derives the entry key for a file tokenized with the given
// settings.
func CacheKey(fileHash [32]byte, lang token.Lang, maxTokenLen int) Digest {
	h := sha256.New()
	var hdr [11]byte
	binary.LittleEndian.PutUint16(hdr[0:], diskCacheSchemaVersion)
	hdr[2] = byte(lang)
	binary.LittleEndian.PutUint64(hdr[3:], uint64(max(maxTokenLen, 0))) //nolint:gosec // clamped to non-negative
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(fileHash[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "units", hexKey[:2], hexKey+".mp")
}

// Put writes payload atomically.
func (c *DiskCache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key. Entries of another schema read as misses.
func (c *DiskCache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion || out.Snapshot == nil {
		return false, nil
	}
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// rebind moves a cached unit onto file id of the current run.
func rebind(l *tokens.List, diags []diag.Diagnostic, id source.FileID) {
	for tok := range l.All() {
		tok.SetFileIndex(uint32(id))
	}
	for i := range diags {
		diags[i].Primary.File = id
		for j := range diags[i].Notes {
			diags[i].Notes[j].Pos.File = id
		}
	}
}
