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

	"github.com/vmihailenco/msgpack/v5"
)

// Schema version for the cached payload; bump when the format changes.
const diskCacheSchemaVersion uint16 = 1

// Digest identifies one (plan content, target version) input.
type Digest [sha256.Size]byte

// HashPlan derives the cache key from the raw plan bytes and the resolved
// target version.
func HashPlan(data []byte, target int) Digest {
	h := sha256.New()
	h.Write(data)
	var tv [8]byte
	binary.LittleEndian.PutUint64(tv[:], uint64(target)) //nolint:gosec // version fits easily
	h.Write(tv[:])
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// DiskCache stores generated translation units keyed by plan digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached result of one codegen run.
type DiskPayload struct {
	Schema uint16

	Module string
	Target int
	Code   string

	BodyNames      []string
	BodyLines      []int
	NeedsException []bool
}

// OpenDiskCache initializes a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "gen", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload, replacing any previous entry
// atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
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
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload back; a missing entry or a schema mismatch is a
// clean miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
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
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "gen"))
}

// PayloadFor converts a result into its cacheable form.
func PayloadFor(res *Result, target int) *DiskPayload {
	payload := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Module: res.Module,
		Target: target,
		Code:   res.Code,
	}
	for _, b := range res.Bodies {
		payload.BodyNames = append(payload.BodyNames, b.Name)
		payload.BodyLines = append(payload.BodyLines, b.Lines)
		payload.NeedsException = append(payload.NeedsException, b.NeedsException)
	}
	return payload
}
