// Package cache stores a parsed Program on disk keyed by the BLAKE2b-256
// hash of its source text, so repeated runs of an unchanged .chore file
// skip lexing and parsing (SPEC_FULL.md §4.H).
package cache

import (
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/chorelang/chore/internal/ast"
)

// Store reads and writes cached programs under a root directory,
// one file per source hash.
type Store struct {
	dir string
}

// Open returns a Store rooted at dir, creating it if necessary.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns ~/.cache/chore, or an error if the user's cache
// directory cannot be determined.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "chore"), nil
}

// Key returns the cache key for the given source text: the hex-encoded
// BLAKE2b-256 digest.
func Key(src []byte) string {
	sum := blake2b.Sum256(src)
	return hex(sum[:])
}

// Load returns the cached Program for key, and false if there is no
// entry or it fails to decode (a corrupt or stale cache entry is
// treated as a miss, never a fatal error).
func (s *Store) Load(key string) (*ast.Program, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var w wireProgram
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, false
	}
	prog, err := fromWireProgram(w)
	if err != nil {
		return nil, false
	}
	return prog, true
}

// Store writes prog under key. A write failure is not fatal to the
// caller; it only means the next run re-parses.
func (s *Store) Store(key string, prog *ast.Program) error {
	data, err := cbor.Marshal(toWireProgram(prog))
	if err != nil {
		return err
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".cbor")
}

const hexDigits = "0123456789abcdef"

func hex(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0f]
	}
	return string(out)
}
