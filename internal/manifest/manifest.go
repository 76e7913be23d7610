// Package manifest writes the public-API manifest of a lowered unit: the
// ordered public names of one package with a content digest, msgpack-encoded.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"declower/internal/lower"
)

// Current schema version - increment when Manifest format changes
const SchemaVersion uint16 = 1

var (
	ErrSchemaMismatch = errors.New("manifest schema mismatch")
	ErrDigestMismatch = errors.New("manifest digest mismatch")
)

// Digest is a SHA-256 over the package path and public names.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Manifest describes the public surface of one unit.
type Manifest struct {
	Schema  uint16
	Package string
	Public  []string

	// Counts for quick inspection; not covered by the digest.
	Members uint32
	Actions uint32

	Digest Digest
}

// FromUnit builds the manifest of u.
func FromUnit(u *lower.FileUnit) (*Manifest, error) {
	members, err := safecast.Conv[uint32](u.Members.Len())
	if err != nil {
		return nil, fmt.Errorf("member count: %w", err)
	}
	actions, err := safecast.Conv[uint32](len(u.Actions))
	if err != nil {
		return nil, fmt.Errorf("action count: %w", err)
	}
	public := u.Public.Names()
	if public == nil {
		public = []string{}
	}
	return &Manifest{
		Schema:  SchemaVersion,
		Package: u.Path,
		Public:  public,
		Members: members,
		Actions: actions,
		Digest:  ComputeDigest(u.Path, public),
	}, nil
}

// ComputeDigest hashes pkg and names; order of names matters.
func ComputeDigest(pkg string, names []string) Digest {
	h := sha256.New()
	h.Write([]byte(pkg))
	for _, n := range names {
		h.Write([]byte{0})
		h.Write([]byte(n))
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Encode writes m to w.
func Encode(w io.Writer, m *Manifest) error {
	return msgpack.NewEncoder(w).Encode(m)
}

// Decode reads a manifest and checks its schema and digest.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	if m.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, m.Schema, SchemaVersion)
	}
	if ComputeDigest(m.Package, m.Public) != m.Digest {
		return nil, fmt.Errorf("%w: package %q", ErrDigestMismatch, m.Package)
	}
	return &m, nil
}

// Write stores m at path, replacing any existing file atomically.
func Write(path string, m *Manifest) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := Encode(f, m); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// Read loads the manifest at path.
func Read(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
