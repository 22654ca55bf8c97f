package load

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/evolve/change"
)

// SnapshotVersion is the format version written into every snapshot.
const SnapshotVersion = 1

// Snapshot is the persisted model after a migration.
type Snapshot struct {
	Version   int       `msgpack:"version"`
	Migration string    `msgpack:"migration"`
	Created   time.Time `msgpack:"created"`
	Classes   []Class   `msgpack:"classes"`
}

// NewSnapshot returns the snapshot of m taken after the migration with
// the given id.
func NewSnapshot(migration string, m *change.Model) *Snapshot {
	s := &Snapshot{
		Version:   SnapshotVersion,
		Migration: migration,
		Created:   time.Now().UTC(),
	}
	for _, c := range m.Classes() {
		s.Classes = append(s.Classes, NewClass(c))
	}
	return s
}

// Model returns the model held by s.
func (s *Snapshot) Model() (*change.Model, error) {
	classes, err := Classes(s.Classes)
	if err != nil {
		return nil, err
	}
	return change.NewModel(classes...), nil
}

// MarshalSnapshot encodes s.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("load: encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot decodes a snapshot written by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := msgpack.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("load: decode snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("load: unsupported snapshot version %d", s.Version)
	}
	return s, nil
}

// WriteSnapshot writes s to path, creating the parent directory.
func WriteSnapshot(path string, s *Snapshot) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot reads the snapshot at path.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return UnmarshalSnapshot(data)
}
