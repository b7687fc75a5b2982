// Package history persists the sizes of a run so the next one can report
// what changed.
package history

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/gofrs/flock"
	"github.com/jsign/contract-sizes/analysis"
)

// ErrCorrupt marks a snapshot file that exists but can't be used.
var ErrCorrupt = errors.New("corrupt size snapshot")

type Sizes struct {
	CodeSize int `json:"codeSize"`
	InitSize int `json:"initSize"`
}

type ContractSizes struct {
	Sizes
	Sources map[string]Sizes `json:"sources"`
}

// Snapshot holds the sizes of a run by contract name.
type Snapshot map[string]ContractSizes

// NewSnapshot builds the snapshot of a set of records. Records without any
// source are left out. Entries are keyed by contract name only, so contracts
// sharing a name in different source files share one entry: the last record
// in order wins, and every one of them is diffed against it.
func NewSnapshot(records []analysis.SizeRecord) Snapshot {
	snap := make(Snapshot, len(records))
	for _, rec := range records {
		if len(rec.Sources) == 0 {
			continue
		}
		sources := make(map[string]Sizes, len(rec.Sources))
		for _, src := range rec.Sources {
			sources[src.Name] = Sizes{CodeSize: src.CodeSize, InitSize: src.InitSize}
		}
		snap[rec.Name] = ContractSizes{
			Sizes:   Sizes{CodeSize: rec.CodeSize, InitSize: rec.InitSize},
			Sources: sources,
		}
	}
	return snap
}

// Load reads a snapshot. A missing file is an empty snapshot.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", path), ErrCorrupt)
	}
	snap := Snapshot{}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding %s", path), ErrCorrupt)
	}
	return snap, nil
}

// Save replaces the snapshot at path. The file is written next to its
// destination and renamed over it, so a failed write leaves the previous
// snapshot in place.
func Save(path string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	lock := flock.New(path + ".lock")
	if locked, err := lock.TryLock(); err != nil {
		return errors.Wrap(err, "locking snapshot")
	} else if !locked {
		return errors.Newf("snapshot %s is locked by another run", path)
	}
	defer lock.Unlock()

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}
