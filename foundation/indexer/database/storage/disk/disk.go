// Package disk implements the ability to read and write period records as
// individual files on disk.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/period"
)

// checkpointFile holds the last processed chain position. It lives next to
// the period files so a reset wipes both together.
const checkpointFile = "checkpoint.json"

// Disk represents the serialization implementation for reading and storing
// period records in their own separate files on disk. This implements the
// database.Serializer interface.
type Disk struct {
	dbPath string
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a file is written
// for each record update and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified record and stores it on disk in a file labeled
// with the period id. Updates overwrite the previous contents.
func (d *Disk) Write(rec period.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(d.getPath(rec.ID), os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// GetPeriod reads the record for the specified period id off disk.
func (d *Disk) GetPeriod(id period.ID) (period.Record, error) {
	f, err := os.OpenFile(d.getPath(id), os.O_RDONLY, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return period.Record{}, period.ErrNotFound
		}
		return period.Record{}, err
	}
	defer f.Close()

	var rec period.Record
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		return period.Record{}, err
	}

	return rec, nil
}

// ForEach returns an iterator to walk through all the records on disk in
// period id order.
func (d *Disk) ForEach() database.Iterator {
	return &diskIterator{disk: d, ids: d.listIDs()}
}

// WriteCheckpoint stores the ingest checkpoint on disk.
func (d *Disk) WriteCheckpoint(ckpt database.Checkpoint) error {
	data, err := json.MarshalIndent(ckpt, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path.Join(d.dbPath, checkpointFile), data, 0600)
}

// ReadCheckpoint reads the ingest checkpoint off disk. A missing file means
// indexing starts from the genesis start block.
func (d *Disk) ReadCheckpoint() (database.Checkpoint, error) {
	data, err := os.ReadFile(path.Join(d.dbPath, checkpointFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.Checkpoint{}, nil
		}
		return database.Checkpoint{}, err
	}

	var ckpt database.Checkpoint
	if err := json.Unmarshal(data, &ckpt); err != nil {
		return database.Checkpoint{}, err
	}

	return ckpt, nil
}

// Reset will clear out all records and the checkpoint on disk.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}

	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the file for the specified period.
func (d *Disk) getPath(id period.ID) string {
	name := strconv.FormatUint(uint64(id), 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// listIDs reads the period ids present on disk in ascending order.
func (d *Disk) listIDs() []period.ID {
	entries, err := os.ReadDir(d.dbPath)
	if err != nil {
		return nil
	}

	var ids []period.ID
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		id, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, period.ID(id))
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// =============================================================================

// diskIterator represents the iteration implementation for walking through
// and reading records on disk. This implements the database Iterator
// interface.
type diskIterator struct {
	disk    *Disk       // Access to the disk storage API.
	ids     []period.ID // Period ids present when iteration started.
	current int         // Index of the next id to read.
	eoc     bool        // Represents the iterator is at the end.
}

// Next retrieves the next record from disk.
func (di *diskIterator) Next() (period.Record, error) {
	if di.current >= len(di.ids) {
		di.eoc = true
		return period.Record{}, errors.New("end of records")
	}

	rec, err := di.disk.GetPeriod(di.ids[di.current])
	di.current++

	return rec, err
}

// Done returns the end of records value.
func (di *diskIterator) Done() bool {
	return di.eoc
}
