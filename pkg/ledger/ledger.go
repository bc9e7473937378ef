// Package ledger records metadata about installed tool versions in a bbolt
// database. The ledger is informational; the store's anchor files decide
// whether a version is installed.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	"github.com/cperrin88/snm/pkg/versions"
	"go.etcd.io/bbolt"
)

const bucketInstalls = "installs"

// OpenTimeout bounds the wait for another snm process holding the database.
const OpenTimeout = time.Second

// Entry describes one installed version.
type Entry struct {
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
	Variant     string    `json:"variant"`
	URL         string    `json:"url"`
	Checksum    string    `json:"checksum"`
	InstalledAt time.Time `json:"installed_at"`
}

// Ledger is a bbolt-backed store of Entry values, keyed by tool then version.
type Ledger struct {
	db *bbolt.DB
}

// Open opens or creates the ledger at path.
func Open(path string) (*Ledger, error) {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return nil, errors.Wrapf(errors.ErrLedgerOpen, "%s: %v", path, err)
	}
	db, err := bbolt.Open(path, fsutil.FileModeSecure, &bbolt.Options{Timeout: OpenTimeout})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLedgerOpen, "%s: %v", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketInstalls))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(errors.ErrLedgerOpen, "failed to initialize buckets: %v", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Put records e, replacing any entry for the same tool and version.
func (l *Ledger) Put(e Entry) error {
	e.Version = versions.Trim(e.Version)
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "failed to marshal ledger entry")
	}
	return l.db.Update(func(tx *bbolt.Tx) error {
		tools := tx.Bucket([]byte(bucketInstalls))
		b, err := tools.CreateBucketIfNotExists([]byte(e.Tool))
		if err != nil {
			return errors.Wrapf(err, "failed to create bucket for %s", e.Tool)
		}
		return b.Put([]byte(e.Version), data)
	})
}

// Get returns the entry for tool@v. ok is false when none is recorded.
func (l *Ledger) Get(tool, v string) (entry Entry, ok bool, err error) {
	err = l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketInstalls)).Bucket([]byte(tool))
		if b == nil {
			return nil
		}
		data := b.Get([]byte(versions.Trim(v)))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return errors.Wrapf(err, "corrupt ledger entry %s@%s", tool, v)
		}
		ok = true
		return nil
	})
	return entry, ok, err
}

// List returns the entries of tool in ascending version order.
func (l *Ledger) List(tool string) ([]Entry, error) {
	var entries []Entry
	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketInstalls)).Bucket([]byte(tool))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil //nolint:nilerr // skip malformed entries
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// Delete removes the entry for tool@v. Missing entries are ignored.
func (l *Ledger) Delete(tool, v string) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketInstalls)).Bucket([]byte(tool))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(versions.Trim(v)))
	})
}

func sortEntries(entries []Entry) {
	names := make([]string, len(entries))
	byVersion := make(map[string]Entry, len(entries))
	for i, e := range entries {
		names[i] = e.Version
		byVersion[e.Version] = e
	}
	versions.Sort(names)
	for i, n := range names {
		entries[i] = byVersion[n]
	}
}

// File opens the ledger at path for each operation and closes it right
// after, so the database lock is held only while an operation runs. Nested
// snm processes started by a proxied tool can then use the ledger too.
type File struct {
	path string
}

// NewFile returns a File for the database at path. Nothing is opened yet.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) with(fn func(l *Ledger) error) error {
	l, err := Open(f.path)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		_ = l.Close()
		return err
	}
	return l.Close()
}

// Put records e.
func (f *File) Put(e Entry) error {
	return f.with(func(l *Ledger) error { return l.Put(e) })
}

// Get returns the entry for tool@v.
func (f *File) Get(tool, v string) (entry Entry, ok bool, err error) {
	err = f.with(func(l *Ledger) error {
		entry, ok, err = l.Get(tool, v)
		return err
	})
	return entry, ok, err
}

// List returns the entries of tool in ascending version order.
func (f *File) List(tool string) (entries []Entry, err error) {
	err = f.with(func(l *Ledger) error {
		entries, err = l.List(tool)
		return err
	})
	return entries, err
}

// Delete removes the entry for tool@v.
func (f *File) Delete(tool, v string) error {
	return f.with(func(l *Ledger) error { return l.Delete(tool, v) })
}
