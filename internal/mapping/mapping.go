// Package mapping persists the link between manifest keys and the
// Roblox resources they were last synced to. The lockfile is the single
// source of truth for "what we believe is live remotely": an entry exists
// for a key exactly when a remote resource is believed to exist for it.
package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the default lockfile name.
const DefaultPath = "bloxsync.lock.toml"

// Entry records the last successfully synced state for one manifest key.
// RobloxID is authoritative once set; the remaining fields always reflect
// the most recent successful sync, never a failed attempt.
type Entry struct {
	RobloxID    int64   `toml:"roblox_id"`
	Name        *string `toml:"name,omitempty"`
	Price       *int64  `toml:"price,omitempty"`
	Description *string `toml:"description,omitempty"`
	ImageHash   *string `toml:"image_hash,omitempty"`
	Offsale     *bool   `toml:"offsale,omitempty"`
}

// Store owns the persisted key → entry table. It is read once at process
// start and is the sole writer of the lockfile.
type Store struct {
	entries map[string]*Entry
	path    string
}

// Load reads the lockfile at path. An absent file yields an empty store;
// malformed content is an error and must abort the run before any
// reconciliation happens.
func Load(path string) (*Store, error) {
	s := &Store{
		entries: make(map[string]*Entry),
		path:    path,
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read mapping %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parse mapping %s: %w", path, err)
	}

	return s, nil
}

// Get returns the entry for key, or nil if the key has never synced.
// The returned entry is live: mutations become visible to Save.
func (s *Store) Get(key string) *Entry {
	return s.entries[key]
}

// Put inserts or replaces the entry for key.
func (s *Store) Put(key string, entry *Entry) {
	s.entries[key] = entry
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns all recorded keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the lockfile path this store persists to.
func (s *Store) Path() string {
	return s.path
}

// Save writes the lockfile atomically: the table is written to a
// temporary file in the same directory and renamed over the target, so a
// crash mid-write never leaves a truncated lockfile behind.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, ".bloxsync-lock-*")
	if err != nil {
		return fmt.Errorf("create temp lockfile: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := toml.NewEncoder(tmp).Encode(s.entries); err != nil {
		tmp.Close()
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace lockfile: %w", err)
	}
	return nil
}

// NewEntry builds an entry holding the given remote ID with all
// last-synced fields unset.
func NewEntry(robloxID int64) *Entry {
	return &Entry{RobloxID: robloxID}
}

// StrPtr returns a pointer to s, or nil when s is empty. Optional
// lockfile fields distinguish "never synced" from "synced as empty".
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
