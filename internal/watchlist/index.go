package watchlist

import (
	"slices"
	"sync"
)

// Index is the in-memory reference set. Reads take a snapshot; refreshes
// replace the whole set at once.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
	files   []DataFile
}

// NewIndex builds an index over entries and their file catalog.
func NewIndex(entries []Entry, files []DataFile) *Index {
	idx := &Index{}
	idx.Replace(entries, files)
	return idx
}

// Entries returns the current entries. The slice is shared and must not be
// modified; Replace never mutates a slice it has handed out.
func (i *Index) Entries() []Entry {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.entries
}

// DataFiles returns a copy of the file catalog.
func (i *Index) DataFiles() []DataFile {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.files)
}

// Len reports the number of entries.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// Replace swaps in a new reference set. A nil files argument keeps the
// current catalog.
func (i *Index) Replace(entries []Entry, files []DataFile) {
	cloned := make([]Entry, len(entries))
	for n, e := range entries {
		e.Aliases = slices.Clone(e.Aliases)
		cloned[n] = e
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = cloned
	if files != nil {
		i.files = slices.Clone(files)
	}
}
