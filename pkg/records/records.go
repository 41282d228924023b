// Package records persists business records as flat JSON collections, one
// file per collection. Every mutation rewrites the whole file; there is no
// locking beyond an in-process mutex and no durability guarantee beyond the
// write itself.
package records

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jllopis/boardroom/pkg/errors"
)

// Note is one entry in a record's history.
type Note struct {
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}

// Meta carries the fields every record shares. Embed it in record types and
// hand its address to the collection via the meta accessor.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     []Note    `json:"notes,omitempty"`
}

func newID() string {
	return uuid.NewString()[:8]
}

// Collection is a generic JSON-array store for one record type. The meta
// accessor exposes the embedded Meta so the collection can assign ids and
// timestamps without reflection.
type Collection[T any] struct {
	path string
	meta func(*T) *Meta

	mu sync.Mutex
}

// NewCollection creates a collection backed by path.
func NewCollection[T any](path string, meta func(*T) *Meta) *Collection[T] {
	return &Collection[T]{path: path, meta: meta}
}

func (c *Collection[T]) load() ([]T, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Collection[T]) save(items []T) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o644)
}

func (c *Collection[T]) notFound(id string) error {
	return errors.New(errors.CodeRecordNotFound, "record not found: "+id, nil).
		WithContext("record_id", id).
		WithContext("collection", filepath.Base(c.path))
}

// Create assigns an id and timestamps to the item and appends it.
func (c *Collection[T]) Create(item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		var zero T
		return zero, err
	}
	now := time.Now().UTC()
	meta := c.meta(&item)
	if meta.ID == "" {
		meta.ID = newID()
	}
	meta.CreatedAt = now
	meta.UpdatedAt = now
	items = append(items, item)
	if err := c.save(items); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load()
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if c.meta(&item).ID == id {
			return item, nil
		}
	}
	return zero, c.notFound(id)
}

// List returns all records in insertion order.
func (c *Collection[T]) List() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Filter returns the records matching pred, in insertion order.
func (c *Collection[T]) Filter(pred func(T) bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return nil, err
	}
	var out []T
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Update applies mutate to the record with the given id, refreshes its
// UpdatedAt timestamp, and rewrites the file. The id and CreatedAt survive
// whatever mutate does.
func (c *Collection[T]) Update(id string, mutate func(*T)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load()
	if err != nil {
		return zero, err
	}
	for i := range items {
		meta := c.meta(&items[i])
		if meta.ID != id {
			continue
		}
		created := meta.CreatedAt
		mutate(&items[i])
		meta = c.meta(&items[i])
		meta.ID = id
		meta.CreatedAt = created
		meta.UpdatedAt = time.Now().UTC()
		if err := c.save(items); err != nil {
			return zero, err
		}
		return items[i], nil
	}
	return zero, c.notFound(id)
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	for i := range items {
		if c.meta(&items[i]).ID == id {
			items = append(items[:i], items[i+1:]...)
			return c.save(items)
		}
	}
	return c.notFound(id)
}

// AddNote appends a note to the record's history.
func (c *Collection[T]) AddNote(id, author, content string) (T, error) {
	return c.Update(id, func(item *T) {
		meta := c.meta(item)
		meta.Notes = append(meta.Notes, Note{
			Timestamp: time.Now().UTC(),
			Author:    author,
			Content:   content,
		})
	})
}
