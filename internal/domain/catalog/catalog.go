// Package catalog holds the problem-statement reference data.
//
// The base catalog is fixed for the lifetime of a competition instance.
// Admin additions land in a separate append-only list so the base stays
// immutable.
package catalog

import (
	"fmt"
	"sync"

	"github.com/hacksprint/arena/internal/domain/model"
)

// Catalog is the problem-statement store passed into the engine at
// construction. Safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	base  []model.ProblemStatement
	extra []model.ProblemStatement
	byID  map[string]model.ProblemStatement
}

// New builds a catalog from the fixed base set. Statements with empty or
// duplicate IDs are rejected.
func New(base []model.ProblemStatement) (*Catalog, error) {
	c := &Catalog{
		base: make([]model.ProblemStatement, 0, len(base)),
		byID: make(map[string]model.ProblemStatement, len(base)),
	}
	for _, p := range base {
		if err := c.index(p); err != nil {
			return nil, err
		}
		c.base = append(c.base, p)
	}
	return c, nil
}

func (c *Catalog) index(p model.ProblemStatement) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidStatement)
	}
	if !p.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidStatement, p.Difficulty)
	}
	if _, ok := c.byID[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	c.byID[p.ID] = p
	return nil
}

// Append adds a statement to the append-only admin list. Re-appending an
// existing ID is a no-op so repeated admin calls stay idempotent.
func (c *Catalog) Append(p model.ProblemStatement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[p.ID]; ok {
		return nil
	}
	if err := c.index(p); err != nil {
		return err
	}
	c.extra = append(c.extra, p)
	return nil
}

// Get returns the statement with the given id.
func (c *Catalog) Get(id string) (model.ProblemStatement, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	if !ok {
		return model.ProblemStatement{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Has reports whether a statement with the given id exists.
func (c *Catalog) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byID[id]
	return ok
}

// List returns the base catalog followed by admin additions.
func (c *Catalog) List() []model.ProblemStatement {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.ProblemStatement, 0, len(c.base)+len(c.extra))
	out = append(out, c.base...)
	out = append(out, c.extra...)
	return out
}

// Len returns the total number of statements.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
