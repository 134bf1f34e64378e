// Package collision detects repeated field names while merging clusters.
package collision

import (
	"fmt"

	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/internal/hash"
)

type entry struct {
	name  string
	owner string
}

// Tracker records the field names merged into one result, together with the
// segment that contributed each of them.
//
// Names are indexed by their xxHash64 digest. Two different names sharing a
// digest are kept apart and only set the HasCollision flag.
type Tracker struct {
	byHash       map[uint64][]entry
	names        []string
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash: make(map[uint64][]entry),
		names:  make([]string, 0),
	}
}

// Track records name as contributed by owner.
//
// It fails with errs.ErrInvalidFieldName for an empty name and with
// errs.ErrDuplicateFieldName when the name was already tracked; the error
// names both owners.
func (t *Tracker) Track(name, owner string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name from %q", errs.ErrInvalidFieldName, owner)
	}

	id := hash.ID(name)
	for _, e := range t.byHash[id] {
		if e.name == name {
			return fmt.Errorf("%w: %q from %q already set by %q", errs.ErrDuplicateFieldName, name, owner, e.owner)
		}
	}

	if len(t.byHash[id]) > 0 {
		t.hasCollision = true
	}

	t.byHash[id] = append(t.byHash[id], entry{name: name, owner: owner})
	t.names = append(t.names, name)

	return nil
}

// Owner returns the owner that contributed name.
func (t *Tracker) Owner(name string) (string, bool) {
	for _, e := range t.byHash[hash.ID(name)] {
		if e.name == name {
			return e.owner, true
		}
	}

	return "", false
}

// HasCollision reports whether two distinct names shared a digest.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in the order Track accepted them.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears all tracked names and the collision flag.
func (t *Tracker) Reset() {
	clear(t.byHash)
	t.names = t.names[:0]
	t.hasCollision = false
}
