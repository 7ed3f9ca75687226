package store

import (
	"slices"
	"strings"

	"github.com/ba0f3/leafstat/internal/percentile"
)

// ChangeKind classifies how an offender moved between two snapshots.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeMoved   ChangeKind = "moved"
)

// Change is one offender that differs between two snapshots. Old or New is
// -1 when the name is absent on that side.
type Change struct {
	Name string
	Kind ChangeKind
	Old  int
	New  int
}

// Diff lists offenders added, removed or re-ranked from old to cur, sorted by name.
func Diff(old, cur *Snapshot) []Change {
	before := make(map[string]percentile.Entry, len(old.Entries))
	for _, e := range old.Entries {
		before[e.Name] = e
	}
	var changes []Change
	for _, e := range cur.Entries {
		prev, ok := before[e.Name]
		switch {
		case !ok:
			changes = append(changes, Change{Name: e.Name, Kind: ChangeAdded, Old: -1, New: e.Offset})
		case prev.Offset != e.Offset:
			changes = append(changes, Change{Name: e.Name, Kind: ChangeMoved, Old: prev.Offset, New: e.Offset})
		}
		delete(before, e.Name)
	}
	for name, e := range before {
		changes = append(changes, Change{Name: name, Kind: ChangeRemoved, Old: e.Offset, New: -1})
	}
	slices.SortFunc(changes, func(a, b Change) int {
		return strings.Compare(a.Name, b.Name)
	})
	return changes
}
