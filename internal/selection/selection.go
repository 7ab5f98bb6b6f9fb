// Package selection implements tri-state hierarchical selection over items
// partitioned into named groups: a select-all toggle, one toggle per group
// and one per item, kept consistent whatever order they are flipped in
package selection

import (
	"github.com/rahulvramesh/shelf/internal/types"
)

// TriState is the visual state of a checkbox that has children
type TriState int

const (
	Unchecked TriState = iota
	Checked
	Indeterminate
)

func (s TriState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	}
	return "unchecked"
}

// Item is one selectable entry
type Item struct {
	ID    string
	Group string
	Size  int64
}

// Engine owns the selected-id set. Group and select-all states are never
// stored; they are derived from the set on every query
type Engine struct {
	items    []Item
	index    map[string]int
	groups   []string
	selected map[string]bool
}

// New builds an engine with every item selected. Duplicate ids keep
// their first occurrence
func New(items []Item) *Engine {
	e := &Engine{
		index:    make(map[string]int, len(items)),
		selected: make(map[string]bool, len(items)),
	}
	seenGroup := make(map[string]bool)
	for _, it := range items {
		if _, dup := e.index[it.ID]; dup {
			continue
		}
		e.index[it.ID] = len(e.items)
		e.items = append(e.items, it)
		e.selected[it.ID] = true
		if !seenGroup[it.Group] {
			seenGroup[it.Group] = true
			e.groups = append(e.groups, it.Group)
		}
	}
	return e
}

// FromCleanup partitions cleanup candidates by reason
func FromCleanup(items []types.CleanupItem) *Engine {
	list := make([]Item, len(items))
	for i, it := range items {
		list[i] = Item{ID: it.ID, Group: string(it.Reason), Size: it.Size}
	}
	return New(list)
}

// Len is the number of listed items
func (e *Engine) Len() int { return len(e.items) }

// Groups returns group names in first-appearance order
func (e *Engine) Groups() []string {
	return append([]string(nil), e.groups...)
}

// Items returns the items of one group in list order
func (e *Engine) Items(group string) []Item {
	var out []Item
	for _, it := range e.items {
		if it.Group == group {
			out = append(out, it)
		}
	}
	return out
}

// IsSelected reports the item checkbox state
func (e *Engine) IsSelected(id string) bool { return e.selected[id] }

// ToggleItem sets one item's membership. Unknown ids are ignored
func (e *Engine) ToggleItem(id string, checked bool) {
	if _, ok := e.index[id]; !ok {
		return
	}
	e.set(id, checked)
}

// ToggleGroup sets membership of every item in group at once
func (e *Engine) ToggleGroup(group string, checked bool) {
	for _, it := range e.items {
		if it.Group == group {
			e.set(it.ID, checked)
		}
	}
}

// ToggleAll sets membership of every item at once
func (e *Engine) ToggleAll(checked bool) {
	for _, it := range e.items {
		e.set(it.ID, checked)
	}
}

func (e *Engine) set(id string, checked bool) {
	if checked {
		e.selected[id] = true
	} else {
		delete(e.selected, id)
	}
}

// GroupState derives a group's checkbox. Unknown groups are unchecked
func (e *Engine) GroupState(group string) TriState {
	var total, sel int
	for _, it := range e.items {
		if it.Group != group {
			continue
		}
		total++
		if e.selected[it.ID] {
			sel++
		}
	}
	if total == 0 {
		return Unchecked
	}
	return triState(sel, total)
}

// AllState derives the select-all checkbox. An empty list is checked
func (e *Engine) AllState() TriState {
	if len(e.items) == 0 {
		return Checked
	}
	return triState(len(e.selected), len(e.items))
}

func triState(sel, total int) TriState {
	switch {
	case sel == total:
		return Checked
	case sel == 0:
		return Unchecked
	}
	return Indeterminate
}

// SelectedIDs returns the selected ids in list order
func (e *Engine) SelectedIDs() []string {
	ids := make([]string, 0, len(e.selected))
	for _, it := range e.items {
		if e.selected[it.ID] {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// SelectedCount is the number of selected items
func (e *Engine) SelectedCount() int { return len(e.selected) }

// SelectedTotalSize sums the sizes of selected items only
func (e *Engine) SelectedTotalSize() int64 {
	var total int64
	for _, it := range e.items {
		if e.selected[it.ID] {
			total += it.Size
		}
	}
	return total
}

// CanSubmit reports whether an action needing a non-empty selection may run
func (e *Engine) CanSubmit() bool { return len(e.selected) > 0 }

// Retain drops every item keep rejects, together with its selection
func (e *Engine) Retain(keep func(id string) bool) {
	items := e.items[:0]
	for _, it := range e.items {
		if keep(it.ID) {
			items = append(items, it)
		} else {
			delete(e.selected, it.ID)
		}
	}
	e.items = items

	e.index = make(map[string]int, len(items))
	present := make(map[string]bool)
	for i, it := range items {
		e.index[it.ID] = i
		present[it.Group] = true
	}
	groups := e.groups[:0]
	for _, g := range e.groups {
		if present[g] {
			groups = append(groups, g)
		}
	}
	e.groups = groups
}

// Remove drops the given ids from the list and the selection
func (e *Engine) Remove(ids ...string) {
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	e.Retain(func(id string) bool { return !gone[id] })
}
