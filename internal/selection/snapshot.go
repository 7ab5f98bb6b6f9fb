package selection

// ItemView is an item with its checkbox state
type ItemView struct {
	Item
	Selected bool
}

// GroupView is a group with its derived checkbox state
type GroupView struct {
	Name          string
	State         TriState
	Items         []ItemView
	SelectedCount int
	SelectedSize  int64
}

// Snapshot is an immutable copy of the engine for rendering
type Snapshot struct {
	All           TriState
	Groups        []GroupView
	SelectedCount int
	SelectedSize  int64
	Total         int
	CanSubmit     bool
}

// Snapshot copies out everything the presentation layer needs
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		All:           e.AllState(),
		SelectedCount: e.SelectedCount(),
		SelectedSize:  e.SelectedTotalSize(),
		Total:         len(e.items),
		CanSubmit:     e.CanSubmit(),
	}
	for _, g := range e.groups {
		gv := GroupView{Name: g, State: e.GroupState(g)}
		for _, it := range e.items {
			if it.Group != g {
				continue
			}
			sel := e.selected[it.ID]
			gv.Items = append(gv.Items, ItemView{Item: it, Selected: sel})
			if sel {
				gv.SelectedCount++
				gv.SelectedSize += it.Size
			}
		}
		snap.Groups = append(snap.Groups, gv)
	}
	return snap
}
