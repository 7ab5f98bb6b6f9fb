package selection

import (
	"reflect"
	"testing"

	"github.com/rahulvramesh/shelf/internal/types"
)

func scenarioItems() []Item {
	return []Item{
		{ID: "e1", Group: "empty_file", Size: 0},
		{ID: "e2", Group: "empty_file", Size: 0},
		{ID: "s1", Group: "stale", Size: 120},
	}
}

func TestNewSelectsEverything(t *testing.T) {
	e := New(scenarioItems())
	if e.SelectedCount() != 3 {
		t.Errorf("SelectedCount = %d, want 3", e.SelectedCount())
	}
	if e.AllState() != Checked {
		t.Errorf("AllState = %v, want checked", e.AllState())
	}
	for _, g := range e.Groups() {
		if e.GroupState(g) != Checked {
			t.Errorf("group %s = %v, want checked", g, e.GroupState(g))
		}
	}
}

func TestScenarioUncheckEmptyFileItems(t *testing.T) {
	e := New(scenarioItems())

	e.ToggleItem("e1", false)
	if got := e.GroupState("empty_file"); got != Indeterminate {
		t.Errorf("empty_file after one uncheck = %v, want indeterminate", got)
	}
	if got := e.AllState(); got != Indeterminate {
		t.Errorf("all after one uncheck = %v, want indeterminate", got)
	}

	e.ToggleItem("e2", false)
	if got := e.GroupState("empty_file"); got != Unchecked {
		t.Errorf("empty_file after both unchecked = %v, want unchecked", got)
	}
	if got := e.GroupState("stale"); got != Checked {
		t.Errorf("stale = %v, want checked", got)
	}
	if !e.IsSelected("s1") {
		t.Error("s1 should remain selected")
	}
	if got := e.AllState(); got != Indeterminate {
		t.Errorf("all = %v, want indeterminate", got)
	}
}

func TestToggleGroup(t *testing.T) {
	e := New(scenarioItems())
	e.ToggleGroup("empty_file", false)
	if !reflect.DeepEqual(e.SelectedIDs(), []string{"s1"}) {
		t.Errorf("SelectedIDs = %v", e.SelectedIDs())
	}
	e.ToggleGroup("empty_file", true)
	if e.SelectedCount() != 3 {
		t.Errorf("SelectedCount = %d, want 3", e.SelectedCount())
	}
}

func TestToggleGroupUnknownIsNoop(t *testing.T) {
	e := New(scenarioItems())
	e.ToggleGroup("nope", false)
	e.ToggleItem("nope", true)
	if e.SelectedCount() != 3 {
		t.Errorf("SelectedCount = %d, want 3", e.SelectedCount())
	}
	if e.GroupState("nope") != Unchecked {
		t.Error("unknown group should be unchecked")
	}
	if reflect.DeepEqual(e.SelectedIDs(), []string{"nope"}) {
		t.Error("unknown id leaked into selection")
	}
}

func TestToggleAllTwiceRestores(t *testing.T) {
	e := New(scenarioItems())
	before := e.SelectedIDs()
	e.ToggleAll(false)
	if e.AllState() != Unchecked || e.SelectedCount() != 0 {
		t.Fatalf("after clearing: state %v count %d", e.AllState(), e.SelectedCount())
	}
	e.ToggleAll(true)
	if !reflect.DeepEqual(e.SelectedIDs(), before) {
		t.Errorf("SelectedIDs = %v, want %v", e.SelectedIDs(), before)
	}
}

func TestSelectAllFromIndeterminateReachesTarget(t *testing.T) {
	e := New(scenarioItems())
	e.ToggleItem("e1", false)
	e.ToggleAll(true)
	if e.SelectedCount() != 3 {
		t.Errorf("select-all left items out: %v", e.SelectedIDs())
	}
	e.ToggleItem("s1", false)
	e.ToggleAll(false)
	if e.SelectedCount() != 0 {
		t.Errorf("clear-all left items in: %v", e.SelectedIDs())
	}
}

// Every order of individual checks must end in the same derived states as
// the equivalent bulk toggles
func TestPermutationsMatchBulkToggles(t *testing.T) {
	ids := []string{"e1", "e2", "s1"}
	for _, perm := range permutations(ids) {
		individual := New(scenarioItems())
		individual.ToggleAll(false)
		for i, id := range perm {
			individual.ToggleItem(id, true)
			if i < len(perm)-1 && individual.AllState() != Indeterminate {
				t.Errorf("perm %v step %d: all = %v, want indeterminate", perm, i, individual.AllState())
			}
		}

		viaAll := New(scenarioItems())
		viaAll.ToggleAll(false)
		viaAll.ToggleAll(true)

		viaGroups := New(scenarioItems())
		viaGroups.ToggleAll(false)
		viaGroups.ToggleGroup("stale", true)
		viaGroups.ToggleGroup("empty_file", true)

		for _, other := range []*Engine{viaAll, viaGroups} {
			if individual.AllState() != other.AllState() {
				t.Errorf("perm %v: all %v vs %v", perm, individual.AllState(), other.AllState())
			}
			for _, g := range individual.Groups() {
				if individual.GroupState(g) != other.GroupState(g) {
					t.Errorf("perm %v: group %s %v vs %v", perm, g, individual.GroupState(g), other.GroupState(g))
				}
			}
			if !reflect.DeepEqual(individual.SelectedIDs(), other.SelectedIDs()) {
				t.Errorf("perm %v: ids %v vs %v", perm, individual.SelectedIDs(), other.SelectedIDs())
			}
		}
	}
}

func permutations(in []string) [][]string {
	if len(in) <= 1 {
		return [][]string{append([]string(nil), in...)}
	}
	var out [][]string
	for i := range in {
		rest := make([]string, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{in[i]}, p...))
		}
	}
	return out
}

func TestEmptyListIsVacuouslyChecked(t *testing.T) {
	e := New(nil)
	if e.AllState() != Checked {
		t.Errorf("AllState = %v, want checked", e.AllState())
	}
	if e.CanSubmit() {
		t.Error("CanSubmit must be false for an empty list")
	}
	if snap := e.Snapshot(); snap.CanSubmit || snap.Total != 0 || snap.All != Checked {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSelectedTotalSizeCountsSelectedOnly(t *testing.T) {
	e := New([]Item{
		{ID: "a", Group: "g", Size: 10},
		{ID: "b", Group: "g", Size: 5},
		{ID: "c", Group: "h", Size: 100},
	})
	if got := e.SelectedTotalSize(); got != 115 {
		t.Errorf("SelectedTotalSize = %d, want 115", got)
	}
	e.ToggleItem("c", false)
	if got := e.SelectedTotalSize(); got != 15 {
		t.Errorf("SelectedTotalSize = %d, want 15", got)
	}
}

func TestRemovePrunesSelectionAndGroups(t *testing.T) {
	e := New(scenarioItems())
	e.Remove("s1")
	if e.Len() != 2 {
		t.Errorf("Len = %d, want 2", e.Len())
	}
	if e.IsSelected("s1") {
		t.Error("removed item still selected")
	}
	if !reflect.DeepEqual(e.Groups(), []string{"empty_file"}) {
		t.Errorf("Groups = %v", e.Groups())
	}
	e.ToggleItem("s1", true)
	if e.SelectedCount() != 2 {
		t.Errorf("toggling a removed id changed selection: %v", e.SelectedIDs())
	}
}

func TestRetainKeepsSelectionWithinItems(t *testing.T) {
	e := New(scenarioItems())
	e.ToggleItem("e2", false)
	e.Retain(func(id string) bool { return id != "e1" })
	if !reflect.DeepEqual(e.SelectedIDs(), []string{"s1"}) {
		t.Errorf("SelectedIDs = %v", e.SelectedIDs())
	}
	if e.GroupState("empty_file") != Unchecked {
		t.Errorf("empty_file = %v, want unchecked", e.GroupState("empty_file"))
	}
}

func TestDuplicateIDsKeepFirst(t *testing.T) {
	e := New([]Item{{ID: "a", Group: "g"}, {ID: "a", Group: "h"}})
	if e.Len() != 1 || !reflect.DeepEqual(e.Groups(), []string{"g"}) {
		t.Errorf("Len %d groups %v", e.Len(), e.Groups())
	}
}

func TestFromCleanupGroupsByReason(t *testing.T) {
	items := []types.CleanupItem{
		{FileRecord: types.FileRecord{ID: "1", Size: 3}, Reason: types.ReasonStale},
		{FileRecord: types.FileRecord{ID: "2"}, Reason: types.ReasonEmptyFile},
		{FileRecord: types.FileRecord{ID: "3", Size: 4}, Reason: types.ReasonStale},
	}
	e := FromCleanup(items)
	if !reflect.DeepEqual(e.Groups(), []string{"stale", "empty_file"}) {
		t.Errorf("Groups = %v", e.Groups())
	}
	if len(e.Items("stale")) != 2 {
		t.Errorf("stale items = %d", len(e.Items("stale")))
	}
	if e.SelectedTotalSize() != 7 {
		t.Errorf("SelectedTotalSize = %d", e.SelectedTotalSize())
	}
}

func TestSnapshot(t *testing.T) {
	e := New(scenarioItems())
	e.ToggleItem("e1", false)
	snap := e.Snapshot()

	if snap.All != Indeterminate || snap.SelectedCount != 2 || snap.Total != 3 || !snap.CanSubmit {
		t.Errorf("snapshot header = %+v", snap)
	}
	if len(snap.Groups) != 2 {
		t.Fatalf("groups = %d", len(snap.Groups))
	}
	g := snap.Groups[0]
	if g.Name != "empty_file" || g.State != Indeterminate || g.SelectedCount != 1 {
		t.Errorf("group = %+v", g)
	}
	if g.Items[0].Selected || !g.Items[1].Selected {
		t.Errorf("items = %+v", g.Items)
	}

	e.ToggleAll(false)
	if snap.Groups[0].Items[1].Selected != true {
		t.Error("snapshot changed after engine mutation")
	}
}

func TestTriStateString(t *testing.T) {
	if Checked.String() != "checked" || Unchecked.String() != "unchecked" || Indeterminate.String() != "indeterminate" {
		t.Error("unexpected TriState names")
	}
}
