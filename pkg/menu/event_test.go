package menu

import (
	"encoding/json"
	"math"
	"testing"
)

func TestHandleEventInvokesCommand(t *testing.T) {
	m := New()
	a := mustAdd(t, m, "A")

	var (
		count    int
		selected *Item
	)
	b, err := a.AddItem("B", "", CommandFunc(func(it *Item) {
		count++
		selected = it
	}))
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if a.ID() != 1 || b.ID() != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", a.ID(), b.ID())
	}

	if got := m.HandleEvent(map[string]any{"clickedId": 2}); got != EventSelected {
		t.Errorf("HandleEvent() = %v, want %v", got, EventSelected)
	}
	if count != 1 {
		t.Errorf("command count = %d, want 1", count)
	}
	if selected != b {
		t.Error("command not called with the clicked item")
	}
	if b.IsChecked() {
		t.Error("non-checkable item became checked")
	}
}

func TestHandleEventTogglesCheckable(t *testing.T) {
	m := New()
	item := mustAdd(t, m, "Grid")
	if err := item.SetCheckable(true); err != nil {
		t.Fatalf("SetCheckable() error: %v", err)
	}

	var seen []bool
	item.SetCommand(CommandFunc(func(it *Item) { seen = append(seen, it.IsChecked()) }))

	m.TakeDirty()
	m.Click(item.ID())
	if !item.IsChecked() {
		t.Error("first click did not check item")
	}
	if !m.Dirty() {
		t.Error("toggle did not mark dirty")
	}

	m.Click(item.ID())
	if item.IsChecked() {
		t.Error("second click did not uncheck item")
	}

	// the command observes the state after the toggle
	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Errorf("command saw %v, want [true false]", seen)
	}
}

func TestHandleEventDisabled(t *testing.T) {
	m := New()
	called := false
	item, _ := m.AddItem("Undo", "", CommandFunc(func(*Item) { called = true }))
	_ = item.SetCheckable(true)
	item.SetEnabled(false)

	if got := m.Click(item.ID()); got != EventDisabled {
		t.Errorf("Click() = %v, want %v", got, EventDisabled)
	}
	if called {
		t.Error("command of disabled item invoked")
	}
	if item.IsChecked() {
		t.Error("disabled item toggled")
	}
}

func TestHandleEventStaleID(t *testing.T) {
	m := New()
	called := false
	item, _ := m.AddItem("Gone", "", CommandFunc(func(*Item) { called = true }))
	m.RemoveItem(item)

	if got := m.HandleEvent(map[string]any{"clickedId": item.ID()}); got != EventNotFound {
		t.Errorf("HandleEvent() = %v, want %v", got, EventNotFound)
	}
	if called {
		t.Error("command of removed item invoked")
	}
}

func TestHandleEventFindsInvisibleAndDeep(t *testing.T) {
	m := New()
	a := mustAdd(t, m, "A")
	b, _ := a.AddItem("B", "", nil)
	c, _ := b.AddItem("C", "", nil)
	mustAdd(t, m, "D")
	a.SetVisible(false)

	count := 0
	c.SetCommand(CommandFunc(func(*Item) { count++ }))

	if got := m.Click(c.ID()); got != EventSelected {
		t.Errorf("Click() = %v, want %v", got, EventSelected)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestHandleEventCommandMayMutate(t *testing.T) {
	m := New()
	item, _ := m.AddItem("Add", "", nil)
	item.SetCommand(CommandFunc(func(it *Item) {
		if _, err := m.AddItemAfter("Added", "", nil, it); err != nil {
			t.Errorf("AddItemAfter() error: %v", err)
		}
	}))

	m.Click(item.ID())
	if got, want := captions(m.Items()), []string{"Add", "Added"}; !equalStrings(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
}

func TestClickedIDTypes(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]any
		want EventResult
	}{
		{"int", map[string]any{"clickedId": 1}, EventSelected},
		{"int64", map[string]any{"clickedId": int64(1)}, EventSelected},
		{"float64", map[string]any{"clickedId": float64(1)}, EventSelected},
		{"json number", map[string]any{"clickedId": json.Number("1")}, EventSelected},
		{"string", map[string]any{"clickedId": "1"}, EventSelected},
		{"json number float", map[string]any{"clickedId": json.Number("1.0")}, EventSelected},
		{"json number exponent", map[string]any{"clickedId": json.Number("1e0")}, EventSelected},
		{"json number fraction", map[string]any{"clickedId": json.Number("1.5")}, EventIgnored},
		{"json number overflow", map[string]any{"clickedId": json.Number("1e30")}, EventIgnored},
		{"fraction", map[string]any{"clickedId": 1.5}, EventIgnored},
		{"float overflow", map[string]any{"clickedId": 1e30}, EventIgnored},
		{"float negative overflow", map[string]any{"clickedId": -1e30}, EventIgnored},
		{"infinity", map[string]any{"clickedId": math.Inf(1)}, EventIgnored},
		{"nan", map[string]any{"clickedId": math.NaN()}, EventIgnored},
		{"bad string", map[string]any{"clickedId": "one"}, EventIgnored},
		{"bool", map[string]any{"clickedId": true}, EventIgnored},
		{"missing", map[string]any{"other": 1}, EventIgnored},
		{"nil map", nil, EventIgnored},
		{"extra keys", map[string]any{"clickedId": 1, "alt": true}, EventSelected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			mustAdd(t, m, "A")
			if got := m.HandleEvent(tt.vars); got != tt.want {
				t.Errorf("HandleEvent(%v) = %v, want %v", tt.vars, got, tt.want)
			}
		})
	}
}

func TestEventResultString(t *testing.T) {
	for r, want := range map[EventResult]string{
		EventIgnored:  "ignored",
		EventNotFound: "not_found",
		EventDisabled: "disabled",
		EventSelected: "selected",
	} {
		if got := r.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(r), got, want)
		}
	}
}
