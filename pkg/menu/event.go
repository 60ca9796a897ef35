package menu

import (
	"encoding/json"
	"math"
	"strconv"
)

// ClickedIDKey is the event variable holding the id of the clicked item.
const ClickedIDKey = "clickedId"

// EventResult describes what HandleEvent did with an event.
type EventResult int

const (
	// EventIgnored means the event carried no usable clicked id.
	EventIgnored EventResult = iota
	// EventNotFound means no item has the clicked id, e.g. it was removed
	// after the client rendered it.
	EventNotFound
	// EventDisabled means the item was found but is disabled.
	EventDisabled
	// EventSelected means the item was selected: toggled if checkable and
	// its command, if any, invoked.
	EventSelected
)

// String returns the label used for metrics and logs.
func (r EventResult) String() string {
	switch r {
	case EventNotFound:
		return "not_found"
	case EventDisabled:
		return "disabled"
	case EventSelected:
		return "selected"
	default:
		return "ignored"
	}
}

// HandleEvent applies a client event to the menu. Only the clickedId
// variable is inspected. Unknown ids are tolerated silently.
//
// The bound command runs synchronously before HandleEvent returns.
func (m *Menu) HandleEvent(vars map[string]any) EventResult {
	id, ok := clickedID(vars)
	if !ok {
		return EventIgnored
	}
	return m.Click(id)
}

// Click selects the item with the given id as if the client clicked it.
func (m *Menu) Click(id int) EventResult {
	item, ok := m.Find(id)
	if !ok {
		return EventNotFound
	}
	if !item.enabled {
		return EventDisabled
	}

	if item.checkable {
		item.SetChecked(!item.checked)
	}
	if item.command != nil {
		item.command.MenuSelected(item)
	}

	return EventSelected
}

func clickedID(vars map[string]any) (int, bool) {
	v, ok := vars[ClickedIDKey]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return floatID(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatID(f)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// floatID accepts integral values within the int range.
func floatID(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}
