package menu

import (
	"fmt"
	"slices"
)

// Menu represents the menu bar: the ordered top-level items and the state
// shared by every item created under it.
//
// A Menu is not safe for concurrent use. Handler serializes access when the
// menu is served over HTTP.
type Menu struct {
	// items is the ordered list of top-level items.
	items []*Item

	// lastID is the id given to the most recently created item.
	lastID int

	// moreItem hosts the top-level items that do not fit when the bar width is constrained.
	moreItem *Item

	// autoOpen opens top-level menus on hover instead of on click.
	autoOpen bool

	// width is the explicit bar width in pixels, or -1 when undefined.
	width int

	submenuIcon Resource

	// collapse is stored but not rendered.
	collapse bool

	// dirty is set by every mutation and cleared by the render pipeline.
	dirty bool
}

// New returns an empty menu bar with an undefined width.
func New() *Menu {
	m := &Menu{width: -1}
	m.SetCollapse(true)
	m.SetMoreItem(nil)
	return m
}

func (m *Menu) newItem(caption string, icon Resource, cmd Command) *Item {
	m.lastID++
	return newItem(m, m.lastID, caption, icon, cmd)
}

func (m *Menu) requestRepaint() {
	m.dirty = true
}

// Dirty reports whether the menu changed since the dirty flag was last taken.
func (m *Menu) Dirty() bool {
	return m.dirty
}

// TakeDirty returns the dirty flag and clears it.
func (m *Menu) TakeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}

// NewItem creates an item that is not attached anywhere, e.g. for use with
// SetMoreItem. It gets a fresh id like every other item.
func (m *Menu) NewItem(caption string, icon Resource, cmd Command) (*Item, error) {
	if caption == "" {
		return nil, fmt.Errorf("caption cannot be empty: %w", ErrInvalidArgument)
	}
	return m.newItem(caption, icon, cmd), nil
}

// AddItem appends a top-level item. It fails with ErrInvalidArgument when caption is empty.
func (m *Menu) AddItem(caption string, icon Resource, cmd Command) (*Item, error) {
	if caption == "" {
		return nil, fmt.Errorf("caption cannot be empty: %w", ErrInvalidArgument)
	}

	item := m.newItem(caption, icon, cmd)
	m.items = append(m.items, item)
	m.requestRepaint()

	return item, nil
}

// AddItemBefore inserts a top-level item immediately before ref. When ref is
// not a top-level item the new item is appended.
func (m *Menu) AddItemBefore(caption string, icon Resource, cmd Command, ref *Item) (*Item, error) {
	if caption == "" {
		return nil, fmt.Errorf("caption cannot be empty: %w", ErrInvalidArgument)
	}

	item := m.newItem(caption, icon, cmd)
	if i := indexOf(m.items, ref); i >= 0 {
		m.items = slices.Insert(m.items, i, item)
	} else {
		m.items = append(m.items, item)
	}
	m.requestRepaint()

	return item, nil
}

// AddItemAfter inserts a top-level item immediately after ref. When ref is
// not a top-level item the new item is appended.
func (m *Menu) AddItemAfter(caption string, icon Resource, cmd Command, ref *Item) (*Item, error) {
	if caption == "" {
		return nil, fmt.Errorf("caption cannot be empty: %w", ErrInvalidArgument)
	}

	item := m.newItem(caption, icon, cmd)
	m.items = insertAfter(m.items, item, ref)
	m.requestRepaint()

	return item, nil
}

// Items returns the live list of top-level items. Modifying it directly
// bypasses dirty tracking.
func (m *Menu) Items() []*Item {
	return m.items
}

// Size returns the number of top-level items.
func (m *Menu) Size() int {
	return len(m.items)
}

// RemoveItem removes item from the top level. Nil or unknown items are ignored.
func (m *Menu) RemoveItem(item *Item) {
	i := indexOf(m.items, item)
	if i < 0 {
		return
	}
	m.items = slices.Delete(m.items, i, i+1)
	m.requestRepaint()
}

// RemoveItems removes all top-level items.
func (m *Menu) RemoveItems() {
	m.items = nil
	m.requestRepaint()
}

// SetMoreItem sets the item shown when top-level items overflow.
// Nil resets it to a default item with an empty caption.
func (m *Menu) SetMoreItem(item *Item) {
	if item == nil {
		// id 0 is never handed out by the counter, so the default item
		// cannot collide with a real one.
		item = newItem(m, 0, "", "", nil)
	}
	m.moreItem = item
	m.requestRepaint()
}

// MoreItem returns the item shown when top-level items overflow.
func (m *Menu) MoreItem() *Item {
	return m.moreItem
}

// SetAutoOpen toggles opening top-level menus on hover.
func (m *Menu) SetAutoOpen(autoOpen bool) {
	if autoOpen == m.autoOpen {
		return
	}
	m.autoOpen = autoOpen
	m.requestRepaint()
}

// AutoOpen reports whether top-level menus open on hover.
func (m *Menu) AutoOpen() bool {
	return m.autoOpen
}

// SetWidth sets an explicit bar width in pixels. Negative values mean undefined.
// The more item is only rendered when the width is defined.
func (m *Menu) SetWidth(px int) {
	if px < 0 {
		px = -1
	}
	m.width = px
	m.requestRepaint()
}

// Width returns the bar width in pixels, or -1 when undefined.
func (m *Menu) Width() int {
	return m.width
}

// SetSubmenuIcon sets the icon shown next to items that open a submenu.
func (m *Menu) SetSubmenuIcon(icon Resource) {
	m.submenuIcon = icon
	m.requestRepaint()
}

// SubmenuIcon returns the submenu indicator icon, if any.
func (m *Menu) SubmenuIcon() Resource {
	return m.submenuIcon
}

// SetCollapse records whether overflowing items collapse into the more item.
// The value is not rendered.
//
// Deprecated: use SetWidth to control when the more item appears.
func (m *Menu) SetCollapse(collapse bool) {
	m.collapse = collapse
	m.requestRepaint()
}

// Collapse returns the value stored by SetCollapse.
//
// Deprecated: see SetCollapse.
func (m *Menu) Collapse() bool {
	return m.collapse
}

// Find looks up an item anywhere in the tree by id.
func (m *Menu) Find(id int) (*Item, bool) {
	stack := slices.Clone(m.items)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.id == id {
			return item, true
		}
		if item.HasChildren() {
			stack = append(stack, item.children...)
		}
	}

	return nil, false
}
