package menu

import (
	"fmt"
	"slices"
)

// Resource is an opaque reference to an icon asset. It is forwarded to the
// client verbatim. The empty value means no icon.
type Resource string

// Item represents an individual item in the menu, which may contain sub-items.
// Items are created through Menu.AddItem or Item.AddItem and belong to exactly one Menu.
type Item struct {
	// menu owns the id counter and the dirty flag.
	menu *Menu

	// id is unique within the owning menu and never reused.
	id int

	text    string
	icon    Resource
	command Command

	// children is nil when the item has no submenu. It is never left empty.
	children []*Item

	// parent is set once when the item is attached under another item.
	// Top-level items have no parent.
	parent *Item

	enabled     bool
	visible     bool
	separator   bool
	styleName   string
	description string
	checkable   bool
	checked     bool
}

func newItem(m *Menu, id int, caption string, icon Resource, cmd Command) *Item {
	return &Item{
		menu:    m,
		id:      id,
		text:    caption,
		icon:    icon,
		command: cmd,
		enabled: true,
		visible: true,
	}
}

// ID returns the identity used to correlate the item with client events.
func (it *Item) ID() int { return it.id }

// Text returns the caption.
func (it *Item) Text() string { return it.text }

// Icon returns the icon reference, if any.
func (it *Item) Icon() Resource { return it.icon }

// Command returns the bound command, or nil.
func (it *Item) Command() Command { return it.command }

// Parent returns the item this one is nested under, or nil for top-level items.
func (it *Item) Parent() *Item { return it.parent }

// Children returns the live child list, or nil when the item has no submenu.
func (it *Item) Children() []*Item { return it.children }

// HasChildren reports whether the item hosts a submenu. Separators never do.
func (it *Item) HasChildren() bool {
	return !it.separator && it.children != nil
}

// Size returns the number of direct children, or -1 when the item has no submenu.
func (it *Item) Size() int {
	if it.children == nil {
		return -1
	}
	return len(it.children)
}

// IsEnabled reports whether the item reacts to clicks.
func (it *Item) IsEnabled() bool { return it.enabled }

// IsVisible reports whether the item is rendered.
func (it *Item) IsVisible() bool { return it.visible }

// IsSeparator reports whether the item is a separator line.
func (it *Item) IsSeparator() bool { return it.separator }

// StyleName returns the client style name, or "" when unset.
func (it *Item) StyleName() string { return it.styleName }

// Description returns the tooltip text, or "" when unset.
func (it *Item) Description() string { return it.description }

// IsCheckable reports whether a click toggles the checked state.
func (it *Item) IsCheckable() bool { return it.checkable }

// IsChecked reports the checked state.
func (it *Item) IsChecked() bool { return it.checked }

// AddItem appends a child item and returns it.
// It fails with ErrIllegalState when the item is a separator or checkable,
// and with ErrInvalidArgument when caption is empty.
func (it *Item) AddItem(caption string, icon Resource, cmd Command) (*Item, error) {
	if err := it.canHost(caption); err != nil {
		return nil, err
	}

	child := it.attach(caption, icon, cmd)
	it.children = append(it.children, child)
	it.menu.requestRepaint()

	return child, nil
}

// AddItemBefore inserts a child item immediately before ref. When ref is not
// a child of this item the new item is appended.
func (it *Item) AddItemBefore(caption string, icon Resource, cmd Command, ref *Item) (*Item, error) {
	if err := it.canHost(caption); err != nil {
		return nil, err
	}

	child := it.attach(caption, icon, cmd)
	if i := indexOf(it.children, ref); i >= 0 {
		it.children = slices.Insert(it.children, i, child)
	} else {
		it.children = append(it.children, child)
	}
	it.menu.requestRepaint()

	return child, nil
}

// AddItemAfter inserts a child item immediately after ref. When ref is not
// a child of this item the new item is appended.
func (it *Item) AddItemAfter(caption string, icon Resource, cmd Command, ref *Item) (*Item, error) {
	if err := it.canHost(caption); err != nil {
		return nil, err
	}

	child := it.attach(caption, icon, cmd)
	it.children = insertAfter(it.children, child, ref)
	it.menu.requestRepaint()

	return child, nil
}

// AddSeparator appends a separator child.
func (it *Item) AddSeparator() (*Item, error) {
	if err := it.canHostChildren(); err != nil {
		return nil, err
	}

	sep := it.attach("", "", nil)
	sep.separator = true
	it.children = append(it.children, sep)
	it.menu.requestRepaint()

	return sep, nil
}

// AddSeparatorBefore inserts a separator child before ref, or appends it when
// ref is not a child of this item.
func (it *Item) AddSeparatorBefore(ref *Item) (*Item, error) {
	if err := it.canHostChildren(); err != nil {
		return nil, err
	}

	sep := it.attach("", "", nil)
	sep.separator = true
	if i := indexOf(it.children, ref); i >= 0 {
		it.children = slices.Insert(it.children, i, sep)
	} else {
		it.children = append(it.children, sep)
	}
	it.menu.requestRepaint()

	return sep, nil
}

// RemoveChild removes the first occurrence of child. When the last child is
// removed the item no longer has a submenu.
func (it *Item) RemoveChild(child *Item) {
	if child == nil || it.children == nil {
		return
	}

	i := indexOf(it.children, child)
	if i < 0 {
		return
	}

	it.children = slices.Delete(it.children, i, i+1)
	if len(it.children) == 0 {
		it.children = nil
	}
	it.menu.requestRepaint()
}

// RemoveChildren drops the whole submenu.
func (it *Item) RemoveChildren() {
	if it.children == nil {
		return
	}
	it.children = nil
	it.menu.requestRepaint()
}

// SetCommand binds cmd to the item. It does not mark the menu dirty.
func (it *Item) SetCommand(cmd Command) {
	it.command = cmd
}

// SetIcon sets the icon reference.
func (it *Item) SetIcon(icon Resource) {
	it.icon = icon
	it.menu.requestRepaint()
}

// SetText sets the caption. An empty caption is ignored and the previous text kept.
func (it *Item) SetText(text string) {
	if text != "" {
		it.text = text
	}
	it.menu.requestRepaint()
}

// SetEnabled enables or disables the item. Clicks on a disabled item are ignored.
func (it *Item) SetEnabled(enabled bool) {
	it.enabled = enabled
	it.menu.requestRepaint()
}

// SetVisible hides or shows the item. A hidden item is not rendered, and
// neither is anything below it.
func (it *Item) SetVisible(visible bool) {
	it.visible = visible
	it.menu.requestRepaint()
}

// SetStyleName sets the style name the client applies to the item.
func (it *Item) SetStyleName(style string) {
	it.styleName = style
	it.menu.requestRepaint()
}

// SetDescription sets the tooltip text. It may contain formatted markup.
func (it *Item) SetDescription(description string) {
	it.description = description
	it.menu.requestRepaint()
}

// SetCheckable makes the item a checkable leaf. Items with children cannot be checkable.
func (it *Item) SetCheckable(checkable bool) error {
	if it.HasChildren() {
		return fmt.Errorf("item %d has children and cannot be checkable: %w", it.id, ErrIllegalState)
	}
	it.checkable = checkable
	it.menu.requestRepaint()
	return nil
}

// SetChecked sets the checked state. It is rendered only for checkable items.
func (it *Item) SetChecked(checked bool) {
	it.checked = checked
	it.menu.requestRepaint()
}

// canHost validates that a child with caption may be added.
func (it *Item) canHost(caption string) error {
	if err := it.canHostChildren(); err != nil {
		return err
	}
	if caption == "" {
		return fmt.Errorf("caption cannot be empty: %w", ErrInvalidArgument)
	}
	return nil
}

func (it *Item) canHostChildren() error {
	if it.separator {
		return fmt.Errorf("cannot add items to separator %d: %w", it.id, ErrIllegalState)
	}
	if it.checkable {
		return fmt.Errorf("checkable item %d cannot have children: %w", it.id, ErrIllegalState)
	}
	return nil
}

// attach creates a child and sets its parent. This is the only place a parent is set.
func (it *Item) attach(caption string, icon Resource, cmd Command) *Item {
	child := it.menu.newItem(caption, icon, cmd)
	child.parent = it
	return child
}

func indexOf(items []*Item, ref *Item) int {
	if ref == nil {
		return -1
	}
	return slices.Index(items, ref)
}

func insertAfter(items []*Item, item, ref *Item) []*Item {
	i := indexOf(items, ref)
	if i < 0 || i+1 >= len(items) {
		return append(items, item)
	}
	return slices.Insert(items, i+1, item)
}
