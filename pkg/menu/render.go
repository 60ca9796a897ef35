package menu

import (
	"github.com/mchmarny/menubar/pkg/menu/paint"
)

// Attribute and tag names shared with the rendering client.
const (
	AttrOpenRootOnHover = "ormoh"
	AttrSubmenuIcon     = "submenuIcon"
	AttrID              = "id"
	AttrStyle           = "style"
	AttrSeparator       = "separator"
	AttrText            = "text"
	AttrCommand         = "command"
	AttrIcon            = "icon"
	AttrDisabled        = "disabled"
	AttrDescription     = "description"
	AttrChecked         = "checked"

	TagRoot     = "menubar"
	TagOptions  = "options"
	TagMoreItem = "moreItem"
	TagItems    = "items"
	TagItem     = "item"
)

// Paint writes the menu to t: the hover flag, an options tag and an items tag
// holding one item tag per visible item, nested as in the tree.
func (m *Menu) Paint(t paint.Target) {
	t.AddAttribute(AttrOpenRootOnHover, m.autoOpen)

	t.StartTag(TagOptions)
	if m.submenuIcon != "" {
		t.AddAttribute(AttrSubmenuIcon, m.submenuIcon)
	}
	if m.width > -1 {
		t.StartTag(TagMoreItem)
		t.AddAttribute(AttrText, m.moreItem.text)
		if m.moreItem.icon != "" {
			t.AddAttribute(AttrIcon, m.moreItem.icon)
		}
		t.EndTag(TagMoreItem)
	}
	t.EndTag(TagOptions)

	t.StartTag(TagItems)
	for _, item := range m.items {
		paintItem(t, item)
	}
	t.EndTag(TagItems)
}

// paintItem writes item and its subtree. Invisible items are skipped together
// with all of their descendants.
func paintItem(t paint.Target, item *Item) {
	if !item.visible {
		return
	}

	t.StartTag(TagItem)
	t.AddAttribute(AttrID, item.id)
	if item.styleName != "" {
		t.AddAttribute(AttrStyle, item.styleName)
	}

	if item.separator {
		t.AddAttribute(AttrSeparator, true)
		t.EndTag(TagItem)
		return
	}

	t.AddAttribute(AttrText, item.text)
	if item.command != nil {
		t.AddAttribute(AttrCommand, true)
	}
	if item.icon != "" {
		t.AddAttribute(AttrIcon, item.icon)
	}
	if !item.enabled {
		t.AddAttribute(AttrDisabled, true)
	}
	if item.description != "" {
		t.AddAttribute(AttrDescription, item.description)
	}
	// presence of the attribute, true or false, marks the item checkable
	if item.checkable {
		t.AddAttribute(AttrChecked, item.checked)
	}
	if item.HasChildren() {
		for _, child := range item.children {
			paintItem(t, child)
		}
	}

	t.EndTag(TagItem)
}

// Render paints the menu into a fresh tag tree. The result shares no state
// with the menu and can be encoded after the menu changes again.
func (m *Menu) Render() (*paint.Tag, error) {
	b := paint.NewBuilder(TagRoot)
	m.Paint(b)
	return b.Close()
}
