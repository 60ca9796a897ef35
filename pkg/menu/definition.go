package menu

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Definition is the declarative layout of a menu bar as read from a TOML file:
//
//	auto_open = true
//	width = 640
//
//	[more]
//	text = "More"
//
//	[[item]]
//	text = "File"
//
//	  [[item.item]]
//	  text = "Open"
//	  command = "open"
//
//	  [[item.item]]
//	  separator = true
type Definition struct {
	AutoOpen    bool             `toml:"auto_open"`
	Width       *int             `toml:"width"`
	SubmenuIcon string           `toml:"submenu_icon"`
	More        *ItemDefinition  `toml:"more"`
	Items       []ItemDefinition `toml:"item"`
}

// ItemDefinition describes one item and its submenu.
type ItemDefinition struct {
	Text        string           `toml:"text"`
	Icon        string           `toml:"icon"`
	Command     string           `toml:"command"`
	Style       string           `toml:"style"`
	Description string           `toml:"description"`
	Separator   bool             `toml:"separator"`
	Checkable   bool             `toml:"checkable"`
	Checked     bool             `toml:"checked"`
	Disabled    bool             `toml:"disabled"`
	Hidden      bool             `toml:"hidden"`
	Items       []ItemDefinition `toml:"item"`
}

// LoadDefinition reads a menu definition from the TOML file at path.
func LoadDefinition(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open menu definition: %w", err)
	}
	defer f.Close()

	def, err := DecodeDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// DecodeDefinition parses a TOML menu definition. Unknown keys are rejected.
func DecodeDefinition(r io.Reader) (*Definition, error) {
	var def Definition

	md, err := toml.NewDecoder(r).Decode(&def)
	if err != nil {
		return nil, fmt.Errorf("failed to decode menu definition: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in menu definition: %s: %w",
			strings.Join(keys, ", "), ErrInvalidArgument)
	}

	return &def, nil
}

// Build creates a menu from the definition. Command names are resolved in cmds.
func (d *Definition) Build(cmds Commands) (*Menu, error) {
	m := New()
	m.SetAutoOpen(d.AutoOpen)
	m.SetSubmenuIcon(Resource(d.SubmenuIcon))

	if d.Width != nil {
		m.SetWidth(*d.Width)
	}

	if d.More != nil {
		more, err := m.NewItem(d.More.Text, Resource(d.More.Icon), nil)
		if err != nil {
			return nil, fmt.Errorf("more item: %w", err)
		}
		m.SetMoreItem(more)
	}

	for i := range d.Items {
		def := &d.Items[i]
		if def.Separator {
			return nil, fmt.Errorf("item %d: separators are not allowed at the top level: %w", i, ErrInvalidArgument)
		}
		if err := def.validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		cmd, err := cmds.lookup(def.Command)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", def.Text, err)
		}

		item, err := m.AddItem(def.Text, Resource(def.Icon), cmd)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		if err := def.apply(item, cmds); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// apply copies state onto item and builds its children.
func (d *ItemDefinition) apply(item *Item, cmds Commands) error {
	if d.Style != "" {
		item.SetStyleName(d.Style)
	}
	if d.Description != "" {
		item.SetDescription(d.Description)
	}
	if d.Disabled {
		item.SetEnabled(false)
	}
	if d.Hidden {
		item.SetVisible(false)
	}

	for i := range d.Items {
		def := &d.Items[i]
		if err := def.validate(); err != nil {
			return fmt.Errorf("item %q child %d: %w", item.Text(), i, err)
		}

		var (
			child *Item
			err   error
		)

		if def.Separator {
			child, err = item.AddSeparator()
		} else {
			var cmd Command
			if cmd, err = cmds.lookup(def.Command); err != nil {
				return fmt.Errorf("item %q: %w", def.Text, err)
			}
			child, err = item.AddItem(def.Text, Resource(def.Icon), cmd)
		}
		if err != nil {
			return fmt.Errorf("item %q child %d: %w", item.Text(), i, err)
		}

		if err := def.apply(child, cmds); err != nil {
			return err
		}
	}

	if d.Checkable {
		if err := item.SetCheckable(true); err != nil {
			return fmt.Errorf("item %q: %w", item.Text(), err)
		}
		item.SetChecked(d.Checked)
	}

	return nil
}

// validate rejects flag combinations that would otherwise be dropped silently.
func (d *ItemDefinition) validate() error {
	if d.Checked && !d.Checkable {
		return fmt.Errorf("checked requires checkable: %w", ErrInvalidArgument)
	}
	if d.Separator && (d.Checkable || d.Checked) {
		return fmt.Errorf("separators cannot be checkable: %w", ErrInvalidArgument)
	}
	return nil
}

func (c Commands) lookup(name string) (Command, error) {
	if name == "" {
		return nil, nil
	}
	cmd, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}
	return cmd, nil
}
