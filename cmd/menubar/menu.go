package main

import (
	"log/slog"

	"github.com/mchmarny/menubar/pkg/menu"
)

// commands are the named commands a menu definition can bind to.
func commands() menu.Commands {
	return menu.Commands{
		"log": menu.CommandFunc(logSelection),
	}
}

// logSelection logs which item was selected and its check state.
func logSelection(item *menu.Item) {
	attrs := []any{"id", item.ID(), "text", item.Text()}
	if item.IsCheckable() {
		attrs = append(attrs, "checked", item.IsChecked())
	}
	if p := item.Parent(); p != nil {
		attrs = append(attrs, "parent", p.Text())
	}
	slog.Info("menu item selected", attrs...)
}

// loadMenu reads the definition at path, or builds the demo menu when path is empty.
func loadMenu(path string) (*menu.Menu, error) {
	if path == "" {
		return makeMenu()
	}

	def, err := menu.LoadDefinition(path)
	if err != nil {
		return nil, err
	}
	return def.Build(commands())
}

// makeMenu constructs the demo menu: a File menu with a separator and a
// submenu, an Edit menu with disabled entries and a View menu with checkable entries.
func makeMenu() (*menu.Menu, error) {
	def := &menu.Definition{
		Items: []menu.ItemDefinition{
			{
				Text: "File",
				Items: []menu.ItemDefinition{
					{Text: "New", Command: "log"},
					{Text: "Open", Command: "log", Description: "Open an existing document"},
					{Separator: true},
					{Text: "Export", Items: []menu.ItemDefinition{
						{Text: "PNG", Command: "log"},
						{Text: "SVG", Command: "log"},
					}},
				},
			},
			{
				Text: "Edit",
				Items: []menu.ItemDefinition{
					{Text: "Undo", Command: "log", Disabled: true},
					{Text: "Redo", Command: "log", Disabled: true},
				},
			},
			{
				Text: "View",
				Items: []menu.ItemDefinition{
					{Text: "Grid", Command: "log", Checkable: true, Checked: true},
					{Text: "Rulers", Command: "log", Checkable: true},
				},
			},
		},
	}

	return def.Build(commands())
}
