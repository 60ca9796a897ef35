package menu

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDefinition = `
auto_open = true
width = 640
submenu_icon = "icons/arrow.png"

[more]
text = "More"
icon = "icons/more.png"

[[item]]
text = "File"

  [[item.item]]
  text = "Open"
  command = "open"
  description = "Open a file"

  [[item.item]]
  separator = true

  [[item.item]]
  text = "Recent"

    [[item.item.item]]
    text = "notes.txt"
    command = "open"

[[item]]
text = "View"
style = "wide"

  [[item.item]]
  text = "Grid"
  checkable = true
  checked = true

  [[item.item]]
  text = "Hidden"
  hidden = true

  [[item.item]]
  text = "Disabled"
  disabled = true
`

func TestDecodeAndBuild(t *testing.T) {
	def, err := DecodeDefinition(strings.NewReader(sampleDefinition))
	if err != nil {
		t.Fatalf("DecodeDefinition() error: %v", err)
	}

	opened := 0
	m, err := def.Build(Commands{"open": CommandFunc(func(*Item) { opened++ })})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if !m.AutoOpen() || m.Width() != 640 || m.SubmenuIcon() != "icons/arrow.png" {
		t.Errorf("options = %v, %d, %q", m.AutoOpen(), m.Width(), m.SubmenuIcon())
	}
	if m.MoreItem().Text() != "More" || m.MoreItem().Icon() != "icons/more.png" {
		t.Errorf("more item = %q, %q", m.MoreItem().Text(), m.MoreItem().Icon())
	}

	if got, want := captions(m.Items()), []string{"File", "View"}; !equalStrings(got, want) {
		t.Fatalf("items = %v, want %v", got, want)
	}

	file := m.Items()[0]
	if file.Size() != 3 {
		t.Fatalf("File size = %d, want 3", file.Size())
	}
	if !file.Children()[1].IsSeparator() {
		t.Error("second File child is not a separator")
	}
	open := file.Children()[0]
	if open.Description() != "Open a file" {
		t.Errorf("Open description = %q", open.Description())
	}
	recent := file.Children()[2]
	if recent.Size() != 1 || recent.Children()[0].Parent() != recent {
		t.Error("nested Recent submenu not built")
	}

	view := m.Items()[1]
	if view.StyleName() != "wide" {
		t.Errorf("View style = %q, want wide", view.StyleName())
	}
	grid, hidden, disabled := view.Children()[0], view.Children()[1], view.Children()[2]
	if !grid.IsCheckable() || !grid.IsChecked() {
		t.Error("Grid not checkable and checked")
	}
	if hidden.IsVisible() {
		t.Error("Hidden is visible")
	}
	if disabled.IsEnabled() {
		t.Error("Disabled is enabled")
	}

	m.Click(open.ID())
	m.Click(recent.Children()[0].ID())
	if opened != 2 {
		t.Errorf("open command count = %d, want 2", opened)
	}
}

func TestDecodeUnknownKey(t *testing.T) {
	_, err := DecodeDefinition(strings.NewReader("[[item]]\ntext = \"A\"\ncolour = \"red\"\n"))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	if !strings.Contains(err.Error(), "colour") {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := DecodeDefinition(strings.NewReader("[[item]\n")); err == nil {
		t.Error("DecodeDefinition() of malformed TOML: expected error")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{
			name: "unknown command",
			def:  Definition{Items: []ItemDefinition{{Text: "A", Command: "missing"}}},
			want: ErrUnknownCommand,
		},
		{
			name: "empty caption",
			def:  Definition{Items: []ItemDefinition{{Text: ""}}},
			want: ErrInvalidArgument,
		},
		{
			name: "top-level separator",
			def:  Definition{Items: []ItemDefinition{{Separator: true}}},
			want: ErrInvalidArgument,
		},
		{
			name: "checkable with children",
			def: Definition{Items: []ItemDefinition{{
				Text:      "A",
				Checkable: true,
				Items:     []ItemDefinition{{Text: "B"}},
			}}},
			want: ErrIllegalState,
		},
		{
			name: "nested unknown command",
			def: Definition{Items: []ItemDefinition{{
				Text:  "A",
				Items: []ItemDefinition{{Text: "B", Command: "missing"}},
			}}},
			want: ErrUnknownCommand,
		},
		{
			name: "checked without checkable",
			def:  Definition{Items: []ItemDefinition{{Text: "A", Checked: true}}},
			want: ErrInvalidArgument,
		},
		{
			name: "nested checked without checkable",
			def: Definition{Items: []ItemDefinition{{
				Text:  "A",
				Items: []ItemDefinition{{Text: "B", Checked: true}},
			}}},
			want: ErrInvalidArgument,
		},
		{
			name: "checkable separator",
			def: Definition{Items: []ItemDefinition{{
				Text:  "A",
				Items: []ItemDefinition{{Text: "B"}, {Separator: true, Checkable: true}},
			}}},
			want: ErrInvalidArgument,
		},
		{
			name: "empty more caption",
			def:  Definition{More: &ItemDefinition{}},
			want: ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.def.Build(nil); !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.toml")
	if err := os.WriteFile(path, []byte(sampleDefinition), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("LoadDefinition() error: %v", err)
	}
	if len(def.Items) != 2 {
		t.Errorf("items = %d, want 2", len(def.Items))
	}

	if _, err := LoadDefinition(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadDefinition(missing) error = %v, want ErrNotExist", err)
	}
}
