package menu

// Command is bound to an item and invoked when the item is selected on the client.
type Command interface {
	MenuSelected(item *Item)
}

// CommandFunc adapts an ordinary function to the Command interface.
type CommandFunc func(item *Item)

// MenuSelected calls f(item).
func (f CommandFunc) MenuSelected(item *Item) {
	f(item)
}

// Commands maps command names, as referenced from menu definitions, to commands.
type Commands map[string]Command
