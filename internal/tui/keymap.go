package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	reload     key.Binding
	toggleHelp key.Binding
	left       key.Binding
	right      key.Binding
	up         key.Binding
	down       key.Binding
	pickUp     key.Binding
	drop       key.Binding
	cancel     key.Binding
	addTask    key.Binding
	itemInfo   key.Binding
	toggleDone key.Binding
	deleteItem key.Binding
	copyID     key.Binding
}

// KeyBindingConfig carries the rebindable drag keys.
type KeyBindingConfig struct {
	PickUp string
	Drop   string
	Cancel string
	Help   string
	Quit   string
}

// defaultKeyBindings returns the standard drag key set.
func defaultKeyBindings() KeyBindingConfig {
	return KeyBindingConfig{
		PickUp: " ",
		Drop:   "enter",
		Cancel: "esc",
		Help:   "?",
		Quit:   "q",
	}
}

// newKeyMap constructs a key map from the rebindable drag keys.
func newKeyMap(cfg KeyBindingConfig) keyMap {
	def := defaultKeyBindings()
	if cfg.PickUp == "" {
		cfg.PickUp = def.PickUp
	}
	if cfg.Drop == "" {
		cfg.Drop = def.Drop
	}
	if cfg.Cancel == "" {
		cfg.Cancel = def.Cancel
	}
	if cfg.Help == "" {
		cfg.Help = def.Help
	}
	if cfg.Quit == "" {
		cfg.Quit = def.Quit
	}
	return keyMap{
		quit:       key.NewBinding(key.WithKeys(cfg.Quit, "ctrl+c"), key.WithHelp(cfg.Quit, "quit")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp: key.NewBinding(key.WithKeys(cfg.Help), key.WithHelp(cfg.Help, "toggle help")),
		left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "lane left")),
		right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "lane right")),
		up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "item up")),
		down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "item down")),
		pickUp:     key.NewBinding(key.WithKeys(pickUpKeys(cfg.PickUp)...), key.WithHelp(keyLabel(cfg.PickUp), "pick up item")),
		drop:       key.NewBinding(key.WithKeys(cfg.Drop), key.WithHelp(cfg.Drop, "drop item")),
		cancel:     key.NewBinding(key.WithKeys(cfg.Cancel), key.WithHelp(cfg.Cancel, "cancel drag")),
		addTask:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		itemInfo:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "item info")),
		toggleDone: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
		deleteItem: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete item")),
		copyID:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy item id")),
	}
}

// keyLabel renders one key for the help line.
func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// pickUpKeys expands the space bar into both of its key representations.
func pickUpKeys(k string) []string {
	if k == " " || k == "space" {
		return []string{" ", "space"}
	}
	return []string{k}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.pickUp, k.drop, k.addTask, k.itemInfo, k.toggleDone, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.up, k.down},
		{k.pickUp, k.drop, k.cancel},
		{k.addTask, k.itemInfo, k.toggleDone, k.deleteItem, k.copyID, k.reload, k.toggleHelp, k.quit},
	}
}
