package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	Select    key.Binding
	New       key.Binding
	Rename    key.Binding
	Delete    key.Binding
	Status    key.Binding
	Upload    key.Binding
	Plan      key.Binding
	Name      key.Binding
	Checkout  key.Binding
	Chat      key.Binding
	Copy      key.Binding
	ClearChat key.Binding
	Health    key.Binding
	Quit      key.Binding
	Back      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Rename:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Status:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Upload:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Plan:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plan")),
		Name:      key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "name")),
		Checkout:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "checkout")),
		Chat:      key.NewBinding(key.WithKeys("i", "/"), key.WithHelp("i", "ask tutor")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy reply")),
		ClearChat: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),
		Health:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recheck")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// footerBindings are the hints shown for the current tab.
func (k keyMap) footerBindings(tab string) []key.Binding {
	switch tab {
	case "projects":
		return []key.Binding{k.NextTab, k.Select, k.New, k.Rename, k.Status, k.Delete, k.Chat, k.Quit}
	case "folders":
		return []key.Binding{k.NextTab, k.Select, k.New, k.Rename, k.Delete, k.Chat, k.Quit}
	case "files":
		return []key.Binding{k.NextTab, k.Upload, k.Delete, k.Chat, k.Quit}
	default:
		return []key.Binding{k.NextTab, k.Name, k.Plan, k.Checkout, k.Chat, k.Copy, k.Quit}
	}
}
