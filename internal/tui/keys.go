package tui

import "github.com/charmbracelet/bubbles/key"

// viewerKeyMap defines the key bindings for the stack viewer.
type viewerKeyMap struct {
	Prev     key.Binding
	Next     key.Binding
	JumpBack key.Binding
	JumpFwd  key.Binding
	First    key.Binding
	Last     key.Binding
	Play     key.Binding
	Faster   key.Binding
	Slower   key.Binding
	Contrast key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// newViewerKeyMap creates the default viewer key bindings.
func newViewerKeyMap() viewerKeyMap {
	return viewerKeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev frame"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next frame"),
		),
		JumpBack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "back 10"),
		),
		JumpFwd: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "forward 10"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first frame"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last frame"),
		),
		Play: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		Contrast: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "per-frame contrast"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help view.
func (k viewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Prev, k.Next, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view.
func (k viewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.JumpBack, k.JumpFwd},
		{k.First, k.Last, k.Play, k.Faster, k.Slower},
		{k.Contrast, k.Reset, k.Help, k.Quit},
	}
}
