// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type (
	// Item is one selectable row of the picker.
	Item struct {
		// Label is what the user types to match, e.g. "(app|a) dev (local)".
		Label string
		// Detail is shown under the label, e.g. the command line and document.
		Detail string
	}

	// PickerOptions configures Pick.
	PickerOptions struct {
		// Title is displayed above the list.
		Title string
		// Height and Width limit the list size (0 for defaults).
		Height int
		Width  int
		// Input and Output default to os.Stdin and os.Stderr.
		Input  io.Reader
		Output io.Writer
	}

	pickerItem struct {
		Item
		index int
	}

	pickerModel struct {
		list      list.Model
		chosen    int
		quitting  bool
		cancelled bool
	}
)

func (i pickerItem) Title() string       { return i.Label }
func (i pickerItem) Description() string { return i.Detail }
func (i pickerItem) FilterValue() string { return i.Label }

func newPickerModel(items []Item, opts PickerOptions) pickerModel {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = pickerItem{Item: it, index: i}
	}

	height := opts.Height
	if height == 0 {
		height = 20
	}
	width := opts.Width
	if width == 0 {
		width = 80
	}

	l := list.New(listItems, list.NewDefaultDelegate(), width, height)
	l.Title = opts.Title
	l.Filter = listFilter
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	return pickerModel{list: l, chosen: -1}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(pickerItem); ok {
				m.chosen = item.index
			}
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Pick shows items and returns the index of the chosen one. ok is false when
// the user cancelled with Esc or Ctrl+C, or there was nothing to pick.
func Pick(ctx context.Context, items []Item, opts PickerOptions) (index int, ok bool, err error) {
	if len(items) == 0 {
		return -1, false, nil
	}

	input := opts.Input
	if input == nil {
		input = os.Stdin
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	p := tea.NewProgram(newPickerModel(items, opts),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(output),
	)
	final, err := p.Run()
	if err != nil {
		return -1, false, fmt.Errorf("picker: %w", err)
	}

	fm, isModel := final.(pickerModel)
	if !isModel || fm.cancelled || fm.chosen < 0 {
		return -1, false, nil
	}
	return fm.chosen, true, nil
}
