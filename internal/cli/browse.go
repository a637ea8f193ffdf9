package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foxxcyber/turismo/internal/client"
	"github.com/foxxcyber/turismo/internal/models"
)

var browseKeys = struct {
	filter, clear, remove, refresh, quit key.Binding
}{
	filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter by start date")),
	clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filter")),
	remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
	refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Messages produced by the browse commands.
type (
	recordsMsg []models.Turismo
	deletedMsg string
	errMsg     struct{ err error }
)

type browseModel struct {
	ctx    context.Context
	client *client.Client

	all     []models.Turismo
	visible []models.Turismo
	date    string

	table     table.Model
	input     textinput.Model
	filtering bool
	status    string
}

func newBrowseModel(ctx context.Context, c *client.Client) browseModel {
	cols := make([]table.Column, 0, len(recordHeaders))
	for _, h := range recordHeaders {
		w := 14
		if h == "ID" {
			w = 36
		}
		cols = append(cols, table.Column{Title: h, Width: w})
	}

	ti := textinput.New()
	ti.Prompt = "date> "
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10

	return browseModel{
		ctx:    ctx,
		client: c,
		table:  table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(15)),
		input:  ti,
		status: "Loading...",
	}
}

func (m browseModel) fetch() tea.Msg {
	records, err := m.client.List(m.ctx, nil)
	if err != nil {
		return errMsg{err}
	}
	return recordsMsg(records)
}

func (m browseModel) remove(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.Delete(m.ctx, id); err != nil {
			return errMsg{err}
		}
		return deletedMsg(id)
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.fetch
}

// applyFilter recomputes the visible rows from all and the date filter.
func (m *browseModel) applyFilter() {
	m.visible = client.FilterByStartDate(m.all, m.date)
	rows := make([]table.Row, 0, len(m.visible))
	for _, r := range m.visible {
		rows = append(rows, table.Row(recordRow(r)))
	}
	m.table.SetRows(rows)
	if m.date != "" && len(m.visible) == 0 {
		m.status = "No matching rows."
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsMsg:
		m.all = msg
		m.status = fmt.Sprintf("%d records", len(m.all))
		m.applyFilter()
		return m, nil

	case deletedMsg:
		m.status = "Record deleted: " + string(msg)
		return m, m.fetch

	case errMsg:
		m.status = "Error: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.Type {
			case tea.KeyEnter:
				m.filtering = false
				m.date = strings.TrimSpace(m.input.Value())
				m.input.Blur()
				m.table.Focus()
				m.status = fmt.Sprintf("%d records", len(m.all))
				m.applyFilter()
				return m, nil
			case tea.KeyEsc:
				m.filtering = false
				m.input.Blur()
				m.table.Focus()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, browseKeys.quit):
			return m, tea.Quit
		case key.Matches(msg, browseKeys.filter):
			m.filtering = true
			m.input.SetValue(m.date)
			m.table.Blur()
			return m, m.input.Focus()
		case key.Matches(msg, browseKeys.clear):
			m.date = ""
			m.status = fmt.Sprintf("%d records", len(m.all))
			m.applyFilter()
			return m, nil
		case key.Matches(msg, browseKeys.refresh):
			m.status = "Loading..."
			return m, m.fetch
		case key.Matches(msg, browseKeys.remove):
			i := m.table.Cursor()
			if i < 0 || i >= len(m.visible) {
				return m, nil
			}
			return m, m.remove(m.visible[i].ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tourism Data Management"))
	if m.date != "" {
		b.WriteString(mutedStyle.Render("  start date = " + m.date))
	}
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(m.status))
	b.WriteString("\n")

	help := []key.Binding{browseKeys.filter, browseKeys.clear, browseKeys.remove, browseKeys.refresh, browseKeys.quit}
	parts := make([]string, 0, len(help))
	for _, h := range help {
		parts = append(parts, h.Help().Key+" "+h.Help().Desc)
	}
	b.WriteString(mutedStyle.Render(strings.Join(parts, " • ")))
	return b.String()
}

// Browse runs the interactive record table until the user quits.
func Browse(ctx context.Context, c *client.Client) error {
	p := tea.NewProgram(newBrowseModel(ctx, c), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
