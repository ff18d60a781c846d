package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/lovedhomes/internal/checklist"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/internal/ui"
)

// row is one visible line of the tree.
type row struct {
	path model.Path
	node model.Node
}

func (r row) ref() model.Ref {
	if r.node.ID != "" {
		return model.RefID(r.node.ID)
	}
	return model.RefPath(r.path)
}

func rowsOf(nodes []model.Node) []row {
	var rows []row
	model.Walk(nodes, func(p model.Path, n model.Node) {
		rows = append(rows, row{path: p, node: n})
	})
	return rows
}

type checklistModel struct {
	ctx     context.Context
	deps    Deps
	session *checklist.Session

	rows   []row
	cursor int

	// editing is set while the title input owns the selected row; target
	// and original are captured when editing starts.
	editing  bool
	target   model.Ref
	original string
	input    textinput.Model

	spinner spinner.Model
	busy    int
	loaded  bool
	status  string

	width, height int
}

func newChecklistModel(ctx context.Context, deps Deps, s *checklist.Session) checklistModel {
	deps = deps.withDefaults()
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Placeholder = model.UntitledTitle

	return checklistModel{
		ctx:     ctx,
		deps:    deps,
		session: s,
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.AccentStyle)),
	}
}

func (m checklistModel) Init() tea.Cmd {
	s, ctx := m.session, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		nodes, err := s.Load(ctx)
		return nodesMsg{session: s, nodes: nodes, err: err}
	})
}

func (m *checklistModel) begin() tea.Cmd {
	m.busy++
	if m.busy == 1 {
		return m.spinner.Tick
	}
	return nil
}

func (m *checklistModel) end() {
	if m.busy > 0 {
		m.busy--
	}
}

// pending reports a request in flight, including the first load.
func (m checklistModel) pending() bool { return m.busy > 0 || !m.loaded }

func (m checklistModel) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// add dispatches a node creation. The new node's id is unknown until the
// server answers, so the cursor follows the first id that was not there
// before.
func (m *checklistModel) add(parent model.Ref, kind model.Kind) tea.Cmd {
	s, ctx := m.session, m.ctx
	before := map[model.ID]bool{}
	for _, r := range m.rows {
		before[r.node.ID] = true
	}
	return tea.Batch(m.begin(), func() tea.Msg {
		nodes, err := s.Add(ctx, parent, kind)
		msg := nodesMsg{session: s, nodes: nodes, err: err}
		if err == nil {
			model.Walk(nodes, func(_ model.Path, n model.Node) {
				if msg.focus == "" && n.ID != "" && !before[n.ID] {
					msg.focus = n.ID
				}
			})
		}
		return msg
	})
}

func (m *checklistModel) remove(target model.Ref) tea.Cmd {
	s, ctx := m.session, m.ctx
	return tea.Batch(m.begin(), func() tea.Msg {
		nodes, err := s.Delete(ctx, target)
		return nodesMsg{session: s, nodes: nodes, err: err}
	})
}

func (m *checklistModel) reload() tea.Cmd {
	s, ctx := m.session, m.ctx
	return tea.Batch(m.begin(), func() tea.Msg {
		nodes, err := s.Load(ctx)
		return nodesMsg{session: s, nodes: nodes, err: err}
	})
}

func (m *checklistModel) startEdit() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		return nil
	}
	m.editing = true
	m.target = r.ref()
	m.original = r.node.Title
	m.input.SetValue(r.node.Title)
	m.input.CursorEnd()
	return m.input.Focus()
}

// commit leaves edit mode and sends the title. Rename skips the request
// when the trimmed title is unchanged.
func (m *checklistModel) commit() tea.Cmd {
	if !m.editing {
		return nil
	}
	target, title := m.target, m.input.Value()
	m.stopEdit()
	if strings.TrimSpace(title) == m.original {
		return nil
	}
	s, ctx := m.session, m.ctx
	return tea.Batch(m.begin(), func() tea.Msg {
		nodes, changed, err := s.Rename(ctx, target, title)
		return nodesMsg{session: s, nodes: nodes, changed: changed, err: err}
	})
}

// revert leaves edit mode without a request; the row keeps the last known
// server title.
func (m *checklistModel) revert() {
	m.stopEdit()
}

func (m *checklistModel) stopEdit() {
	m.editing = false
	m.target = model.Ref{}
	m.original = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m *checklistModel) setNodes(nodes []model.Node, focus model.ID) {
	var keep model.ID
	if r, ok := m.selected(); ok {
		keep = r.node.ID
	}
	if focus != "" {
		keep = focus
	}
	m.rows = rowsOf(nodes)
	m.loaded = true
	if keep != "" {
		for i, r := range m.rows {
			if r.node.ID == keep {
				m.cursor = i
				return
			}
		}
	}
	m.cursor = min(m.cursor, len(m.rows)-1)
	m.cursor = max(m.cursor, 0)
}

func (m *checklistModel) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
}

func (m checklistModel) Update(msg tea.Msg) (checklistModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case spinner.TickMsg:
		if m.busy == 0 && m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case nodesMsg:
		if msg.session != m.session {
			// answer for a checklist that is no longer open
			return m, nil
		}
		m.end()
		if msg.err != nil {
			m.status = "Errore: " + msg.err.Error()
		} else {
			m.status = ""
		}
		if msg.changed {
			m.deps.Logger.Debugf(m.ctx, "tui: title saved for %s", m.session.Property().ID)
		}
		m.setNodes(msg.nodes, msg.focus)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateViewing(msg)
	}
	return m, nil
}

func (m checklistModel) updateEditing(msg tea.KeyMsg) (checklistModel, tea.Cmd) {
	switch {
	case key.Matches(msg, clKeys.Commit), key.Matches(msg, clKeys.Blur):
		return m, m.commit()
	case key.Matches(msg, clKeys.Revert):
		m.revert()
		return m, nil
	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		// moving focus away blurs the row
		cmd := m.commit()
		if msg.Type == tea.KeyUp {
			m.move(-1)
		} else {
			m.move(1)
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m checklistModel) updateViewing(msg tea.KeyMsg) (checklistModel, tea.Cmd) {
	switch {
	case key.Matches(msg, clKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, clKeys.Back):
		return m, func() tea.Msg { return backMsg{} }
	case key.Matches(msg, clKeys.Up):
		m.move(-1)
	case key.Matches(msg, clKeys.Down):
		m.move(1)
	case key.Matches(msg, clKeys.Edit):
		return m, m.startEdit()
	case key.Matches(msg, clKeys.AddItem):
		if m.pending() {
			return m, nil
		}
		return m, m.add(model.Ref{}, model.KindItem)
	case key.Matches(msg, clKeys.AddFolder):
		if m.pending() {
			return m, nil
		}
		return m, m.add(model.Ref{}, model.KindFolder)
	case key.Matches(msg, clKeys.AddChild), key.Matches(msg, clKeys.AddSub):
		r, ok := m.selected()
		if !ok || m.pending() {
			return m, nil
		}
		kind := model.KindItem
		if key.Matches(msg, clKeys.AddSub) {
			kind = model.KindFolder
		}
		return m, m.add(r.ref(), kind)
	case key.Matches(msg, clKeys.Delete):
		if r, ok := m.selected(); ok {
			return m, m.remove(r.ref())
		}
	case key.Matches(msg, clKeys.Reload):
		m.status = ""
		return m, m.reload()
	}
	return m, nil
}

func (m checklistModel) header() string {
	prop := m.session.Property()
	title := ui.TitleStyle.Render(ui.Current().SymHome + " " + prop.Name)
	back := ui.MutedStyle.Render("esc ← Tutte le case")
	head := title + "\n" + back
	if prop.HasPhoto() && m.deps.Previewer != nil {
		if thumb, err := m.deps.Previewer.Render(prop.PhotoURL, previewCols, previewRows/2); err == nil {
			head = lipgloss.JoinHorizontal(lipgloss.Top, thumb, "  ", head)
		}
	}
	return head
}

func (m checklistModel) rowView(i int, r row) string {
	t := ui.Current()
	indent := strings.Repeat("  ", len(r.path)-1)
	sym := ui.MutedStyle.Render(t.SymItem)
	if r.node.IsFolder() {
		sym = ui.AccentStyle.Render(t.SymFolder)
	}
	text := r.node.DisplayTitle()
	if r.node.Title == "" {
		text = ui.MutedStyle.Render(text)
	}
	if r.node.IsFolder() {
		text = ui.TitleStyle.Render(text)
	}
	prefix := "  "
	if i == m.cursor {
		prefix = ui.SelectedStyle.Render("> ")
		if m.editing {
			text = ui.EditStyle.Render(m.input.View())
		}
	}
	return prefix + indent + sym + " " + text
}

func (m checklistModel) View() string {
	if m.session == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header() + "\n\n")

	switch {
	case !m.loaded:
	case len(m.rows) == 0:
		b.WriteString(ui.MutedStyle.Render("Nessuna voce ancora.") + "\n")
	default:
		start, rows := m.visibleRows()
		for i, r := range rows {
			b.WriteString(m.rowView(start+i, r) + "\n")
		}
	}

	if m.busy > 0 || !m.loaded {
		b.WriteString(m.spinner.View() + " caricamento…\n")
	}
	if m.status != "" {
		b.WriteString(ui.ErrorStyle.Render(m.status) + "\n")
	}

	help := helpLine(clKeys.Edit, clKeys.AddItem, clKeys.AddFolder, clKeys.Delete, clKeys.Back, clKeys.Quit)
	if m.session.Flat() {
		help = helpLine(clKeys.Edit, clKeys.AddItem, clKeys.Delete, clKeys.Back, clKeys.Quit)
	} else if r, ok := m.selected(); ok && r.node.IsFolder() {
		help += " · " + helpLine(clKeys.AddChild, clKeys.AddSub)
	}
	if m.editing {
		help = helpLine(clKeys.Commit, clKeys.Revert)
	}
	b.WriteString("\n" + ui.HelpStyle.Render(help))
	return ui.Box(b.String())
}

// visibleRows returns the window of rows that fits the terminal, keeping
// the cursor in view.
func (m checklistModel) visibleRows() (int, []row) {
	room := m.height - 12
	if m.height == 0 || room >= len(m.rows) {
		return 0, m.rows
	}
	room = min(max(room, 3), len(m.rows))
	start := max(m.cursor-room/2, 0)
	start = min(start, len(m.rows)-room)
	return start, m.rows[start : start+room]
}
